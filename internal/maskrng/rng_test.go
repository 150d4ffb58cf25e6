// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package maskrng

import "testing"

func TestNotConstant(t *testing.T) {
	s := New()
	seen := make(map[uint32]bool)
	for i := 0; i < 64; i++ {
		seen[s.Uint32()] = true
	}
	if len(seen) < 32 {
		t.Fatalf("RNG output looks constant: only %d distinct values in 64 draws", len(seen))
	}
}

func TestFillLength(t *testing.T) {
	s := New()
	for _, n := range []int{0, 1, 3, 4, 7, 8, 64, 65} {
		buf := make([]byte, n)
		s.Fill(buf)
		if len(buf) != n {
			t.Fatalf("Fill changed buffer length: got %d, want %d", len(buf), n)
		}
	}
}

func TestRekeyChangesOutput(t *testing.T) {
	s := New()
	before := s.Uint64()
	s.Finish()
	after := s.Uint64()
	if before == after {
		t.Fatal("Finish() did not appear to rekey the generator")
	}
}

func TestXorshiftFallbackNotConstant(t *testing.T) {
	s := &Source{insecure: true, xorshift: 0x6A09E667F3BCC908}
	seen := make(map[uint32]bool)
	for i := 0; i < 64; i++ {
		seen[s.xorshiftWord()] = true
	}
	if len(seen) < 32 {
		t.Fatalf("xorshift fallback looks constant: only %d distinct values", len(seen))
	}
}
