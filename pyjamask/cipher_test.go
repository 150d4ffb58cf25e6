// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package pyjamask

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 64; i++ {
		key := make([]byte, KeySize)
		r.Read(key)
		pt := make([]byte, BlockSize)
		r.Read(pt)

		s, err := NewSchedule(key)
		if err != nil {
			t.Fatalf("NewSchedule failed: %v", err)
		}
		ct := make([]byte, BlockSize)
		s.Encrypt(ct, pt)
		got := make([]byte, BlockSize)
		s.Decrypt(got, ct)
		if !bytes.Equal(got, pt) {
			t.Fatalf("round trip mismatch: got %x, want %x", got, pt)
		}
	}
}

func TestInvalidKeySize(t *testing.T) {
	if _, err := NewSchedule(make([]byte, 15)); err != ErrInvalidKeySize {
		t.Fatalf("got %v, want ErrInvalidKeySize", err)
	}
}

func TestSboxIsBijective(t *testing.T) {
	var seen [16]bool
	for _, v := range sbox {
		if seen[v] {
			t.Fatalf("sbox is not a bijection: value %d repeats", v)
		}
		seen[v] = true
	}
}

func TestCBMLinearity(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	c := uint32(0xa3861085)
	a := r.Uint32()
	b := r.Uint32()
	if cbm(c, a^b) != cbm(c, a)^cbm(c, b) {
		t.Fatal("cbm is not GF(2)-linear")
	}
}

func TestInvCBMRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, c := range mixColumnsConstants {
		x := r.Uint32()
		y := cbm(c, x)
		if got := invCBM(c, y); got != x {
			t.Fatalf("invCBM round trip failed for c=%#x: got %#x, want %#x", c, got, x)
		}
	}
}
