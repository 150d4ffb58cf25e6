// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package clyde

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestShadowPermuteDeterministic(t *testing.T) {
	var a, b Shadow384
	for i := range a {
		for j := range a[i] {
			a[i][j] = uint32(i*4+j) * 0x01010101
			b[i][j] = a[i][j]
		}
	}
	a.Permute()
	b.Permute()
	if a != b {
		t.Fatal("Shadow384.Permute is not deterministic for identical input states")
	}
}

func TestShadowBytesRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	raw := make([]byte, 48)
	r.Read(raw)
	var s Shadow384
	s.SetBytes(raw)
	if !bytes.Equal(s.Bytes(), raw) {
		t.Fatal("Shadow384 Bytes/SetBytes round trip mismatch")
	}
}

func TestSpookRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, n := range []int{0, 1, 15, 16, 17, 63, 64, 200} {
		key := make([]byte, SpookKeySize)
		nonce := make([]byte, SpookNonceSize)
		ad := make([]byte, 30)
		pt := make([]byte, n)
		r.Read(key)
		r.Read(nonce)
		r.Read(ad)
		r.Read(pt)

		ct := Seal(key, nonce, ad, pt)
		if len(ct) != n+SpookTagSize {
			t.Fatalf("n=%d: ciphertext length = %d, want %d", n, len(ct), n+SpookTagSize)
		}
		got, err := Open(key, nonce, ad, ct)
		if err != nil {
			t.Fatalf("n=%d: Open failed: %v", n, err)
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("n=%d: round trip mismatch", n)
		}
	}
}

func TestSpookEmptyInput(t *testing.T) {
	key := make([]byte, SpookKeySize)
	nonce := make([]byte, SpookNonceSize)
	ct := Seal(key, nonce, nil, nil)
	if len(ct) != SpookTagSize {
		t.Fatalf("empty ciphertext length = %d, want %d", len(ct), SpookTagSize)
	}
	pt, err := Open(key, nonce, nil, ct)
	if err != nil || len(pt) != 0 {
		t.Fatalf("empty round trip failed: %v", err)
	}
}

func TestSpookTamperDetection(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	key := make([]byte, SpookKeySize)
	nonce := make([]byte, SpookNonceSize)
	ad := make([]byte, 10)
	pt := make([]byte, 50)
	r.Read(key)
	r.Read(nonce)
	r.Read(ad)
	r.Read(pt)
	ct := Seal(key, nonce, ad, pt)

	tamperedCT := append([]byte(nil), ct...)
	tamperedCT[0] ^= 1
	if _, err := Open(key, nonce, ad, tamperedCT); err != ErrSpookAuthFailed {
		t.Fatalf("tampered ciphertext: got %v, want ErrSpookAuthFailed", err)
	}

	tamperedAD := append([]byte(nil), ad...)
	tamperedAD[0] ^= 1
	if _, err := Open(key, nonce, tamperedAD, ct); err != ErrSpookAuthFailed {
		t.Fatalf("tampered AD: got %v, want ErrSpookAuthFailed", err)
	}
}

func TestSpookShortCiphertext(t *testing.T) {
	key := make([]byte, SpookKeySize)
	nonce := make([]byte, SpookNonceSize)
	if _, err := Open(key, nonce, nil, make([]byte, SpookTagSize-1)); err != ErrSpookShortCiphertext {
		t.Fatalf("got %v, want ErrSpookShortCiphertext", err)
	}
}
