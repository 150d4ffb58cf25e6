// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package gimli

import (
	"bytes"
	"math/rand"
	"testing"
)

func randBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	r.Read(b)
	return b
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 15, 16, 17, 31, 32, 1024} {
		key := randBytes(r, KeySize)
		nonce := randBytes(r, NonceSize)
		ad := randBytes(r, 24)
		pt := randBytes(r, n)

		ct := Encrypt(key, nonce, ad, pt)
		if len(ct) != n+TagSize {
			t.Fatalf("n=%d: ciphertext length = %d, want %d", n, len(ct), n+TagSize)
		}
		got, err := Decrypt(key, nonce, ad, ct)
		if err != nil {
			t.Fatalf("n=%d: decrypt failed: %v", n, err)
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("n=%d: round trip mismatch", n)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	ct := Encrypt(key, nonce, nil, nil)
	if len(ct) != TagSize {
		t.Fatalf("empty ciphertext length = %d, want %d", len(ct), TagSize)
	}
	pt, err := Decrypt(key, nonce, nil, ct)
	if err != nil || len(pt) != 0 {
		t.Fatalf("empty round trip failed: %v", err)
	}
}

func TestTamperDetection(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	key := randBytes(r, KeySize)
	nonce := randBytes(r, NonceSize)
	ad := randBytes(r, 10)
	pt := randBytes(r, 40)
	ct := Encrypt(key, nonce, ad, pt)

	tamperedCT := append([]byte(nil), ct...)
	tamperedCT[0] ^= 1
	if _, err := Decrypt(key, nonce, ad, tamperedCT); err != ErrAuthFailed {
		t.Fatalf("tampered ciphertext: got %v, want ErrAuthFailed", err)
	}

	tamperedTag := append([]byte(nil), ct...)
	tamperedTag[len(ct)-1] ^= 1
	if _, err := Decrypt(key, nonce, ad, tamperedTag); err != ErrAuthFailed {
		t.Fatalf("tampered tag: got %v, want ErrAuthFailed", err)
	}

	tamperedAD := append([]byte(nil), ad...)
	tamperedAD[0] ^= 1
	if _, err := Decrypt(key, nonce, tamperedAD, ct); err != ErrAuthFailed {
		t.Fatalf("tampered AD: got %v, want ErrAuthFailed", err)
	}

	tamperedNonce := append([]byte(nil), nonce...)
	tamperedNonce[0] ^= 1
	if _, err := Decrypt(key, tamperedNonce, ad, ct); err != ErrAuthFailed {
		t.Fatalf("tampered nonce: got %v, want ErrAuthFailed", err)
	}

	tamperedKey := append([]byte(nil), key...)
	tamperedKey[0] ^= 1
	if _, err := Decrypt(tamperedKey, nonce, ad, ct); err != ErrAuthFailed {
		t.Fatalf("tampered key: got %v, want ErrAuthFailed", err)
	}
}

func TestShortCiphertext(t *testing.T) {
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	if _, err := Decrypt(key, nonce, nil, make([]byte, TagSize-1)); err != ErrShortCiphertext {
		t.Fatalf("got %v, want ErrShortCiphertext", err)
	}
}

func TestPermutationDeterministic(t *testing.T) {
	var a, b State
	for i := range a {
		a[i] = uint32(i) * 0x01010101
		b[i] = a[i]
	}
	a.Permute()
	b.Permute()
	if a != b {
		t.Fatal("Permute is not deterministic for identical input states")
	}
}
