// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package ascon

import (
	"bytes"
	"math/rand"
	"testing"
)

type sealOpen struct {
	name string
	seal func(key, nonce, ad, pt []byte) []byte
	open func(key, nonce, ad, ct []byte) ([]byte, error)
}

func variants() []sealOpen {
	return []sealOpen{
		{"ASCON-128", Encrypt128, Decrypt128},
		{"ASCON-128a", Encrypt128a, Decrypt128a},
		{"GASCON-128", EncryptGascon128, DecryptGascon128},
	}
}

func randBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	r.Read(b)
	return b
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			for _, n := range []int{0, 1, 7, 8, 9, 15, 16, 17, 31, 32, 1024} {
				key := randBytes(r, KeySize)
				nonce := randBytes(r, NonceSize)
				ad := randBytes(r, 32)
				pt := randBytes(r, n)

				ct := v.seal(key, nonce, ad, pt)
				if len(ct) != n+TagSize {
					t.Fatalf("n=%d: ciphertext length = %d, want %d", n, len(ct), n+TagSize)
				}
				got, err := v.open(key, nonce, ad, ct)
				if err != nil {
					t.Fatalf("n=%d: open failed: %v", n, err)
				}
				if !bytes.Equal(got, pt) {
					t.Fatalf("n=%d: round trip mismatch", n)
				}
			}
		})
	}
}

func TestEmptyInput(t *testing.T) {
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	for _, v := range variants() {
		ct := v.seal(key, nonce, nil, nil)
		if len(ct) != TagSize {
			t.Fatalf("%s: empty AD/plaintext ciphertext length = %d, want %d", v.name, len(ct), TagSize)
		}
		pt, err := v.open(key, nonce, nil, ct)
		if err != nil || len(pt) != 0 {
			t.Fatalf("%s: empty round trip failed: %v", v.name, err)
		}
	}
}

func TestTamperDetection(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, v := range variants() {
		key := randBytes(r, KeySize)
		nonce := randBytes(r, NonceSize)
		ad := randBytes(r, 20)
		pt := randBytes(r, 50)
		ct := v.seal(key, nonce, ad, pt)

		cases := map[string][]byte{
			"ciphertext byte": append([]byte(nil), ct...),
			"tag byte":        append([]byte(nil), ct...),
		}
		cases["ciphertext byte"][0] ^= 0x01
		cases["tag byte"][len(ct)-1] ^= 0x01

		for name, tampered := range cases {
			if _, err := v.open(key, nonce, ad, tampered); err != ErrAuthFailed {
				t.Fatalf("%s/%s: expected ErrAuthFailed, got %v", v.name, name, err)
			}
		}

		tamperedAD := append([]byte(nil), ad...)
		tamperedAD[0] ^= 0x01
		if _, err := v.open(key, nonce, tamperedAD, ct); err != ErrAuthFailed {
			t.Fatalf("%s: tampered AD did not fail authentication", v.name)
		}

		tamperedNonce := append([]byte(nil), nonce...)
		tamperedNonce[0] ^= 0x01
		if _, err := v.open(key, tamperedNonce, ad, ct); err != ErrAuthFailed {
			t.Fatalf("%s: tampered nonce did not fail authentication", v.name)
		}

		tamperedKey := append([]byte(nil), key...)
		tamperedKey[0] ^= 0x01
		if _, err := v.open(tamperedKey, nonce, ad, ct); err != ErrAuthFailed {
			t.Fatalf("%s: tampered key did not fail authentication", v.name)
		}
	}
}

func TestShortCiphertext(t *testing.T) {
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	for _, v := range variants() {
		if _, err := v.open(key, nonce, nil, make([]byte, TagSize-1)); err != ErrShortCiphertext {
			t.Fatalf("%s: expected ErrShortCiphertext, got %v", v.name, err)
		}
	}
}

func TestSlicedIdentity(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 64; i++ {
		var s State
		for j := range s {
			s[j] = r.Uint64()
		}
		got := s.ToSliced().ToFlat()
		if got != s {
			t.Fatalf("ToFlat(ToSliced(s)) != s: got %v, want %v", got, s)
		}
	}
}
