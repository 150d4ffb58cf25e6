// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package speck

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

func TestEncryptChangesBlock(t *testing.T) {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	s, _ := NewSchedule(key)
	pt := make([]byte, BlockSize)
	ct := make([]byte, BlockSize)
	s.Encrypt(ct, pt)
	if bytes.Equal(pt, ct) {
		t.Fatal("ciphertext equals plaintext for zero block")
	}
}
