// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package tinyjambu implements the TinyJAMBU-{128,192,256} 128-bit
// NLFSR permutation and the accompanying sponge-style AEAD mode (spec
// §4.D "TinyJAMBU-{128,192,256}").
package tinyjambu

import "github.com/rweather/lightweight-crypto-sub005/internal/bitops"

// State is the 128-bit NLFSR state as four 32-bit words.
type State [4]uint32

// steps32 runs n*32 single-bit NLFSR updates (n "32-step" iterations),
// XORing in the given key words cyclically — key has 4, 6, or 8 words
// depending on whether it is derived from a 128, 192, or 256-bit key
// (spec §4.D).
func (s *State) steps32(n int, key []uint32) {
	keyWords := len(key)
	for i := 0; i < n; i++ {
		kword := key[i%keyWords]
		s0, s1, s2, s3 := s[0], s[1], s[2], s[3]
		t1 := (s1 >> 15) | (s2 << 17)
		t2 := (s2 >> 6) | (s3 << 26)
		t3 := (s2 >> 21) | (s3 << 11)
		t4 := (s3 >> 27) | (s0 << 5)
		feedback := s0 ^ t1 ^ (^(t2 & t3)) ^ t4 ^ kword
		s[0] = s1
		s[1] = s2
		s[2] = s3
		s[3] = feedback
	}
}

// Bytes returns the state's 16-byte little-endian encoding.
func (s *State) Bytes() []byte {
	out := make([]byte, 16)
	for i := 0; i < 4; i++ {
		bitops.PutLE32(out[i*4:], s[i])
	}
	return out
}

// SetBytes loads 16 little-endian-word bytes into the state.
func (s *State) SetBytes(b []byte) {
	for i := 0; i < 4; i++ {
		s[i] = bitops.LE32(b[i*4:])
	}
}

// expandKey splits a key of 16, 24, or 32 bytes into 32-bit little-endian
// words, used as the cyclic key stream consumed by steps32.
func expandKey(key []byte) []uint32 {
	words := make([]uint32, len(key)/4)
	for i := range words {
		words[i] = bitops.LE32(key[i*4:])
	}
	return words
}
