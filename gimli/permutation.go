// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package gimli implements the GIMLI-384 permutation and the Gimli
// sponge-duplex AEAD mode built on it (spec §4.D, §4.F).
package gimli

import "github.com/rweather/lightweight-crypto-sub005/internal/bitops"

// State is the 384-bit (12x32-bit-word) Gimli state, addressed as a
// 3x4 matrix: State[row*4+column].
type State [12]uint32

// Permute runs the full 24-round Gimli permutation (spec §4.D).
func (s *State) Permute() {
	for round := 24; round > 0; round-- {
		for col := 0; col < 4; col++ {
			x := bitops.RotL32(s[col], 24)
			y := bitops.RotL32(s[4+col], 9)
			z := s[8+col]

			s[8+col] = x ^ (z << 1) ^ ((y & z) << 2)
			s[4+col] = y ^ x ^ ((x | z) << 1)
			s[col] = z ^ y ^ ((x & y) << 3)
		}

		switch round & 3 {
		case 0: // small swap, then round-constant injection (iota)
			s[0], s[1] = s[1], s[0]
			s[2], s[3] = s[3], s[2]
			s[0] ^= 0x9e377900 | uint32(round)
		case 2: // big swap
			s[0], s[2] = s[2], s[0]
			s[1], s[3] = s[3], s[1]
		}
	}
}

// Bytes returns the state's 48-byte little-endian encoding.
func (s *State) Bytes() []byte {
	out := make([]byte, 48)
	for i, w := range s {
		bitops.PutLE32(out[i*4:], w)
	}
	return out
}

// SetBytes loads 48 bytes (little-endian words) into the state.
func (s *State) SetBytes(b []byte) {
	for i := range s {
		s[i] = bitops.LE32(b[i*4:])
	}
}
