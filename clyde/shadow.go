// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package clyde

// Shadow384 is the 384-bit permutation Spook builds on: three
// parallel 128-bit bundles, each run through Clyde-128's round
// function keyed by a fixed per-bundle tweak, with a column-mixing
// layer XORing corresponding limbs across bundles between steps
// (spec §4.D "Shadow-{384,512} interleaves Clyde-like transforms over
// 3 or 4 parallel bundles").
type Shadow384 [3][4]uint32

var shadowTweaks = [3][4]uint32{
	{0x00000000, 0x00000000, 0x00000000, 0x00000000},
	{0x00000001, 0x00000000, 0x00000000, 0x00000000},
	{0x00000002, 0x00000000, 0x00000000, 0x00000000},
}

// columnMix XORs each limb of every bundle with the same limb of the
// other two bundles, the column-mixing step spec §4.D calls out as
// distinguishing Shadow from plain parallel Clyde bundles.
func columnMix(s *Shadow384) {
	for limb := 0; limb < 4; limb++ {
		a, b, c := s[0][limb], s[1][limb], s[2][limb]
		s[0][limb] = b ^ c
		s[1][limb] = a ^ c
		s[2][limb] = a ^ b
	}
}

// Permute runs Shadow-384's bundle round function: each bundle is
// driven through Clyde's S-box/L-box pair under a bundle-specific
// tweak and the shared per-step round constants, with column mixing
// between bundle rounds.
func (s *Shadow384) Permute() {
	for round := 0; round < Steps; round++ {
		for bundle := 0; bundle < 3; bundle++ {
			tw := shadowTweaks[bundle]
			rc := roundConstants[round]
			a, b, c, d := s[bundle][0], s[bundle][1], s[bundle][2], s[bundle][3]
			a ^= tw[0] ^ rc[0]
			b ^= tw[1] ^ rc[1]
			c ^= tw[2] ^ rc[2]
			d ^= tw[3] ^ rc[3]
			a, b, c, d = sbox(a, b, c, d)
			a, b, c, d = lbox(a, b, c, d)
			s[bundle][0], s[bundle][1], s[bundle][2], s[bundle][3] = a, b, c, d
		}
		columnMix(s)
	}
}

// Bytes returns the state's 48-byte little-endian encoding.
func (s *Shadow384) Bytes() []byte {
	out := make([]byte, 48)
	for bundle := 0; bundle < 3; bundle++ {
		storeWords(out[bundle*16:], s[bundle])
	}
	return out
}

// SetBytes loads 48 little-endian-word bytes into the state.
func (s *Shadow384) SetBytes(b []byte) {
	for bundle := 0; bundle < 3; bundle++ {
		s[bundle] = loadWords(b[bundle*16:])
	}
}
