// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package sliscp implements the sLiSCP-light-256 permutation (a
// 4-branch generalized Feistel network driven by the Simeck-64 round
// function) and the SPIX duplex AEAD built on it (spec §4.D, §4.F
// "SPIX specifics").
package sliscp

import "github.com/rweather/lightweight-crypto-sub005/internal/bitops"

// State is sLiSCP-light-256's 256-bit state as four 64-bit branches.
type State [4]uint64

// Rounds is the number of sLiSCP-light-256 permutation steps (spec §4.D).
const Rounds = 18

// boxRounds is the number of Simeck-64 round updates the per-step
// S-box applies to each driven branch (spec §4.D).
const boxRounds = 8

// stepConstants holds the six 8-bit step constants used across all 18
// rounds, cycling through the table one constant pair per round.
var stepConstants = [6]uint64{
	0x75, 0x6f, 0x6c, 0x70, 0x61, 0x6e,
}

// simeckBox applies boxRounds Simeck-64 round updates to a 64-bit
// value split into two 32-bit halves, combining a round constant into
// the feedback each step.
func simeckBox(x uint64, constant uint64) uint64 {
	l := uint32(x >> 32)
	r := uint32(x)
	for i := 0; i < boxRounds; i++ {
		f := (bitops.RotL32(l, 5) & l) ^ bitops.RotL32(l, 1)
		bit := uint32(constant>>uint(i%8)) & 1
		c := uint32(0xfffffffc) | bit
		newL := r ^ f ^ c
		r = l
		l = newL
	}
	return uint64(l)<<32 | uint64(r)
}

// Permute runs all 18 rounds of sLiSCP-light-256: each round drives
// branch 1 from branch 0 and branch 3 from branch 2 through the
// Simeck-64 box, then cyclically rotates the four branches (spec §4.D).
func (s *State) Permute() {
	for round := 0; round < Rounds; round++ {
		c0 := stepConstants[round%6]
		c1 := stepConstants[(round+3)%6]
		s[1] ^= simeckBox(s[0], c0)
		s[3] ^= simeckBox(s[2], c1)
		s[0], s[1], s[2], s[3] = s[1], s[2], s[3], s[0]
	}
}

// Bytes returns the state's 32-byte little-endian encoding.
func (s *State) Bytes() []byte {
	out := make([]byte, 32)
	for i := 0; i < 4; i++ {
		bitops.PutLE64(out[i*8:], s[i])
	}
	return out
}

// SetBytes loads 32 little-endian-word bytes into the state.
func (s *State) SetBytes(b []byte) {
	for i := 0; i < 4; i++ {
		s[i] = bitops.LE64(b[i*8:])
	}
}
