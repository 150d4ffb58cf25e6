// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package speck implements the SPECK-64/128 ARX block cipher: a
// 64-bit block, 128-bit key, 27-round Feistel-like cipher built from
// modular addition, XOR, and fixed rotations (spec §4.E).
package speck

import (
	"errors"

	"github.com/rweather/lightweight-crypto-sub005/internal/bitops"
)

var ErrInvalidKeySize = errors.New("speck: invalid key size")

const (
	BlockSize = 8
	KeySize   = 16
	Rounds    = 27
)

// Schedule holds the 27 expanded 32-bit round keys.
type Schedule struct {
	rk [Rounds]uint32
}

// NewSchedule expands a 128-bit key into the round-key schedule. The
// key is split into four 32-bit words k[0] (the initial round key) and
// l[0..2] (the remaining schedule-generator words), matching the
// reference SPECK key schedule recurrence.
func NewSchedule(key []byte) (*Schedule, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	var l [Rounds + 2]uint32
	var s Schedule
	s.rk[0] = bitops.LE32(key[0:4])
	l[0] = bitops.LE32(key[4:8])
	l[1] = bitops.LE32(key[8:12])
	l[2] = bitops.LE32(key[12:16])

	for i := 0; i < Rounds-1; i++ {
		l[i+3] = (s.rk[i] + bitops.RotR32(l[i], 8)) ^ uint32(i)
		s.rk[i+1] = bitops.RotL32(s.rk[i], 3) ^ l[i+3]
	}
	return &s, nil
}

// Encrypt encrypts one 8-byte block in place.
func (s *Schedule) Encrypt(dst, src []byte) {
	x := bitops.LE32(src[4:8])
	y := bitops.LE32(src[0:4])
	for i := 0; i < Rounds; i++ {
		x = (bitops.RotR32(x, 8) + y) ^ s.rk[i]
		y = bitops.RotL32(y, 3) ^ x
	}
	bitops.PutLE32(dst[4:8], x)
	bitops.PutLE32(dst[0:4], y)
}

// Decrypt decrypts one 8-byte block in place.
func (s *Schedule) Decrypt(dst, src []byte) {
	x := bitops.LE32(src[4:8])
	y := bitops.LE32(src[0:4])
	for i := Rounds - 1; i >= 0; i-- {
		y = bitops.RotR32(y^x, 3)
		x = bitops.RotL32((x^s.rk[i])-y, 8)
	}
	bitops.PutLE32(dst[4:8], x)
	bitops.PutLE32(dst[0:4], y)
}
