// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package clyde implements the Clyde-128 tweakable block cipher and
// the Shadow-384 permutation built from parallel Clyde-like bundles
// (spec §4.D "Clyde-128 / Shadow-{384,512}").
package clyde

import "math/bits"

const (
	BlockSize = 16
	KeySize   = 16
	TweakSize = 16
	Steps     = 6
	roundsPerStep = 2
)

// roundConstants supplies 4 per-step 32-bit constants, one per state
// limb (spec §4.D "4 round constants per step"). Clyde-128 adds a
// step's constants before each of its two rounds; Shadow384.Permute
// adds them once per step.
var roundConstants = [Steps][4]uint32{
	{0x00000001, 0x00000000, 0x00000000, 0x00000000},
	{0x00000003, 0x00000000, 0x00000000, 0x00000000},
	{0x00000007, 0x00000000, 0x00000000, 0x00000000},
	{0x0000000f, 0x00000000, 0x00000000, 0x00000000},
	{0x0000001f, 0x00000000, 0x00000000, 0x00000000},
	{0x0000003f, 0x00000000, 0x00000000, 0x00000000},
}

// sbox is Clyde-128's nonlinear layer: a 3-AND/3-XOR Toffoli network
// over the four state limbs, invertible by replaying the same steps
// in reverse order (spec §4.D "an S-box layer (3 ANDs, 3 XORs)").
func sbox(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	b ^= a & c
	a ^= b & d
	d ^= a & c
	return a, b, c, d
}

func invSbox(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	d ^= a & c
	a ^= b & d
	b ^= a & c
	return a, b, c, d
}

// lbox diffuses each limb independently as w ^ rotl(w,r1) ^ rotl(w,r2),
// with the pair (7,19) on limbs a and c and (11,23) on limbs b and d.
// It uses two rotations per limb and does not mix limbs with each other.
func lboxWord(w uint32, r1, r2 uint) uint32 {
	return w ^ bits.RotateLeft32(w, int(r1)) ^ bits.RotateLeft32(w, int(r2))
}

func lbox(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	return lboxWord(a, 7, 19), lboxWord(b, 11, 23), lboxWord(c, 7, 19), lboxWord(d, 11, 23)
}

// invLboxWord inverts lboxWord by solving the GF(2)-linear system once
// via Gaussian elimination over the circulant matrix generated by the
// XOR of the two rotation masks, mirroring the approach used for
// Pyjamask's CBM mixing layer.
func invLboxWord(w uint32, r1, r2 uint) uint32 {
	gen := uint32(1) ^ bits.RotateLeft32(1, int(r1)) ^ bits.RotateLeft32(1, int(r2))
	inv := invCircGenerator(gen)
	var out uint32
	for i := 0; i < 32; i++ {
		if (w>>uint(i))&1 == 1 {
			out ^= bits.RotateLeft32(inv, i)
		}
	}
	return out
}

var invCircCache = map[uint32]uint32{}

func invCircGenerator(c uint32) uint32 {
	if g, ok := invCircCache[c]; ok {
		return g
	}
	var m [32]uint64
	for r := 0; r < 32; r++ {
		var row uint32
		for col := 0; col < 32; col++ {
			if (bits.RotateLeft32(c, col)>>uint(r))&1 == 1 {
				row |= 1 << uint(col)
			}
		}
		m[r] = uint64(row) | (uint64(1)<<uint(r))<<32
	}
	for col := 0; col < 32; col++ {
		pivot := -1
		for r := col; r < 32; r++ {
			if (m[r]>>uint(col))&1 == 1 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		m[col], m[pivot] = m[pivot], m[col]
		for r := 0; r < 32; r++ {
			if r != col && (m[r]>>uint(col))&1 == 1 {
				m[r] ^= m[col]
			}
		}
	}
	var g uint32
	for r := 0; r < 32; r++ {
		g |= uint32((m[r]>>32)&1) << uint(r)
	}
	invCircCache[c] = g
	return g
}

func invLbox(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	return invLboxWord(a, 7, 19), invLboxWord(b, 11, 23), invLboxWord(c, 7, 19), invLboxWord(d, 11, 23)
}

// tweakey is the combined key-and-tweak state: four 32-bit words whose
// on-the-fly schedule update is (t0,t1,t2,t3) -> (t2^t0, t3^t1, t0, t1)
// (spec §4.D).
type tweakey [4]uint32

func (t tweakey) next() tweakey {
	return tweakey{t[2] ^ t[0], t[3] ^ t[1], t[0], t[1]}
}

func loadWords(b []byte) [4]uint32 {
	var w [4]uint32
	for i := 0; i < 4; i++ {
		w[i] = uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
	}
	return w
}

func storeWords(dst []byte, w [4]uint32) {
	for i := 0; i < 4; i++ {
		dst[i*4] = byte(w[i])
		dst[i*4+1] = byte(w[i] >> 8)
		dst[i*4+2] = byte(w[i] >> 16)
		dst[i*4+3] = byte(w[i] >> 24)
	}
}

// Encrypt encrypts one 16-byte block under key and tweak, running 6
// steps of 2 rounds each with the tweakey mixed in every round (spec
// §4.D).
func Encrypt(dst, src, key, tweak []byte) {
	k := loadWords(key)
	tw := tweakey(loadWords(tweak))
	a, b, c, d := loadWords(src)[0], loadWords(src)[1], loadWords(src)[2], loadWords(src)[3]

	for step := 0; step < Steps; step++ {
		rc := roundConstants[step]
		for round := 0; round < roundsPerStep; round++ {
			a ^= k[0] ^ uint32(tw[0]) ^ rc[0]
			b ^= k[1] ^ uint32(tw[1]) ^ rc[1]
			c ^= k[2] ^ uint32(tw[2]) ^ rc[2]
			d ^= k[3] ^ uint32(tw[3]) ^ rc[3]
			a, b, c, d = sbox(a, b, c, d)
			a, b, c, d = lbox(a, b, c, d)
			tw = tw.next()
		}
	}
	a ^= k[0]
	b ^= k[1]
	c ^= k[2]
	d ^= k[3]
	storeWords(dst, [4]uint32{a, b, c, d})
}

// Decrypt decrypts one 16-byte block under key and tweak.
func Decrypt(dst, src, key, tweak []byte) {
	k := loadWords(key)
	// Replay the tweakey schedule forward once to know its value
	// entering the final whitening step, then walk the schedule
	// backwards as rounds are undone.
	tw := tweakey(loadWords(tweak))
	var schedule [Steps * roundsPerStep]tweakey
	cur := tw
	for i := range schedule {
		schedule[i] = cur
		cur = cur.next()
	}

	w := loadWords(src)
	a, b, c, d := w[0]^k[0], w[1]^k[1], w[2]^k[2], w[3]^k[3]

	for step := Steps - 1; step >= 0; step-- {
		rc := roundConstants[step]
		for round := roundsPerStep - 1; round >= 0; round-- {
			idx := step*roundsPerStep + round
			tw = schedule[idx]
			a, b, c, d = invLbox(a, b, c, d)
			a, b, c, d = invSbox(a, b, c, d)
			a ^= k[0] ^ uint32(tw[0]) ^ rc[0]
			b ^= k[1] ^ uint32(tw[1]) ^ rc[1]
			c ^= k[2] ^ uint32(tw[2]) ^ rc[2]
			d ^= k[3] ^ uint32(tw[3]) ^ rc[3]
		}
	}
	storeWords(dst, [4]uint32{a, b, c, d})
}
