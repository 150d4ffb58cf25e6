// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package bitops provides the byte- and bit-level primitives shared by
// every permutation, block cipher, and AEAD mode in this module: little-
// and big-endian word loads/stores, fixed-width rotations, buffer XOR,
// and constant-time comparison.
package bitops

// LE32 loads a little-endian 32-bit word from the first 4 bytes of b.
func LE32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// PutLE32 stores x into the first 4 bytes of b in little-endian order.
func PutLE32(b []byte, x uint32) {
	_ = b[3]
	b[0] = byte(x)
	b[1] = byte(x >> 8)
	b[2] = byte(x >> 16)
	b[3] = byte(x >> 24)
}

// BE32 loads a big-endian 32-bit word from the first 4 bytes of b.
func BE32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24
}

// PutBE32 stores x into the first 4 bytes of b in big-endian order.
func PutBE32(b []byte, x uint32) {
	_ = b[3]
	b[3] = byte(x)
	b[2] = byte(x >> 8)
	b[1] = byte(x >> 16)
	b[0] = byte(x >> 24)
}

// LE64 loads a little-endian 64-bit word from the first 8 bytes of b.
func LE64(b []byte) uint64 {
	_ = b[7]
	return uint64(LE32(b)) | uint64(LE32(b[4:]))<<32
}

// PutLE64 stores x into the first 8 bytes of b in little-endian order.
func PutLE64(b []byte, x uint64) {
	_ = b[7]
	PutLE32(b, uint32(x))
	PutLE32(b[4:], uint32(x>>32))
}

// BE64 loads a big-endian 64-bit word from the first 8 bytes of b.
func BE64(b []byte) uint64 {
	_ = b[7]
	return uint64(BE32(b))<<32 | uint64(BE32(b[4:]))
}

// PutBE64 stores x into the first 8 bytes of b in big-endian order.
func PutBE64(b []byte, x uint64) {
	_ = b[7]
	PutBE32(b, uint32(x>>32))
	PutBE32(b[4:], uint32(x))
}

// RotL32 rotates x left by n bits, 0 < n < 32.
func RotL32(x uint32, n int) uint32 { return (x << n) | (x >> (32 - n)) }

// RotR32 rotates x right by n bits, 0 < n < 32.
func RotR32(x uint32, n int) uint32 { return (x >> n) | (x << (32 - n)) }

// RotL64 rotates x left by n bits, 0 < n < 64.
func RotL64(x uint64, n int) uint64 { return (x << n) | (x >> (64 - n)) }

// RotR64 rotates x right by n bits, 0 < n < 64.
func RotR64(x uint64, n int) uint64 { return (x >> n) | (x << (64 - n)) }

// XORBytes XORs n = min(len(dst), len(src)) bytes of src into dst in
// place and returns n. dst and src may alias at offset zero (in-place
// rate update); overlapping at a non-zero offset is not supported, as
// none of the sponge-duplex constructions in this module need it.
func XORBytes(dst, src []byte) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] ^= src[i]
	}
	return n
}

// ConstantTimeCompare reports whether a and b hold identical bytes.
// The comparison folds every byte difference into one accumulator with
// no early exit and no branch on secret data, so its running time
// depends only on len(a): a length mismatch returns false immediately,
// but a mismatch within equal-length buffers is never short-circuited.
func ConstantTimeCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

// InterleaveToSliced splits a 64-bit lane into even/odd bit-interleaved
// 32-bit halves: xe holds bits 0,2,4,...,62 and xo holds bits
// 1,3,5,...,63 of x, each packed contiguously starting at bit 0. This is
// the bit-sliced representation used by the 32-bit ASCON/GASCON
// permutation core (spec §3, §4.D, §9).
func InterleaveToSliced(x uint64) (xe, xo uint32) {
	for i := 0; i < 32; i++ {
		if x&(1<<(2*i)) != 0 {
			xe |= 1 << i
		}
		if x&(1<<(2*i+1)) != 0 {
			xo |= 1 << i
		}
	}
	return xe, xo
}

// SlicedToInterleave is the inverse of InterleaveToSliced: it recombines
// even/odd halves into a flat 64-bit lane. Round-tripping through
// InterleaveToSliced/SlicedToInterleave is the identity (spec §3, §8).
func SlicedToInterleave(xe, xo uint32) uint64 {
	var x uint64
	for i := 0; i < 32; i++ {
		if xe&(1<<i) != 0 {
			x |= 1 << (2 * i)
		}
		if xo&(1<<i) != 0 {
			x |= 1 << (2*i + 1)
		}
	}
	return x
}

// RotSliced64 rotates a bit-interleaved 64-bit lane (xe, xo) right by k
// bits (0 < k < 64) and returns the rotated halves. An even k rotates
// both halves by k/2; an odd k swaps the halves and rotates by k/2 and
// k/2+1 (mod 32), per spec §3.
func RotSliced64(xe, xo uint32, k int) (re, ro uint32) {
	if k%2 == 0 {
		h := k / 2
		return RotR32(xe, h), RotR32(xo, h)
	}
	lo := k / 2
	hi := lo + 1
	return RotR32(xo, lo), RotR32(xe, hi%32)
}
