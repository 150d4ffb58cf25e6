// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package maskrng provides the random-number source used to generate and
// refresh Boolean mask shares (spec §4.C). It follows a three-tier
// priority order lifted from the reference masking sources shipped
// alongside this submission family (original_source/src/individual/
// Gimli_masked/aead-random.c and GIFT-COFB_masked/aead-random.c):
//
//  1. An OS-provided CSPRNG syscall, standing in for the hardware TRNG
//     instruction (e.g. x86-64 RDRAND) the reference C sources
//     special-case per platform. It only seeds and reseeds tier 2; no
//     output word is read from it directly.
//  2. A ChaCha20-based DRBG seeded from that same OS entropy source,
//     rekeyed every MaxBlocks output blocks (or on demand) to provide
//     forward secrecy.
//  3. An insecure xorshift64 fallback, used only if both of the above
//     are unavailable; marked accordingly and intended for tests.
//
// The RNG is not safe for concurrent use; callers that mask from
// multiple goroutines must serialize access or hold one RNG per
// goroutine (spec §5).
package maskrng

import (
	"crypto/rand"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/sys/unix"
)

// MaxBlocks bounds the number of 64-byte ChaCha20 blocks generated
// between forced rekeys, matching AEAD_PRNG_MAX_BLOCKS in the reference
// masking sources.
const MaxBlocks = 256

// chachaKeySize and chachaNonceSize describe the 352 bits of ChaCha20
// key and nonce (256-bit key + 96-bit nonce) that each rekey
// overwrites with the first rekeyMaterial (44) bytes of fresh output.
const (
	chachaKeySize   = chacha20.KeySize   // 32
	chachaNonceSize = chacha20.NonceSize // 12
	rekeyMaterial   = chachaKeySize + chachaNonceSize
)

// Source is a stream of 32-bit words suitable for seeding or refreshing
// Boolean mask shares (spec §4.B, §4.C).
type Source struct {
	key    [chachaKeySize]byte
	nonce  [chachaNonceSize]byte
	block  [64]byte
	pos    int
	blocks int

	insecure   bool
	xorshift   uint64
}

// New creates and seeds a Source. It always succeeds: if the OS entropy
// source is unavailable, New falls back to the insecure xorshift64
// generator rather than blocking or returning an error, matching the
// reference sources' "last ditch fallback" behavior.
func New() *Source {
	s := &Source{}
	s.Reseed()
	return s
}

// Reseed replaces the DRBG key and nonce with fresh OS entropy and
// resets the block count (spec §4.C). If no OS entropy
// source is available, Reseed falls back to a fixed, publicly known
// seed for the insecure xorshift64 generator and marks the Source
// insecure.
func (s *Source) Reseed() {
	var seed [rekeyMaterial]byte
	if _, err := readSystemEntropy(seed[:]); err != nil {
		s.insecure = true
		// First init word of SHA-512's IV, chosen only for its lack of
		// obvious structure; this path is test-only (spec §4.C tier 3).
		s.xorshift = 0x6A09E667F3BCC908
		return
	}
	s.insecure = false
	copy(s.key[:], seed[:chachaKeySize])
	copy(s.nonce[:], seed[chachaKeySize:])
	s.pos = 64
	s.blocks = 0
}

// Insecure reports whether the Source fell back to the non-cryptographic
// xorshift64 generator because no OS entropy source was available.
func (s *Source) Insecure() bool { return s.insecure }

// readSystemEntropy reads len(buf) bytes from the best available OS
// entropy source: getrandom(2) directly where supported (Linux), falling
// back to crypto/rand's portable source otherwise.
func readSystemEntropy(buf []byte) (int, error) {
	if n, err := unix.Getrandom(buf, 0); err == nil && n == len(buf) {
		return n, nil
	}
	return rand.Read(buf)
}

// rekey regenerates one ChaCha20 block and folds its first rekeyMaterial
// bytes back into the key/nonce state, destroying the ability to
// recover previously emitted output (forward secrecy, spec §4.C).
func (s *Source) rekey() {
	s.generateBlock()
	copy(s.key[:], s.block[:chachaKeySize])
	copy(s.nonce[:], s.block[chachaKeySize:rekeyMaterial])
	s.pos = 64
	s.blocks = 0
}

// generateBlock runs the 20-round ChaCha20 core once with s.blocks as
// the block counter, producing 64 bytes of output at s.block and
// resetting s.pos to the start of that block.
func (s *Source) generateBlock() {
	c, err := chacha20.NewUnauthenticatedCipher(s.key[:], s.nonce[:])
	if err != nil {
		// Only possible if key/nonce lengths are wrong, which cannot
		// happen given the fixed-size arrays above.
		panic("maskrng: invalid chacha20 key/nonce size")
	}
	c.SetCounter(uint32(s.blocks))
	for i := range s.block {
		s.block[i] = 0
	}
	c.XORKeyStream(s.block[:], s.block[:])
	s.pos = 0
}

// Uint32 returns the next 32-bit masking word from the stream.
func (s *Source) Uint32() uint32 {
	if s.insecure {
		return s.xorshiftWord()
	}
	if s.pos+4 > 64 {
		s.blocks++
		if s.blocks >= MaxBlocks {
			s.rekey()
		}
		s.generateBlock()
	}
	x := uint32(s.block[s.pos]) | uint32(s.block[s.pos+1])<<8 |
		uint32(s.block[s.pos+2])<<16 | uint32(s.block[s.pos+3])<<24
	s.pos += 4
	return x
}

// Uint64 returns the next 64-bit masking word from the stream.
func (s *Source) Uint64() uint64 {
	lo := uint64(s.Uint32())
	hi := uint64(s.Uint32())
	return lo | hi<<32
}

// Fill writes len(buf) random bytes to buf.
func (s *Source) Fill(buf []byte) {
	for len(buf) >= 4 {
		x := s.Uint32()
		buf[0], buf[1], buf[2], buf[3] = byte(x), byte(x>>8), byte(x>>16), byte(x>>24)
		buf = buf[4:]
	}
	if len(buf) > 0 {
		x := s.Uint32()
		for i := range buf {
			buf[i] = byte(x >> (8 * i))
		}
	}
}

// Finish rekeys the DRBG to destroy its current state, enforcing forward
// secrecy for whatever output has already been consumed (spec §4.C
// "finish() rekeys to destroy past output").
func (s *Source) Finish() {
	if !s.insecure {
		s.rekey()
	}
}

// xorshiftWord advances the insecure xorshift64 fallback generator and
// returns its low 32 bits. Not cryptographically secure; used only when
// no OS entropy source is reachable (spec §4.C tier 3).
func (s *Source) xorshiftWord() uint32 {
	x := s.xorshift
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	if x == 0 {
		x = 0x6A09E667F3BCC908
	}
	s.xorshift = x
	return uint32(x)
}
