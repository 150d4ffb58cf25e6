// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package ascon

import (
	"errors"

	"github.com/rweather/lightweight-crypto-sub005/internal/bitops"
)

// ErrAuthFailed is returned by Decrypt when the computed tag does not
// match the provided one; the returned plaintext buffer is invalid
// (spec §4.F, §7 "tag_mismatch").
var ErrAuthFailed = errors.New("ascon: authentication failed")

// ErrShortCiphertext is returned by Decrypt when the input is shorter
// than the tag (spec §7 "short_ciphertext").
var ErrShortCiphertext = errors.New("ascon: ciphertext shorter than tag")

const (
	KeySize   = 16
	NonceSize = 16
	TagSize   = 16

	rate128  = 8  // ASCON-128 / GASCON-128 rate, in bytes
	rate128a = 16 // ASCON-128a rate, in bytes

	roundsA = 12 // permutation rounds at init/finalize
	rounds6 = 6  // ASCON-128 interior rounds
	rounds8 = 8  // ASCON-128a interior rounds
)

// asconIV and gasconIV seed lane 0 at initialization, encoding
// (key size, rate, a rounds, b rounds) per the algorithms' parameter
// sets; ASCON-128 and GASCON-128 share a rate and round count and so
// share an IV, ASCON-128a's differ (larger rate, more interior rounds).
const (
	ivAscon128  = uint64(0x80400c0600000000)
	ivAscon128a = uint64(0x80800c0800000000)
)

// variant bundles everything that differs between the sponge-duplex
// AEAD modes built on this permutation: the rotation schedule, rate,
// interior round count, and initialization vector.
type variant struct {
	rot    rotations
	iv     uint64
	rate   int
	bRound int
}

var (
	variantAscon128  = variant{rot: AsconRotations, iv: ivAscon128, rate: rate128, bRound: rounds6}
	variantAscon128a = variant{rot: AsconRotations, iv: ivAscon128a, rate: rate128a, bRound: rounds8}
	variantGascon128 = variant{rot: GasconRotations, iv: ivAscon128, rate: rate128, bRound: rounds6}
)

func initState(key, nonce []byte, v variant) State {
	var s State
	s[0] = v.iv
	s[1] = bitops.BE64(key[0:8])
	s[2] = bitops.BE64(key[8:16])
	s[3] = bitops.BE64(nonce[0:8])
	s[4] = bitops.BE64(nonce[8:16])

	s.Permute(roundsA, v.rot)

	s[3] ^= bitops.BE64(key[0:8])
	s[4] ^= bitops.BE64(key[8:16])
	return s
}

// absorbAD XORs associated data into the rate portion of the state,
// permuting between rate-sized blocks and padding the final partial
// block with a single 1-bit, per the sponge-duplex skeleton (spec
// §4.F). It is a no-op (aside from the domain-separation bit applied by
// the caller) when ad is empty.
func absorbAD(s *State, ad []byte, v variant) {
	if len(ad) == 0 {
		return
	}
	offset := 0
	for offset+v.rate <= len(ad) {
		absorbRateBlock(s, ad[offset:offset+v.rate], v.rate)
		s.Permute(v.bRound, v.rot)
		offset += v.rate
	}
	block := make([]byte, v.rate)
	copy(block, ad[offset:])
	block[len(ad)-offset] = 0x80
	absorbRateBlock(s, block, v.rate)
	s.Permute(v.bRound, v.rot)
}

// absorbRateBlock XORs a rate-sized (or smaller, zero-padded) block
// into the rate lanes of the state. Rate is either 8 bytes (lane 0
// only) or 16 bytes (lanes 0 and 1), the only two values used by the
// variants in this package.
func absorbRateBlock(s *State, block []byte, rate int) {
	s[0] ^= bitops.BE64(block[0:8])
	if rate == 16 {
		s[1] ^= bitops.BE64(block[8:16])
	}
}

func storeRateBlock(s *State, out []byte, rate int) {
	bitops.PutBE64(out[0:8], s[0])
	if rate == 16 {
		bitops.PutBE64(out[8:16], s[1])
	}
}

// encryptPayload runs the encryption half of the duplex over plaintext,
// writing ciphertext of the same length and updating s in place; the
// caller then runs finalize on s.
func encryptPayload(s *State, ciphertext, plaintext []byte, v variant) {
	offset := 0
	for offset+v.rate <= len(plaintext) {
		block := plaintext[offset : offset+v.rate]
		s[0] ^= bitops.BE64(block[0:8])
		if v.rate == 16 {
			s[1] ^= bitops.BE64(block[8:16])
		}
		storeRateBlock(s, ciphertext[offset:offset+v.rate], v.rate)
		s.Permute(v.bRound, v.rot)
		offset += v.rate
	}
	remaining := len(plaintext) - offset
	if remaining > 0 {
		padded := make([]byte, v.rate)
		copy(padded, plaintext[offset:])
		padded[remaining] = 0x80
		absorbRateBlock(s, padded, v.rate)
		out := make([]byte, v.rate)
		storeRateBlock(s, out, v.rate)
		copy(ciphertext[offset:], out[:remaining])
	} else {
		s[0] ^= 0x8000000000000000
	}
}

// decryptPayload is the mirror of encryptPayload: it recovers plaintext
// from ciphertext and leaves the duplex state exactly as encryption
// would have, so the recomputed tag matches iff the ciphertext is
// authentic (spec §4.F step 5).
func decryptPayload(s *State, plaintext, ciphertext []byte, v variant) {
	offset := 0
	for offset+v.rate <= len(ciphertext) {
		block := ciphertext[offset : offset+v.rate]
		c0 := bitops.BE64(block[0:8])
		p0 := s[0] ^ c0
		bitops.PutBE64(plaintext[offset:offset+8], p0)
		s[0] = c0
		if v.rate == 16 {
			c1 := bitops.BE64(block[8:16])
			p1 := s[1] ^ c1
			bitops.PutBE64(plaintext[offset+8:offset+16], p1)
			s[1] = c1
		}
		s.Permute(v.bRound, v.rot)
		offset += v.rate
	}
	remaining := len(ciphertext) - offset
	if remaining > 0 {
		rateBytes := make([]byte, v.rate)
		storeRateBlock(s, rateBytes, v.rate)
		padded := make([]byte, v.rate)
		for i := 0; i < remaining; i++ {
			pb := ciphertext[offset+i] ^ rateBytes[i]
			plaintext[offset+i] = pb
			padded[i] = pb
		}
		padded[remaining] = 0x80
		absorbRateBlock(s, padded, v.rate)
	} else {
		s[0] ^= 0x8000000000000000
	}
}

func finalize(s *State, key []byte, v variant) []byte {
	// The key is re-absorbed starting at the lane immediately after the
	// rate: lane 1 for the 8-byte rate (ASCON-128/GASCON-128), lane 2
	// for the 16-byte rate (ASCON-128a).
	off := v.rate / 8
	s[off] ^= bitops.BE64(key[0:8])
	s[off+1] ^= bitops.BE64(key[8:16])

	s.Permute(roundsA, v.rot)

	s[3] ^= bitops.BE64(key[0:8])
	s[4] ^= bitops.BE64(key[8:16])

	tag := make([]byte, TagSize)
	bitops.PutBE64(tag[0:8], s[3])
	bitops.PutBE64(tag[8:16], s[4])
	return tag
}

func seal(key, nonce, ad, plaintext []byte, v variant) []byte {
	s := initState(key, nonce, v)
	s[4] ^= 1 // domain separation before the payload phase (spec §4.F step 2/3)
	absorbAD(&s, ad, v)

	ciphertext := make([]byte, len(plaintext))
	encryptPayload(&s, ciphertext, plaintext, v)

	tag := finalize(&s, key, v)
	out := make([]byte, len(ciphertext)+TagSize)
	copy(out, ciphertext)
	copy(out[len(ciphertext):], tag)
	return out
}

func open(key, nonce, ad, ciphertextAndTag []byte, v variant) ([]byte, error) {
	if len(ciphertextAndTag) < TagSize {
		return nil, ErrShortCiphertext
	}
	ciphertextLen := len(ciphertextAndTag) - TagSize
	ciphertext := ciphertextAndTag[:ciphertextLen]
	receivedTag := ciphertextAndTag[ciphertextLen:]

	s := initState(key, nonce, v)
	s[4] ^= 1
	absorbAD(&s, ad, v)

	plaintext := make([]byte, ciphertextLen)
	decryptPayload(&s, plaintext, ciphertext, v)

	expectedTag := finalize(&s, key, v)
	if !bitops.ConstantTimeCompare(receivedTag, expectedTag) {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

// Encrypt128 performs ASCON-128 authenticated encryption, returning
// ciphertext||tag.
func Encrypt128(key, nonce, ad, plaintext []byte) []byte {
	checkSizes(key, nonce)
	return seal(key, nonce, ad, plaintext, variantAscon128)
}

// Decrypt128 performs ASCON-128 authenticated decryption.
func Decrypt128(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	checkSizes(key, nonce)
	return open(key, nonce, ad, ciphertextAndTag, variantAscon128)
}

// Encrypt128a performs ASCON-128a authenticated encryption (16-byte
// rate, 8 interior rounds).
func Encrypt128a(key, nonce, ad, plaintext []byte) []byte {
	checkSizes(key, nonce)
	return seal(key, nonce, ad, plaintext, variantAscon128a)
}

// Decrypt128a performs ASCON-128a authenticated decryption.
func Decrypt128a(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	checkSizes(key, nonce)
	return open(key, nonce, ad, ciphertextAndTag, variantAscon128a)
}

// EncryptGascon128 performs GASCON-128 authenticated encryption: the
// same sponge-duplex skeleton as ASCON-128 with GASCON's linear layer
// (spec §4.D).
func EncryptGascon128(key, nonce, ad, plaintext []byte) []byte {
	checkSizes(key, nonce)
	return seal(key, nonce, ad, plaintext, variantGascon128)
}

// DecryptGascon128 performs GASCON-128 authenticated decryption.
func DecryptGascon128(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	checkSizes(key, nonce)
	return open(key, nonce, ad, ciphertextAndTag, variantGascon128)
}

func checkSizes(key, nonce []byte) {
	if len(key) != KeySize {
		panic("ascon: invalid key size")
	}
	if len(nonce) != NonceSize {
		panic("ascon: invalid nonce size")
	}
}
