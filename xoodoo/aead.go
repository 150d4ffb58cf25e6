// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package xoodoo

import (
	"errors"

	"github.com/rweather/lightweight-crypto-sub005/internal/bitops"
)

var (
	ErrAuthFailed      = errors.New("xoodoo: authentication failed")
	ErrShortCiphertext = errors.New("xoodoo: ciphertext shorter than tag")
)

// Xoodyak sizes: a 16-byte key, 16-byte nonce, and 16-byte tag, the
// values used by the NIST LWC submission.
const (
	KeySize   = 16
	NonceSize = 16
	TagSize   = 16
	Rate      = 16
)

const (
	domainAD  = 0x03
	domainMsg = 0x80
	padByte   = 0x01
)

func initState(key, nonce []byte) State {
	var s State
	buf := make([]byte, 48)
	copy(buf, key)
	copy(buf[KeySize:], nonce)
	s.SetBytes(buf)
	s.Permute()
	return s
}

func rateSlice(s *State) []byte { return s.Bytes()[:Rate] }

func loadRate(s *State, rate []byte) {
	padded := make([]byte, 48)
	copy(padded, rate)
	copy(padded[Rate:], s.Bytes()[Rate:])
	s.SetBytes(padded)
}

// absorbPhase XORs data into the rate in Rate-sized chunks, permuting
// between blocks, and finishes with a padded block carrying the given
// domain-separation byte (spec §4.F step 2).
func absorbPhase(s *State, data []byte, domain byte) {
	offset := 0
	for offset+Rate <= len(data) {
		rate := rateSlice(s)
		bitops.XORBytes(rate, data[offset:offset+Rate])
		loadRate(s, rate)
		s.Permute()
		offset += Rate
	}
	padded := make([]byte, Rate)
	copy(padded, data[offset:])
	padded[len(data)-offset] = padByte
	rate := rateSlice(s)
	bitops.XORBytes(rate, padded)
	rate[Rate-1] ^= domain
	loadRate(s, rate)
	s.Permute()
}

// Encrypt performs Xoodyak authenticated encryption: a Cyclist-style
// duplex construction over Xoodoo-384 (spec §4.F skeleton).
func Encrypt(key, nonce, ad, plaintext []byte) []byte {
	checkSizes(key, nonce)
	s := initState(key, nonce)
	absorbPhase(&s, ad, domainAD)

	ciphertext := make([]byte, len(plaintext))
	offset := 0
	for offset+Rate <= len(plaintext) {
		rate := rateSlice(&s)
		block := plaintext[offset : offset+Rate]
		out := make([]byte, Rate)
		for i := range out {
			out[i] = rate[i] ^ block[i]
		}
		copy(ciphertext[offset:], out)
		loadRate(&s, block)
		s.Permute()
		offset += Rate
	}
	remaining := len(plaintext) - offset
	rate := rateSlice(&s)
	out := make([]byte, remaining)
	for i := 0; i < remaining; i++ {
		out[i] = rate[i] ^ plaintext[offset+i]
	}
	copy(ciphertext[offset:], out)
	padded := make([]byte, Rate)
	copy(padded, plaintext[offset:])
	padded[remaining] = padByte
	padded[Rate-1] ^= domainMsg
	loadRate(&s, padded)
	s.Permute()

	tag := finalize(&s, key)
	result := make([]byte, len(ciphertext)+TagSize)
	copy(result, ciphertext)
	copy(result[len(ciphertext):], tag)
	return result
}

// Decrypt performs Xoodyak authenticated decryption.
func Decrypt(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	checkSizes(key, nonce)
	if len(ciphertextAndTag) < TagSize {
		return nil, ErrShortCiphertext
	}
	ciphertextLen := len(ciphertextAndTag) - TagSize
	ciphertext := ciphertextAndTag[:ciphertextLen]
	receivedTag := ciphertextAndTag[ciphertextLen:]

	s := initState(key, nonce)
	absorbPhase(&s, ad, domainAD)

	plaintext := make([]byte, ciphertextLen)
	offset := 0
	for offset+Rate <= ciphertextLen {
		rate := rateSlice(&s)
		block := ciphertext[offset : offset+Rate]
		pblock := make([]byte, Rate)
		for i := range pblock {
			pblock[i] = rate[i] ^ block[i]
		}
		copy(plaintext[offset:], pblock)
		loadRate(&s, pblock)
		s.Permute()
		offset += Rate
	}
	remaining := ciphertextLen - offset
	rate := rateSlice(&s)
	pblock := make([]byte, remaining)
	for i := 0; i < remaining; i++ {
		pblock[i] = rate[i] ^ ciphertext[offset+i]
	}
	copy(plaintext[offset:], pblock)
	padded := make([]byte, Rate)
	copy(padded, pblock)
	padded[remaining] = padByte
	padded[Rate-1] ^= domainMsg
	loadRate(&s, padded)
	s.Permute()

	expectedTag := finalize(&s, key)
	if !bitops.ConstantTimeCompare(receivedTag, expectedTag) {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func finalize(s *State, key []byte) []byte {
	rate := rateSlice(s)
	bitops.XORBytes(rate, key)
	loadRate(s, rate)
	s.Permute()
	return rateSlice(s)
}

func checkSizes(key, nonce []byte) {
	if len(key) != KeySize {
		panic("xoodoo: invalid key size")
	}
	if len(nonce) != NonceSize {
		panic("xoodoo: invalid nonce size")
	}
}
