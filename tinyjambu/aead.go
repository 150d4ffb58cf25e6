// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package tinyjambu

import (
	"errors"

	"github.com/rweather/lightweight-crypto-sub005/internal/bitops"
)

var (
	ErrAuthFailed      = errors.New("tinyjambu: authentication failed")
	ErrShortCiphertext = errors.New("tinyjambu: ciphertext shorter than tag")
)

// TinyJAMBU sizes common to all three key lengths (spec §4.D).
const (
	NonceSize = 12
	TagSize   = 8
)

// Key sizes for the three TinyJAMBU variants.
const (
	KeySize128 = 16
	KeySize192 = 24
	KeySize256 = 32
)

// variant holds the per-key-size number of 32-step permutation
// iterations run between phase transitions; larger keys run more
// rounds to spread the extra key words through the state.
type variant struct {
	nInit   int
	nAbsorb int
	nFinal  int
}

var (
	variant128 = variant{nInit: 32, nAbsorb: 20, nFinal: 32}
	variant192 = variant{nInit: 40, nAbsorb: 24, nFinal: 40}
	variant256 = variant{nInit: 48, nAbsorb: 28, nFinal: 48}
)

const (
	domainAD    uint32 = 0x10000000
	domainMsg   uint32 = 0x20000000
	domainFinal uint32 = 0x70000000
)

func variantFor(key []byte) variant {
	switch len(key) {
	case KeySize128:
		return variant128
	case KeySize192:
		return variant192
	case KeySize256:
		return variant256
	default:
		panic("tinyjambu: invalid key size")
	}
}

// initState runs key setup followed by nonce absorption (spec §4.D).
func initState(key, nonce []byte, v variant) (*State, []uint32) {
	keyWords := expandKey(key)
	s := &State{}
	s.steps32(v.nInit, keyWords)

	for i := 0; i < 3; i++ {
		s[1] ^= domainAD
		s.steps32(v.nAbsorb, keyWords)
		s[0] ^= bitops.LE32(nonce[i*4:])
	}
	return s, keyWords
}

// absorb processes data in 4-byte blocks, domain-separating the final
// (possibly partial, padded) block with a 0x01 marker byte.
func absorb(s *State, keyWords []uint32, data []byte, v variant, domain uint32) {
	offset := 0
	for offset+4 <= len(data) {
		s[1] ^= domain
		s.steps32(v.nAbsorb, keyWords)
		s[0] ^= bitops.LE32(data[offset:])
		offset += 4
	}
	tail := make([]byte, 4)
	copy(tail, data[offset:])
	tail[len(data)-offset] = 0x01
	s[1] ^= domain | 0x01000000
	s.steps32(v.nAbsorb, keyWords)
	s[0] ^= bitops.LE32(tail)
}

// cryptBlocks XORs the keystream word (extracted from s[2] after each
// permutation step) with data in 4-byte blocks, feeding the ciphertext
// word back into the state so encryption and decryption stay symmetric
// duplex operations.
func cryptBlocks(s *State, keyWords []uint32, data []byte, v variant, encrypt bool) []byte {
	out := make([]byte, len(data))
	offset := 0
	for offset+4 <= len(data) {
		s[1] ^= domainMsg
		s.steps32(v.nAbsorb, keyWords)
		ks := s[2]
		in := bitops.LE32(data[offset:])
		if encrypt {
			s[0] ^= in ^ ks
		} else {
			s[0] ^= in
		}
		bitops.PutLE32(out[offset:], in^ks)
		offset += 4
	}
	remaining := len(data) - offset
	if remaining > 0 {
		s[1] ^= domainMsg | 0x01000000
		s.steps32(v.nAbsorb, keyWords)
		ks := s[2]
		tail := make([]byte, 4)
		copy(tail, data[offset:])
		ctTail := make([]byte, 4)
		bitops.PutLE32(ctTail, bitops.LE32(tail)^ks)
		copy(out[offset:], ctTail[:remaining])
		padded := make([]byte, 4)
		if encrypt {
			copy(padded, ctTail[:remaining])
		} else {
			copy(padded, data[offset:])
		}
		padded[remaining] = 0x01
		s[0] ^= bitops.LE32(padded)
	}
	return out
}

func finalize(s *State, keyWords []uint32, v variant) []byte {
	s[1] ^= domainFinal
	s.steps32(v.nFinal, keyWords)
	tag := make([]byte, TagSize)
	bitops.PutLE32(tag[0:4], s[2])
	s.steps32(v.nAbsorb, keyWords)
	bitops.PutLE32(tag[4:8], s[2])
	return tag
}

// Encrypt performs TinyJAMBU authenticated encryption; the key length
// selects the 128/192/256-bit variant.
func Encrypt(key, nonce, ad, plaintext []byte) []byte {
	checkNonce(nonce)
	v := variantFor(key)
	s, keyWords := initState(key, nonce, v)
	absorb(s, keyWords, ad, v, domainAD)
	ciphertext := cryptBlocks(s, keyWords, plaintext, v, true)
	tag := finalize(s, keyWords, v)
	out := make([]byte, len(ciphertext)+TagSize)
	copy(out, ciphertext)
	copy(out[len(ciphertext):], tag)
	return out
}

// Decrypt performs TinyJAMBU authenticated decryption.
func Decrypt(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	checkNonce(nonce)
	if len(ciphertextAndTag) < TagSize {
		return nil, ErrShortCiphertext
	}
	v := variantFor(key)
	ciphertextLen := len(ciphertextAndTag) - TagSize
	ciphertext := ciphertextAndTag[:ciphertextLen]
	receivedTag := ciphertextAndTag[ciphertextLen:]

	s, keyWords := initState(key, nonce, v)
	absorb(s, keyWords, ad, v, domainAD)
	plaintext := cryptBlocks(s, keyWords, ciphertext, v, false)
	expectedTag := finalize(s, keyWords, v)

	if !bitops.ConstantTimeCompare(receivedTag, expectedTag) {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func checkNonce(nonce []byte) {
	if len(nonce) != NonceSize {
		panic("tinyjambu: invalid nonce size")
	}
}
