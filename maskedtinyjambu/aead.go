// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package maskedtinyjambu

import (
	"errors"

	"github.com/rweather/lightweight-crypto-sub005/internal/bitops"
	"github.com/rweather/lightweight-crypto-sub005/internal/mask"
	"github.com/rweather/lightweight-crypto-sub005/internal/maskrng"
)

var (
	ErrAuthFailed      = errors.New("maskedtinyjambu: authentication failed")
	ErrShortCiphertext = errors.New("maskedtinyjambu: ciphertext shorter than tag")
)

// Sizes for the masked TinyJAMBU-128 exemplar (spec §4.F); only the
// 128-bit key variant is masked, matching the submission's choice to
// provide one masked representative per primitive family rather than
// masking every key-size variant.
const (
	KeySize   = 16
	NonceSize = 12
	TagSize   = 8

	nInit   = 32
	nAbsorb = 20
	nFinal  = 32
)

const (
	domainAD    uint32 = 0x10000000
	domainMsg   uint32 = 0x20000000
	domainFinal uint32 = 0x70000000
)

func expandKey(key []byte) [4]uint32 {
	var words [4]uint32
	for i := range words {
		words[i] = bitops.LE32(key[i*4:])
	}
	return words
}

func initState(key, nonce []byte, rng *maskrng.Source) (*State, []mask.Word) {
	keyWords := EncodeKey(expandKey(key)[:], rng)
	s := &State{}
	s.steps32(nInit, keyWords, rng)

	for i := 0; i < 3; i++ {
		s[1] = mask.XorConst(s[1], domainAD)
		s.steps32(nAbsorb, keyWords, rng)
		s[0] = mask.XorConst(s[0], bitops.LE32(nonce[i*4:]))
	}
	return s, keyWords
}

func absorb(s *State, keyWords []mask.Word, data []byte, rng *maskrng.Source, domain uint32) {
	offset := 0
	for offset+4 <= len(data) {
		s[1] = mask.XorConst(s[1], domain)
		s.steps32(nAbsorb, keyWords, rng)
		s[0] = mask.XorConst(s[0], bitops.LE32(data[offset:]))
		offset += 4
	}
	tail := make([]byte, 4)
	copy(tail, data[offset:])
	tail[len(data)-offset] = 0x01
	s[1] = mask.XorConst(s[1], domain|0x01000000)
	s.steps32(nAbsorb, keyWords, rng)
	s[0] = mask.XorConst(s[0], bitops.LE32(tail))
}

// cryptBlocks mirrors the unmasked duplex structure but keeps the
// running state masked throughout; the keystream word is decoded only
// at the point it must meet public plaintext/ciphertext, the same
// boundary where the reference masked sources decode a share sum
// (spec §4.F).
func cryptBlocks(s *State, keyWords []mask.Word, data []byte, rng *maskrng.Source, encrypt bool) []byte {
	out := make([]byte, len(data))
	offset := 0
	for offset+4 <= len(data) {
		s[1] = mask.XorConst(s[1], domainMsg)
		s.steps32(nAbsorb, keyWords, rng)
		ks := mask.Decode(s[2])
		in := bitops.LE32(data[offset:])
		if encrypt {
			s[0] = mask.XorConst(s[0], in^ks)
		} else {
			s[0] = mask.XorConst(s[0], in)
		}
		bitops.PutLE32(out[offset:], in^ks)
		offset += 4
	}
	remaining := len(data) - offset
	if remaining > 0 {
		s[1] = mask.XorConst(s[1], domainMsg|0x01000000)
		s.steps32(nAbsorb, keyWords, rng)
		ks := mask.Decode(s[2])
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
		s[0] = mask.XorConst(s[0], bitops.LE32(padded))
	}
	return out
}

func finalize(s *State, keyWords []mask.Word, rng *maskrng.Source) []byte {
	s[1] = mask.XorConst(s[1], domainFinal)
	s.steps32(nFinal, keyWords, rng)
	tag := make([]byte, TagSize)
	bitops.PutLE32(tag[0:4], mask.Decode(s[2]))
	s.steps32(nAbsorb, keyWords, rng)
	bitops.PutLE32(tag[4:8], mask.Decode(s[2]))
	return tag
}

// Encrypt performs masked TinyJAMBU-128 authenticated encryption. rng
// supplies the fresh randomness consumed by every masked AND gadget and
// by the initial share encoding (spec §4.C).
func Encrypt(key, nonce, ad, plaintext []byte, rng *maskrng.Source) []byte {
	checkSizes(key, nonce)
	s, keyWords := initState(key, nonce, rng)
	absorb(s, keyWords, ad, rng, domainAD)
	ciphertext := cryptBlocks(s, keyWords, plaintext, rng, true)
	tag := finalize(s, keyWords, rng)
	out := make([]byte, len(ciphertext)+TagSize)
	copy(out, ciphertext)
	copy(out[len(ciphertext):], tag)
	return out
}

// Decrypt performs masked TinyJAMBU-128 authenticated decryption.
func Decrypt(key, nonce, ad, ciphertextAndTag []byte, rng *maskrng.Source) ([]byte, error) {
	checkSizes(key, nonce)
	if len(ciphertextAndTag) < TagSize {
		return nil, ErrShortCiphertext
	}
	ciphertextLen := len(ciphertextAndTag) - TagSize
	ciphertext := ciphertextAndTag[:ciphertextLen]
	receivedTag := ciphertextAndTag[ciphertextLen:]

	s, keyWords := initState(key, nonce, rng)
	absorb(s, keyWords, ad, rng, domainAD)
	plaintext := cryptBlocks(s, keyWords, ciphertext, rng, false)
	expectedTag := finalize(s, keyWords, rng)

	if !bitops.ConstantTimeCompare(receivedTag, expectedTag) {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func checkSizes(key, nonce []byte) {
	if len(key) != KeySize {
		panic("maskedtinyjambu: invalid key size")
	}
	if len(nonce) != NonceSize {
		panic("maskedtinyjambu: invalid nonce size")
	}
}
