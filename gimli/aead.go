// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package gimli

import (
	"errors"

	"github.com/rweather/lightweight-crypto-sub005/internal/bitops"
)

// ErrAuthFailed and ErrShortCiphertext mirror the ascon package's error
// kinds (spec §7); each AEAD package defines its own sentinels so that
// callers comparing against a specific algorithm's error don't
// accidentally match another algorithm's failure.
var (
	ErrAuthFailed      = errors.New("gimli: authentication failed")
	ErrShortCiphertext = errors.New("gimli: ciphertext shorter than tag")
)

const (
	KeySize   = 32
	NonceSize = 16
	TagSize   = 16
	Rate      = 16 // first 4 words of the 12-word state
)

const (
	domainAD   = 0x01
	domainMsg  = 0x02
	domainLast = 0x80
)

func initState(key, nonce []byte) State {
	var s State
	s.SetBytes(append(append([]byte(nil), nonce...), key...))
	s.Permute()
	return s
}

func absorb(s *State, data []byte, domain byte) {
	rate := s.Bytes()[:Rate]
	offset := 0
	for offset+Rate <= len(data) {
		block := data[offset : offset+Rate]
		bitops.XORBytes(rate, block)
		applyRate(s, rate)
		s.Permute()
		rate = s.Bytes()[:Rate]
		offset += Rate
	}
	padded := make([]byte, Rate)
	copy(padded, data[offset:])
	padded[len(data)-offset] = domainLast
	bitops.XORBytes(rate, padded)
	applyRate(s, rate)
	s[11] ^= uint32(domain) << 24
	s.Permute()
}

func applyRate(s *State, rate []byte) {
	for i := 0; i < 4; i++ {
		s[i] = bitops.LE32(rate[i*4:])
	}
}

func rateBytes(s *State) []byte {
	out := make([]byte, Rate)
	for i := 0; i < 4; i++ {
		bitops.PutLE32(out[i*4:], s[i])
	}
	return out
}

// Encrypt performs Gimli-AEAD authenticated encryption: a sponge-duplex
// construction over GIMLI-384 with a 32-byte key, 16-byte nonce, and a
// 16-byte rate (spec §4.F skeleton, instantiated for Gimli).
func Encrypt(key, nonce, ad, plaintext []byte) []byte {
	checkSizes(key, nonce)
	s := initState(key, nonce)
	if len(ad) > 0 {
		absorb(&s, ad, domainAD)
	}

	ciphertext := make([]byte, len(plaintext))
	offset := 0
	for offset+Rate <= len(plaintext) {
		rate := rateBytes(&s)
		block := plaintext[offset : offset+Rate]
		out := make([]byte, Rate)
		for i := range out {
			out[i] = rate[i] ^ block[i]
		}
		copy(ciphertext[offset:], out)
		applyRate(&s, block) // duplex: new rate = plaintext (overwrite, not XOR)
		s.Permute()
		offset += Rate
	}
	remaining := len(plaintext) - offset
	rate := rateBytes(&s)
	out := make([]byte, remaining)
	for i := 0; i < remaining; i++ {
		out[i] = rate[i] ^ plaintext[offset+i]
	}
	copy(ciphertext[offset:], out)
	padded := make([]byte, Rate)
	copy(padded, plaintext[offset:])
	padded[remaining] = domainLast
	applyRate(&s, padded)
	s[11] ^= uint32(domainMsg) << 24
	s.Permute()

	tag := finalize(&s, key)
	result := make([]byte, len(ciphertext)+TagSize)
	copy(result, ciphertext)
	copy(result[len(ciphertext):], tag)
	return result
}

// Decrypt performs Gimli-AEAD authenticated decryption.
func Decrypt(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	checkSizes(key, nonce)
	if len(ciphertextAndTag) < TagSize {
		return nil, ErrShortCiphertext
	}
	ciphertextLen := len(ciphertextAndTag) - TagSize
	ciphertext := ciphertextAndTag[:ciphertextLen]
	receivedTag := ciphertextAndTag[ciphertextLen:]

	s := initState(key, nonce)
	if len(ad) > 0 {
		absorb(&s, ad, domainAD)
	}

	plaintext := make([]byte, ciphertextLen)
	offset := 0
	for offset+Rate <= ciphertextLen {
		rate := rateBytes(&s)
		block := ciphertext[offset : offset+Rate]
		pblock := make([]byte, Rate)
		for i := range pblock {
			pblock[i] = rate[i] ^ block[i]
		}
		copy(plaintext[offset:], pblock)
		applyRate(&s, pblock)
		s.Permute()
		offset += Rate
	}
	remaining := ciphertextLen - offset
	rate := rateBytes(&s)
	pblock := make([]byte, remaining)
	for i := 0; i < remaining; i++ {
		pblock[i] = rate[i] ^ ciphertext[offset+i]
	}
	copy(plaintext[offset:], pblock)
	padded := make([]byte, Rate)
	copy(padded, pblock)
	padded[remaining] = domainLast
	applyRate(&s, padded)
	s[11] ^= uint32(domainMsg) << 24
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
	kb := make([]byte, 32)
	copy(kb, key)
	for i := 0; i < 8; i++ {
		s[4+i] ^= bitops.LE32(kb[i*4:])
	}
	s.Permute()
	return rateBytes(s)
}

func checkSizes(key, nonce []byte) {
	if len(key) != KeySize {
		panic("gimli: invalid key size")
	}
	if len(nonce) != NonceSize {
		panic("gimli: invalid nonce size")
	}
}
