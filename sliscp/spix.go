// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package sliscp

import (
	"errors"

	"github.com/rweather/lightweight-crypto-sub005/internal/bitops"
)

var (
	ErrAuthFailed      = errors.New("spix: authentication failed")
	ErrShortCiphertext = errors.New("spix: ciphertext shorter than tag")
)

// SPIX sizes (spec §4.F "SPIX specifics").
const (
	KeySize   = 16
	NonceSize = 16
	TagSize   = 16
)

// rateBytes is the fixed sequence of state-byte indices that make up
// SPIX's 8-byte rate within the 32-byte sLiSCP-light-256 state.
var rateBytes = [8]int{8, 9, 10, 11, 24, 25, 26, 27}

const (
	domainAD    = 0x01
	domainMsg   = 0x02
	rateSize    = 8
	permuteAD   = 9
	permuteMsg  = 9
)

func getRate(s *State) []byte {
	b := s.Bytes()
	out := make([]byte, rateSize)
	for i, idx := range rateBytes {
		out[i] = b[idx]
	}
	return out
}

func setRate(s *State, rate []byte) {
	b := s.Bytes()
	for i, idx := range rateBytes {
		b[idx] = rate[i]
	}
	s.SetBytes(b)
}

func xorRate(s *State, data []byte) {
	rate := getRate(s)
	bitops.XORBytes(rate, data)
	setRate(s, rate)
}

// permuteN runs exactly n rounds of sLiSCP-light-256, used for SPIX's
// 9-round inter-block permutation as distinct from the 18-round setup
// and finalization permutation.
func (s *State) permuteN(n int) {
	for round := 0; round < n; round++ {
		c0 := stepConstants[round%6]
		c1 := stepConstants[(round+3)%6]
		s[1] ^= simeckBox(s[0], c0)
		s[3] ^= simeckBox(s[2], c1)
		s[0], s[1], s[2], s[3] = s[1], s[2], s[3], s[0]
	}
}

func initState(key, nonce []byte) *State {
	s := &State{}
	buf := make([]byte, 32)
	copy(buf[:16], key)
	copy(buf[16:], nonce)
	s.SetBytes(buf)
	s.Permute()

	rate := getRate(s)
	bitops.XORBytes(rate, key[:rateSize])
	setRate(s, rate)
	s.Permute()
	rate = getRate(s)
	bitops.XORBytes(rate, key[rateSize:])
	setRate(s, rate)
	s.Permute()
	return s
}

func absorbAD(s *State, ad []byte) {
	offset := 0
	for offset+rateSize <= len(ad) {
		xorRate(s, ad[offset:offset+rateSize])
		s.permuteN(permuteAD)
		offset += rateSize
	}
	tail := make([]byte, rateSize)
	copy(tail, ad[offset:])
	tail[len(ad)-offset] = 0x80
	rate := getRate(s)
	bitops.XORBytes(rate, tail)
	rate[rateSize-1] ^= domainAD
	setRate(s, rate)
	s.permuteN(permuteAD)
}

func cryptBlocks(s *State, data []byte, encrypt bool) []byte {
	out := make([]byte, len(data))
	offset := 0
	for offset+rateSize <= len(data) {
		rate := getRate(s)
		block := data[offset : offset+rateSize]
		result := make([]byte, rateSize)
		for i := range result {
			result[i] = rate[i] ^ block[i]
		}
		copy(out[offset:], result)
		if encrypt {
			setRate(s, result)
		} else {
			setRate(s, block)
		}
		s.permuteN(permuteMsg)
		offset += rateSize
	}
	remaining := len(data) - offset
	rate := getRate(s)
	result := make([]byte, remaining)
	for i := 0; i < remaining; i++ {
		result[i] = rate[i] ^ data[offset+i]
	}
	copy(out[offset:], result)

	tail := make([]byte, rateSize)
	if encrypt {
		copy(tail, result)
	} else {
		copy(tail, data[offset:])
	}
	tail[remaining] = 0x80
	newRate := getRate(s)
	copy(newRate, tail)
	newRate[rateSize-1] ^= domainMsg
	setRate(s, newRate)
	return out
}

func finalize(s *State, key []byte) []byte {
	rate := getRate(s)
	bitops.XORBytes(rate, key[:rateSize])
	setRate(s, rate)
	s.Permute()
	rate = getRate(s)
	tag := append([]byte(nil), rate...)
	bitops.XORBytes(rate, key[rateSize:])
	setRate(s, rate)
	s.Permute()
	return append(tag, getRate(s)...)
}

// Encrypt performs SPIX authenticated encryption (spec §4.F).
func Encrypt(key, nonce, ad, plaintext []byte) []byte {
	checkSizes(key, nonce)
	s := initState(key, nonce)
	absorbAD(s, ad)
	ciphertext := cryptBlocks(s, plaintext, true)
	tag := finalize(s, key)
	out := make([]byte, len(ciphertext)+TagSize)
	copy(out, ciphertext)
	copy(out[len(ciphertext):], tag)
	return out
}

// Decrypt performs SPIX authenticated decryption.
func Decrypt(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	checkSizes(key, nonce)
	if len(ciphertextAndTag) < TagSize {
		return nil, ErrShortCiphertext
	}
	ciphertextLen := len(ciphertextAndTag) - TagSize
	ciphertext := ciphertextAndTag[:ciphertextLen]
	receivedTag := ciphertextAndTag[ciphertextLen:]

	s := initState(key, nonce)
	absorbAD(s, ad)
	plaintext := cryptBlocks(s, ciphertext, false)
	expectedTag := finalize(s, key)

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
		panic("spix: invalid key size")
	}
	if len(nonce) != NonceSize {
		panic("spix: invalid nonce size")
	}
}
