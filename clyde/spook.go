// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package clyde

import (
	"errors"

	"github.com/rweather/lightweight-crypto-sub005/internal/bitops"
)

var (
	ErrSpookAuthFailed      = errors.New("spook: authentication failed")
	ErrSpookShortCiphertext = errors.New("spook: ciphertext shorter than tag")
)

// Spook sizes (spec §4.F "Spook specifics"): a 128-bit long-term key,
// a 128-bit nonce, and a 128-bit tag, built from Clyde-128 plus the
// Shadow-384 permutation.
const (
	SpookKeySize   = 16
	SpookNonceSize = 16
	SpookTagSize   = 16
	spookRate      = 16
)

// spookInit runs Clyde-128 on the nonce twice under the key with two
// fixed public tweaks (all zero, and 0x01 in byte 0), loads the two
// 16-byte results into bundles 0 and 1 of the Shadow-384 state and
// permutes it, mirroring Spook's "Clyde-128 then Shadow"
// initialization (spec §4.F).
func spookInit(key, nonce []byte) *Shadow384 {
	tweak0 := make([]byte, TweakSize)
	tweak1 := make([]byte, TweakSize)
	tweak1[0] = 0x01

	u := make([]byte, BlockSize)
	v := make([]byte, BlockSize)
	Encrypt(u, nonce, key, tweak0)
	Encrypt(v, nonce, key, tweak1)

	var s Shadow384
	for i := 0; i < BlockSize; i++ {
		s[0][i/4] |= uint32(u[i]) << uint(8*(i%4))
	}
	for i := 0; i < BlockSize; i++ {
		s[1][i/4] |= uint32(v[i]) << uint(8*(i%4))
	}
	s.Permute()
	return &s
}

func spookRateBytes(s *Shadow384) []byte {
	out := make([]byte, spookRate)
	for i := 0; i < BlockSize; i++ {
		out[i] = byte(s[0][i/4] >> uint(8*(i%4)))
	}
	return out
}

func spookSetRate(s *Shadow384, rate []byte) {
	for i := 0; i < BlockSize; i++ {
		shift := uint(8 * (i % 4))
		word := i / 4
		s[0][word] = (s[0][word] &^ (0xff << shift)) | uint32(rate[i])<<shift
	}
}

func spookAbsorb(s *Shadow384, data []byte, domain byte) {
	offset := 0
	for offset+spookRate <= len(data) {
		rate := spookRateBytes(s)
		bitops.XORBytes(rate, data[offset:offset+spookRate])
		spookSetRate(s, rate)
		s.Permute()
		offset += spookRate
	}
	tail := make([]byte, spookRate)
	copy(tail, data[offset:])
	tail[len(data)-offset] = 0x80
	rate := spookRateBytes(s)
	bitops.XORBytes(rate, tail)
	rate[spookRate-1] ^= domain
	spookSetRate(s, rate)
	s.Permute()
}

func spookCrypt(s *Shadow384, data []byte, encrypt bool) []byte {
	out := make([]byte, len(data))
	offset := 0
	for offset+spookRate <= len(data) {
		rate := spookRateBytes(s)
		block := data[offset : offset+spookRate]
		result := make([]byte, spookRate)
		for i := range result {
			result[i] = rate[i] ^ block[i]
		}
		copy(out[offset:], result)
		if encrypt {
			spookSetRate(s, result)
		} else {
			spookSetRate(s, block)
		}
		s.Permute()
		offset += spookRate
	}
	remaining := len(data) - offset
	if remaining > 0 {
		rate := spookRateBytes(s)
		result := make([]byte, remaining)
		for i := 0; i < remaining; i++ {
			result[i] = rate[i] ^ data[offset+i]
		}
		copy(out[offset:], result)
		tail := make([]byte, spookRate)
		if encrypt {
			copy(tail, result)
		} else {
			copy(tail, data[offset:])
		}
		tail[remaining] = 0x80
		newRate := spookRateBytes(s)
		copy(newRate, tail)
		newRate[spookRate-1] ^= 0x02
		spookSetRate(s, newRate)
		s.Permute()
	}
	return out
}

// spookTag produces the final 16-byte tag by running Clyde-128 under
// the long-term key on the Shadow-384 rate (bundle 0), with the next
// 16 state bytes (bundle 1) as the tweak, the last
// step Spook's specification calls the "Clyde-128-masked encryption"
// in its masked exemplar (spec §4.F "Spook-masked specifics").
func spookTag(s *Shadow384, key []byte) []byte {
	tag := make([]byte, BlockSize)
	tweak := make([]byte, TweakSize)
	for i := range tweak {
		tweak[i] = byte(s[1][i/4] >> uint(8*(i%4)))
	}
	Encrypt(tag, spookRateBytes(s), key, tweak)
	return tag
}

// Seal performs Spook authenticated encryption (spec §4.F).
func Seal(key, nonce, ad, plaintext []byte) []byte {
	checkSpookSizes(key, nonce)
	s := spookInit(key, nonce)
	spookAbsorb(s, ad, 0x01)
	ciphertext := spookCrypt(s, plaintext, true)
	tag := spookTag(s, key)
	out := make([]byte, len(ciphertext)+SpookTagSize)
	copy(out, ciphertext)
	copy(out[len(ciphertext):], tag)
	return out
}

// Open performs Spook authenticated decryption.
func Open(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	checkSpookSizes(key, nonce)
	if len(ciphertextAndTag) < SpookTagSize {
		return nil, ErrSpookShortCiphertext
	}
	ciphertextLen := len(ciphertextAndTag) - SpookTagSize
	ciphertext := ciphertextAndTag[:ciphertextLen]
	receivedTag := ciphertextAndTag[ciphertextLen:]

	s := spookInit(key, nonce)
	spookAbsorb(s, ad, 0x01)
	plaintext := spookCrypt(s, ciphertext, false)
	expectedTag := spookTag(s, key)

	if !bitops.ConstantTimeCompare(receivedTag, expectedTag) {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrSpookAuthFailed
	}
	return plaintext, nil
}

func checkSpookSizes(key, nonce []byte) {
	if len(key) != SpookKeySize {
		panic("spook: invalid key size")
	}
	if len(nonce) != SpookNonceSize {
		panic("spook: invalid nonce size")
	}
}
