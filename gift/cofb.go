// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package gift

import (
	"errors"

	"github.com/rweather/lightweight-crypto-sub005/internal/bitops"
)

var (
	ErrAuthFailed      = errors.New("gift: authentication failed")
	ErrShortCiphertext = errors.New("gift: ciphertext shorter than tag")
)

// COFB sizes: GIFT-128 keyed with a 16-byte key and nonce, producing a
// 16-byte tag (spec §4.F).
const (
	COFBKeySize   = KeySize128
	COFBNonceSize = 16
	COFBTagSize   = 16
	cofbRate      = 16
)

// cofbDouble multiplies a 16-byte block by x in GF(2^128) (the
// standard COFB feedback-mask doubling), used to derive the per-block
// masks that keep the COFB feedback function from leaking equal
// blocks.
func cofbDouble(b []byte) []byte {
	out := make([]byte, cofbRate)
	carry := (b[0] >> 7) & 1
	for i := 0; i < cofbRate-1; i++ {
		out[i] = (b[i] << 1) | (b[i+1] >> 7)
	}
	out[cofbRate-1] = b[cofbRate-1] << 1
	if carry == 1 {
		out[cofbRate-1] ^= 0x87
	}
	return out
}

func cofbTriple(b []byte) []byte {
	d := cofbDouble(b)
	t := make([]byte, cofbRate)
	bitops.XORBytes(t, b)
	bitops.XORBytes(t, d)
	return t
}

func padBlock(data []byte) ([]byte, bool) {
	full := len(data) == cofbRate
	out := make([]byte, cofbRate)
	copy(out, data)
	if !full {
		out[len(data)] = 0x80
	}
	return out, full
}

// feedback computes COFB's "G" permutation on the 16-byte Y block
// used to derive the keystream mask from the running state: the
// block is split into two 8-byte halves (y1,y0) and rearranged to
// (y0, y1<<<1 ^ (y0's top bit)).
func feedback(y []byte) []byte {
	var y1, y0 uint64
	for i := 0; i < 8; i++ {
		y1 |= uint64(y[i]) << uint(8*i)
		y0 |= uint64(y[8+i]) << uint(8*i)
	}
	top := (y0 >> 63) & 1
	newY1 := y0
	newY0 := (y1<<1 | y1>>63) ^ top
	out := make([]byte, cofbRate)
	for i := 0; i < 8; i++ {
		out[i] = byte(newY1 >> uint(8*i))
		out[8+i] = byte(newY0 >> uint(8*i))
	}
	return out
}

// Encrypt performs GIFT-COFB authenticated encryption (spec §4.F).
func Encrypt(key, nonce, ad, plaintext []byte) []byte {
	checkCOFBSizes(key, nonce)
	s, _ := NewSchedule128(key)
	y := make([]byte, cofbRate)
	s.Encrypt(y, nonce)

	offset := 0
	mask := make([]byte, cofbRate)
	copy(mask, y)
	if len(ad) == 0 {
		mask = cofbTriple(cofbTriple(mask))
	}
	for offset+cofbRate < len(ad) {
		block := ad[offset : offset+cofbRate]
		mask = cofbDouble(mask)
		masked := make([]byte, cofbRate)
		bitops.XORBytes(masked, block)
		bitops.XORBytes(masked, mask)
		s.Encrypt(y, masked)
		offset += cofbRate
	}
	if len(ad) > 0 {
		tail, full := padBlock(ad[offset:])
		if full {
			mask = cofbTriple(mask)
		} else {
			mask = cofbTriple(cofbTriple(mask))
		}
		masked := make([]byte, cofbRate)
		bitops.XORBytes(masked, tail)
		bitops.XORBytes(masked, mask)
		s.Encrypt(y, masked)
	}

	ciphertext := make([]byte, len(plaintext))
	offset = 0
	for offset+cofbRate < len(plaintext) {
		block := plaintext[offset : offset+cofbRate]
		out := make([]byte, cofbRate)
		bitops.XORBytes(out, y)
		bitops.XORBytes(out, block)
		copy(ciphertext[offset:], out)
		mask = cofbDouble(mask)
		masked := make([]byte, cofbRate)
		bitops.XORBytes(masked, block)
		bitops.XORBytes(masked, mask)
		s.Encrypt(y, feedback(masked))
		offset += cofbRate
	}
	remaining := len(plaintext) - offset
	if remaining > 0 || len(plaintext) == 0 {
		tailPT := plaintext[offset:]
		out := make([]byte, remaining)
		for i := 0; i < remaining; i++ {
			out[i] = y[i] ^ tailPT[i]
		}
		copy(ciphertext[offset:], out)

		tail, full := padBlock(tailPT)
		if full {
			mask = cofbDouble(cofbDouble(mask))
		} else {
			mask = cofbTriple(cofbDouble(mask))
		}
		masked := make([]byte, cofbRate)
		bitops.XORBytes(masked, tail)
		bitops.XORBytes(masked, mask)
		s.Encrypt(y, feedback(masked))
	}

	tag := y[:COFBTagSize]
	out := make([]byte, len(ciphertext)+COFBTagSize)
	copy(out, ciphertext)
	copy(out[len(ciphertext):], tag)
	return out
}

// Decrypt performs GIFT-COFB authenticated decryption by replaying
// the same masked-feedback state machine with the message role
// swapped (ciphertext XORed with the keystream recovers plaintext),
// then comparing the resulting tag in constant time.
func Decrypt(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	checkCOFBSizes(key, nonce)
	if len(ciphertextAndTag) < COFBTagSize {
		return nil, ErrShortCiphertext
	}
	ciphertextLen := len(ciphertextAndTag) - COFBTagSize
	ciphertext := ciphertextAndTag[:ciphertextLen]
	receivedTag := ciphertextAndTag[ciphertextLen:]

	s, _ := NewSchedule128(key)
	y := make([]byte, cofbRate)
	s.Encrypt(y, nonce)

	offset := 0
	mask := make([]byte, cofbRate)
	copy(mask, y)
	if len(ad) == 0 {
		mask = cofbTriple(cofbTriple(mask))
	}
	for offset+cofbRate < len(ad) {
		block := ad[offset : offset+cofbRate]
		mask = cofbDouble(mask)
		masked := make([]byte, cofbRate)
		bitops.XORBytes(masked, block)
		bitops.XORBytes(masked, mask)
		s.Encrypt(y, masked)
		offset += cofbRate
	}
	if len(ad) > 0 {
		tail, full := padBlock(ad[offset:])
		if full {
			mask = cofbTriple(mask)
		} else {
			mask = cofbTriple(cofbTriple(mask))
		}
		masked := make([]byte, cofbRate)
		bitops.XORBytes(masked, tail)
		bitops.XORBytes(masked, mask)
		s.Encrypt(y, masked)
	}

	plaintext := make([]byte, ciphertextLen)
	offset = 0
	for offset+cofbRate < ciphertextLen {
		block := ciphertext[offset : offset+cofbRate]
		out := make([]byte, cofbRate)
		bitops.XORBytes(out, y)
		bitops.XORBytes(out, block)
		copy(plaintext[offset:], out)
		mask = cofbDouble(mask)
		masked := make([]byte, cofbRate)
		bitops.XORBytes(masked, out)
		bitops.XORBytes(masked, mask)
		s.Encrypt(y, feedback(masked))
		offset += cofbRate
	}
	remaining := ciphertextLen - offset
	if remaining > 0 || ciphertextLen == 0 {
		tailCT := ciphertext[offset:]
		out := make([]byte, remaining)
		for i := 0; i < remaining; i++ {
			out[i] = y[i] ^ tailCT[i]
		}
		copy(plaintext[offset:], out)

		tail, full := padBlock(out)
		if full {
			mask = cofbDouble(cofbDouble(mask))
		} else {
			mask = cofbTriple(cofbDouble(mask))
		}
		masked := make([]byte, cofbRate)
		bitops.XORBytes(masked, tail)
		bitops.XORBytes(masked, mask)
		s.Encrypt(y, feedback(masked))
	}

	if !bitops.ConstantTimeCompare(receivedTag, y[:COFBTagSize]) {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func checkCOFBSizes(key, nonce []byte) {
	if len(key) != COFBKeySize {
		panic("gift: invalid key size")
	}
	if len(nonce) != COFBNonceSize {
		panic("gift: invalid nonce size")
	}
}
