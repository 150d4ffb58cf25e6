// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package lwcrypto is a uniform descriptor registry over every
// authenticated encryption algorithm implemented elsewhere in this
// module (spec §5 "a single registry for drivers, fuzzers and
// conformance tests to enumerate implementations uniformly").
package lwcrypto

import (
	"github.com/rweather/lightweight-crypto-sub005/ascon"
	"github.com/rweather/lightweight-crypto-sub005/clyde"
	"github.com/rweather/lightweight-crypto-sub005/gift"
	"github.com/rweather/lightweight-crypto-sub005/gimli"
	"github.com/rweather/lightweight-crypto-sub005/grain128"
	"github.com/rweather/lightweight-crypto-sub005/sliscp"
	"github.com/rweather/lightweight-crypto-sub005/tinyjambu"
	"github.com/rweather/lightweight-crypto-sub005/xoodoo"
)

// EncryptFunc and DecryptFunc normalize every algorithm's AEAD entry
// points to a common shape. Algorithms whose Encrypt cannot fail (no
// associated-data length limit, no variable key size to validate)
// simply never return a non-nil error.
type EncryptFunc func(key, nonce, ad, plaintext []byte) ([]byte, error)
type DecryptFunc func(key, nonce, ad, ciphertextAndTag []byte) ([]byte, error)

// Algorithm describes one registered AEAD implementation: its name,
// the fixed sizes it expects, and adapter closures over its native
// Encrypt/Decrypt functions.
type Algorithm struct {
	Name      string
	KeySize   int
	NonceSize int
	TagSize   int
	Encrypt   EncryptFunc
	Decrypt   DecryptFunc
}

func noErr(f func(key, nonce, ad, plaintext []byte) []byte) EncryptFunc {
	return func(key, nonce, ad, plaintext []byte) ([]byte, error) {
		return f(key, nonce, ad, plaintext), nil
	}
}

// Registry lists every AEAD algorithm this module implements, in the
// order they appear in the specification's algorithm table. Block
// ciphers and permutations with no AEAD mode of their own (SPECK,
// CHAM, Pyjamask, the bare GIFT block ciphers, Clyde's raw tweakable
// block cipher) are not AEAD constructions and have no place in this
// registry; they are exercised directly by their own package tests.
var Registry = []Algorithm{
	{
		Name:      "ascon-128",
		KeySize:   ascon.KeySize,
		NonceSize: ascon.NonceSize,
		TagSize:   ascon.TagSize,
		Encrypt:   noErr(ascon.Encrypt128),
		Decrypt:   ascon.Decrypt128,
	},
	{
		Name:      "ascon-128a",
		KeySize:   ascon.KeySize,
		NonceSize: ascon.NonceSize,
		TagSize:   ascon.TagSize,
		Encrypt:   noErr(ascon.Encrypt128a),
		Decrypt:   ascon.Decrypt128a,
	},
	{
		Name:      "gascon-128",
		KeySize:   ascon.KeySize,
		NonceSize: ascon.NonceSize,
		TagSize:   ascon.TagSize,
		Encrypt:   noErr(ascon.EncryptGascon128),
		Decrypt:   ascon.DecryptGascon128,
	},
	{
		Name:      "gimli-cipher",
		KeySize:   gimli.KeySize,
		NonceSize: gimli.NonceSize,
		TagSize:   gimli.TagSize,
		Encrypt:   noErr(gimli.Encrypt),
		Decrypt:   gimli.Decrypt,
	},
	{
		Name:      "xoodyak",
		KeySize:   xoodoo.KeySize,
		NonceSize: xoodoo.NonceSize,
		TagSize:   xoodoo.TagSize,
		Encrypt:   noErr(xoodoo.Encrypt),
		Decrypt:   xoodoo.Decrypt,
	},
	{
		Name:      "grain-128aead",
		KeySize:   grain128.KeySize,
		NonceSize: grain128.NonceSize,
		TagSize:   grain128.TagSize,
		Encrypt:   grain128.Encrypt,
		Decrypt:   grain128.Decrypt,
	},
	{
		Name:      "tinyjambu-128",
		KeySize:   tinyjambu.KeySize128,
		NonceSize: tinyjambu.NonceSize,
		TagSize:   tinyjambu.TagSize,
		Encrypt:   noErr(tinyjambu.Encrypt),
		Decrypt:   tinyjambu.Decrypt,
	},
	{
		Name:      "tinyjambu-192",
		KeySize:   tinyjambu.KeySize192,
		NonceSize: tinyjambu.NonceSize,
		TagSize:   tinyjambu.TagSize,
		Encrypt:   noErr(tinyjambu.Encrypt),
		Decrypt:   tinyjambu.Decrypt,
	},
	{
		Name:      "tinyjambu-256",
		KeySize:   tinyjambu.KeySize256,
		NonceSize: tinyjambu.NonceSize,
		TagSize:   tinyjambu.TagSize,
		Encrypt:   noErr(tinyjambu.Encrypt),
		Decrypt:   tinyjambu.Decrypt,
	},
	{
		Name:      "gift-cofb",
		KeySize:   gift.COFBKeySize,
		NonceSize: gift.COFBNonceSize,
		TagSize:   gift.COFBTagSize,
		Encrypt:   noErr(gift.Encrypt),
		Decrypt:   gift.Decrypt,
	},
	{
		Name:      "spix",
		KeySize:   sliscp.KeySize,
		NonceSize: sliscp.NonceSize,
		TagSize:   sliscp.TagSize,
		Encrypt:   noErr(sliscp.Encrypt),
		Decrypt:   sliscp.Decrypt,
	},
	{
		Name:      "spook",
		KeySize:   clyde.SpookKeySize,
		NonceSize: clyde.SpookNonceSize,
		TagSize:   clyde.SpookTagSize,
		Encrypt:   noErr(clyde.Seal),
		Decrypt:   clyde.Open,
	},
}

// ByName looks up a registered algorithm by its Name field, reporting
// ok=false if no such algorithm is registered.
func ByName(name string) (Algorithm, bool) {
	for _, a := range Registry {
		if a.Name == name {
			return a, true
		}
	}
	return Algorithm{}, false
}
