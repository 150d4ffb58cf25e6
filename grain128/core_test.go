// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package grain128

import (
	"bytes"
	"testing"
)

// packMSBFirst packs one bit per byte (0 or 1) back into bytes,
// most-significant bit of each output byte first, the layout the
// expected register vectors below are written in.
func packMSBFirst(bits []byte) []byte {
	out := make([]byte, len(bits)/8)
	for i, v := range bits {
		out[i/8] |= v << uint(7-i%8)
	}
	return out
}

// packMSBFirstUint64 converts an 8-byte, most-significant-bit-first
// vector into the uint64 representation setup's acc/reg accumulation
// uses (bit i of the source, produced i-th, lands at bit i of the
// result) so the spec's byte-string vectors can be compared directly.
func packMSBFirstUint64(b []byte) uint64 {
	var x uint64
	for i := 0; i < 64; i++ {
		bit := uint64((b[i/8] >> uint(7-i%8)) & 1)
		x |= bit << uint(i)
	}
	return x
}

// TestSetupKnownAnswer checks the mandatory spec §8 scenario-3 vector
// for Grain-128's setup phase: the resulting LFSR/NFSR contents and
// the derived accumulator/shift-register. A round-trip or
// self-consistency test cannot catch a single-tap off-by-one in
// preOutput's h(x); only this fixed vector can.
func TestSetupKnownAnswer(t *testing.T) {
	key := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
	}
	nonce := []byte{
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc,
	}
	wantLFSR := []byte{
		0xfa, 0x5a, 0x8a, 0xec, 0x92, 0x16, 0x9c, 0xe4,
		0xaf, 0x7a, 0xfc, 0xe5, 0x72, 0x6f, 0xda, 0x9c,
	}
	wantNFSR := []byte{
		0x55, 0x8e, 0x94, 0x98, 0x6f, 0xcd, 0xa9, 0xa5,
		0xac, 0xfa, 0x2d, 0x6e, 0xd6, 0x73, 0xf6, 0x70,
	}
	wantAcc := packMSBFirstUint64([]byte{0xe2, 0xe0, 0xd8, 0x8a, 0xad, 0x63, 0x9c, 0xa1})
	wantReg := packMSBFirstUint64([]byte{0xe1, 0x02, 0xd6, 0xd5, 0x3d, 0x4c, 0x4b, 0x73})

	c := newCore(key, nonce)
	acc, reg := c.setup()

	if gotLFSR := packMSBFirst(c.lfsr[:]); !bytes.Equal(gotLFSR, wantLFSR) {
		t.Fatalf("LFSR after setup = %x, want %x", gotLFSR, wantLFSR)
	}
	if gotNFSR := packMSBFirst(c.nfsr[:]); !bytes.Equal(gotNFSR, wantNFSR) {
		t.Fatalf("NFSR after setup = %x, want %x", gotNFSR, wantNFSR)
	}
	if acc != wantAcc {
		t.Fatalf("accumulator = %016x, want %016x", acc, wantAcc)
	}
	if reg != wantReg {
		t.Fatalf("shift register = %016x, want %016x", reg, wantReg)
	}
}
