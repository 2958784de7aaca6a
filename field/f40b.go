// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package field

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// F40bDegree is the extension degree of the binary MAC field F_{2^40}.
const F40bDegree = 40

// f40bMask keeps only the 40 low bits of a uint64.
const f40bMask = (uint64(1) << F40bDegree) - 1

// f40bReductionPoly holds the coefficients of x^40 + x^4 + x^3 + x + 1
// below the leading term: bit i set means the x^i term is present.
// No library in the retrieval pack implements GF(2^40) arithmetic, so
// this reduction is carried out by hand using the classic carry-less
// multiply-and-reduce technique (the same technique stdlib's crypto/cipher
// GHASH implementation uses for GF(2^128)).
const f40bReductionPoly = uint64(1<<4 | 1<<3 | 1<<1 | 1)

// F40b is an element of the degree-40 binary extension field used to
// authenticate F2 values: a 40-bit polynomial over GF(2), stored in the
// low 40 bits of a uint64.
type F40b uint64

const (
	ZeroF40b F40b = 0
	OneF40b  F40b = 1
)

// RandomF40b draws a uniform element of F_{2^40}.
func RandomF40b() (F40b, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("field: reading random F40b: %w", err)
	}
	return F40b(binary.LittleEndian.Uint64(b[:]) & f40bMask), nil
}

// LiftF2ToF40b embeds a bit into the MAC field: 0 or 1, without branching
// on the bit.
func LiftF2ToF40b(b F2) F40b {
	return F40b(b & 1)
}

func (a F40b) Add(b F40b) F40b { return a ^ b }

func (a F40b) Neg() F40b { return a }

func (a F40b) IsZero() bool { return a == 0 }

func (a F40b) Equal(b F40b) bool { return a == b }

// Mul computes the carry-less product of a and b reduced modulo the
// fixed degree-40 irreducible polynomial.
func (a F40b) Mul(b F40b) F40b {
	var result uint64
	x := uint64(a) & f40bMask
	y := uint64(b) & f40bMask
	for i := 0; i < F40bDegree; i++ {
		result ^= x & (0 - (y & 1))
		y >>= 1
		x <<= 1
		x ^= ((uint64(1) << F40bDegree) | f40bReductionPoly) & (0 - ((x >> F40bDegree) & 1))
	}
	return F40b(result & f40bMask)
}

// ConditionalSelect returns b if choice is 1, a if choice is 0, without
// branching on the choice value (a constant-time arithmetic blend).
func (a F40b) ConditionalSelect(b F40b, choice F2) F40b {
	mask := F40b(0) - F40b(choice&1) // all-ones if choice==1, else all-zero
	return a ^ (mask & (a ^ b))
}

func (a F40b) String() string {
	return fmt.Sprintf("0x%010x", uint64(a))
}

// F40bByteLen is the canonical wire width of an F40b element.
const F40bByteLen = 8

// Bytes serializes a to 8 little-endian bytes, for sending over a Channel.
func (a F40b) Bytes() [F40bByteLen]byte {
	var b [F40bByteLen]byte
	binary.LittleEndian.PutUint64(b[:], uint64(a))
	return b
}

// F40bFromBytes deserializes the bytes produced by Bytes.
func F40bFromBytes(b [F40bByteLen]byte) F40b {
	return F40b(binary.LittleEndian.Uint64(b[:]) & f40bMask)
}
