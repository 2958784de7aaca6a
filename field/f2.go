// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package field implements the finite fields the edabits core is built
// over: the bit field F2, its degree-40 binary extension F40b (used to
// carry MACs on F2 values), and a wrapper around a large prime field Fp
// used for the arithmetic side of a dabit/edabit.
package field

import (
	"crypto/rand"
	"fmt"
)

// F2 is a single element of GF(2): zero or one.
type F2 uint8

const (
	Zero2 F2 = 0
	One2  F2 = 1
)

// RandomF2 draws a uniform bit from a cryptographic RNG.
func RandomF2() (F2, error) {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("field: reading random bit: %w", err)
	}
	return F2(b[0] & 1), nil
}

// Add returns a XOR b, the group operation of GF(2).
func (a F2) Add(b F2) F2 { return a ^ b }

// Mul returns a AND b, the field multiplication of GF(2).
func (a F2) Mul(b F2) F2 { return a & b }

// Neg is the identity in characteristic 2.
func (a F2) Neg() F2 { return a }

func (a F2) IsZero() bool { return a == 0 }

func (a F2) Equal(b F2) bool { return a == b }

// Byte serializes a as a single 0/1 byte, for sending over a Channel.
func (a F2) Byte() byte { return byte(a & 1) }

// F2FromByte deserializes the byte produced by Byte.
func F2FromByte(b byte) F2 { return F2(b & 1) }

func (a F2) String() string {
	if a == 0 {
		return "0"
	}
	return "1"
}
