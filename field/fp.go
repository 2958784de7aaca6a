// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Fp is the large prime field the arithmetic side of every dabit and
// edabit lives in. It wraps gnark-crypto's bn254 scalar field element,
// which already gives us fast, well-tested modular arithmetic over a
// ~254 bit prime, exactly the "large prime field F_p" the spec calls for.
type Fp struct {
	v fr.Element
}

// ModulusBitLen returns ceil(log2(p)), used by the fdabit parameter check.
func ModulusBitLen() int {
	return fr.Modulus().BitLen()
}

func FpZero() Fp { return Fp{} }

func FpOne() Fp {
	var e fr.Element
	e.SetOne()
	return Fp{v: e}
}

// RandomFp draws a uniform element of F_p.
func RandomFp() (Fp, error) {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return Fp{}, fmt.Errorf("field: reading random Fp: %w", err)
	}
	return Fp{v: e}, nil
}

func (a Fp) Add(b Fp) Fp {
	var r fr.Element
	r.Add(&a.v, &b.v)
	return Fp{v: r}
}

func (a Fp) Sub(b Fp) Fp {
	var r fr.Element
	r.Sub(&a.v, &b.v)
	return Fp{v: r}
}

func (a Fp) Neg() Fp {
	var r fr.Element
	r.Neg(&a.v)
	return Fp{v: r}
}

func (a Fp) Mul(b Fp) Fp {
	var r fr.Element
	r.Mul(&a.v, &b.v)
	return Fp{v: r}
}

func (a Fp) Equal(b Fp) bool { return a.v.Equal(&b.v) }

func (a Fp) IsZero() bool { return a.v.IsZero() }

func (a Fp) String() string { return a.v.String() }

// LiftF2ToFp returns 0 if b is zero, 1 otherwise. The select is performed
// as a branch-free arithmetic blend rather than a data-dependent branch,
// per the spec's constant-time requirement on `lift`.
func LiftF2ToFp(b F2) Fp {
	return FpZero().ConditionalSelect(FpOne(), b)
}

// FoldBits computes the Horner fold Σ bits[i]·2^i over F_p, most
// significant bit first, matching the original `convert_bits_to_field`.
func FoldBits(bits []F2) Fp {
	acc := FpZero()
	for i := len(bits) - 1; i >= 0; i-- {
		acc = acc.Add(acc)
		acc = acc.Add(LiftF2ToFp(bits[i]))
	}
	return acc
}

// Pow2 computes 2^m in F_p by repeated doubling of 1.
func Pow2(m int) Fp {
	res := FpOne()
	for i := 0; i < m; i++ {
		res = res.Add(res)
	}
	return res
}

// ConditionalSelect returns b if choice is 1, a if choice is 0. Selection
// is done over the field element's limb words rather than by branching
// on the secret bit, per the spec's constant-time `select` requirement.
// gnark-crypto's Element type is a fixed-size array of uint64 limbs, which
// lets us blend element-wise without reaching for an external
// constant-time-select library (none in the retrieval pack operates on
// arbitrary field element representations).
func (a Fp) ConditionalSelect(b Fp, choice F2) Fp {
	mask := uint64(0) - uint64(choice&1)
	var r fr.Element
	for i := range r {
		r[i] = a.v[i] ^ ((a.v[i] ^ b.v[i]) & mask)
	}
	return Fp{v: r}
}

// BitAt returns the i-th bit (0 = least significant) of the canonical
// (non-Montgomery) integer representative of a, used by fdabit's
// cross-field check on the opened τ value.
func (a Fp) BitAt(i int) F2 {
	n := a.v.BigInt(new(big.Int))
	if n.Bit(i) == 1 {
		return One2
	}
	return Zero2
}

// FpByteLen is the canonical wire width of an Fp element.
const FpByteLen = fr.Bytes

// Bytes serializes a to its canonical big-endian representation, for
// sending cleartexts and MAC tags over a Channel.
func (a Fp) Bytes() [FpByteLen]byte {
	return a.v.Bytes()
}

// FpFromBytes deserializes the canonical representation produced by Bytes.
func FpFromBytes(b [FpByteLen]byte) (Fp, error) {
	var e fr.Element
	if err := e.SetBytesCanonical(b[:]); err != nil {
		return Fp{}, fmt.Errorf("field: decoding Fp element: %w", err)
	}
	return Fp{v: e}, nil
}

// FpFromDigest maps an arbitrary-length byte string (typically PRG
// keystream output) onto F_p by reducing it modulo p, used to expand a
// jointly-seeded challenge into field elements deterministically.
func FpFromDigest(b []byte) Fp {
	var e fr.Element
	e.SetBytes(b)
	return Fp{v: e}
}
