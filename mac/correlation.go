// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package mac

import "github.com/ordinox/edabits-core/field"

// CorrelationF2 stands in for the VOLE functionality that would, in a
// real FCom[F_{2^40}], hand matching (value, tag) pairs to the Prover and
// (key) to the Verifier such that tag = key + lift(value)*delta, without
// either role ever learning delta. Here both roles are constructed over
// the same *CorrelationF2 (see SessionKeys), which plays the role of that
// trusted functionality; Prover-side code never reads .delta directly.
type CorrelationF2 struct {
	delta field.F40b
}

// NewCorrelationF2 samples a fresh global MAC key for the F2 field.
func NewCorrelationF2() (*CorrelationF2, error) {
	delta, err := field.RandomF40b()
	if err != nil {
		return nil, err
	}
	return &CorrelationF2{delta: delta}, nil
}

// deal is the (out-of-scope, here simulated) VOLE draw: given a value,
// produce a consistent (tag, key) pair under the hidden global key.
func (c *CorrelationF2) deal(v field.F2) (tag field.F40b, key field.F40b, err error) {
	key, err = field.RandomF40b()
	if err != nil {
		return
	}
	tag = key.Add(field.LiftF2ToF40b(v).Mul(c.delta))
	return
}

// CorrelationFp is CorrelationF2's counterpart for the prime field Fp.
type CorrelationFp struct {
	delta field.Fp
}

func NewCorrelationFp() (*CorrelationFp, error) {
	delta, err := field.RandomFp()
	if err != nil {
		return nil, err
	}
	return &CorrelationFp{delta: delta}, nil
}

func (c *CorrelationFp) deal(v field.Fp) (tag field.Fp, key field.Fp, err error) {
	key, err = field.RandomFp()
	if err != nil {
		return
	}
	tag = key.Add(v.Mul(c.delta))
	return
}

// SessionKeys bundles the two correlations a role pair needs: one for the
// F2-valued bits (authenticated in F40b) and one for the Fp-valued
// arithmetic side. A single SessionKeys is shared by exactly one Prover
// and one Verifier, constructed once before either side's NewProver or
// NewVerifier call —
// the analogue of a one-time LPN/VOLE base setup.
type SessionKeys struct {
	F2 *CorrelationF2
	Fp *CorrelationFp
}

func NewSessionKeys() (*SessionKeys, error) {
	f2, err := NewCorrelationF2()
	if err != nil {
		return nil, err
	}
	fp, err := NewCorrelationFp()
	if err != nil {
		return nil, err
	}
	return &SessionKeys{F2: f2, Fp: fp}, nil
}
