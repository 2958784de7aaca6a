// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package edabits

import (
	"github.com/ordinox/edabits-core/field"
	"github.com/ordinox/edabits-core/mac"
)

// convertBit2Field lifts a batch of carry bits into F_p, using each
// dabit's already-authenticated {0,1}-in-Fp value to avoid an expensive
// bit-decomposition check: c = r.bit XOR x reveals which of r.value or
// 1 - r.value equals x in F_p, selected without branching on the secret
// bit (§4.G).
func (p *Prover) convertBit2Field(rBatch []DabitProver, xBatch []mac.MacProverF2) ([]mac.MacProverFp, error) {
	n := len(rBatch)
	cBatch := make([]mac.MacProverF2, n)
	for i := range cBatch {
		cBatch[i] = p.fcomF2.Add(rBatch[i].Bit, xBatch[i])
	}
	cClear, err := p.fcomF2.Open(cBatch)
	if err != nil {
		return nil, wrapStage("convert_bit_2_field: opening c", err)
	}

	xM := make([]mac.MacProverFp, n)
	for i := 0; i < n; i++ {
		c := cClear[i]
		cM := field.LiftF2ToFp(c)
		beq := p.fcom.AffineAddCst(cM, p.fcom.Neg(rBatch[i].Value))
		bneq := p.fcom.AffineAddCst(cM, rBatch[i].Value)
		xM[i] = affineSelectFp(bneq, beq, c)
	}
	return xM, nil
}

func (v *Verifier) convertBit2Field(rBatch []DabitVerifier, xBatch []mac.MacVerifierF2) ([]mac.MacVerifierFp, error) {
	n := len(rBatch)
	rPlusX := make([]mac.MacVerifierF2, n)
	for i := range rPlusX {
		rPlusX[i] = v.fcomF2.Add(rBatch[i].Bit, xBatch[i])
	}
	cClear, err := v.fcomF2.Open(rPlusX)
	if err != nil {
		return nil, wrapStage("convert_bit_2_field: opening c", err)
	}

	xM := make([]mac.MacVerifierFp, n)
	for i := 0; i < n; i++ {
		c := cClear[i]
		cM := field.LiftF2ToFp(c)
		beq := v.fcom.AffineAddCst(cM, v.fcom.Neg(rBatch[i].Value))
		bneq := v.fcom.AffineAddCst(cM, rBatch[i].Value)
		xM[i] = affineSelectFpVerifier(bneq, beq, c)
	}
	return xM, nil
}

// affineSelectFp picks bneq when choice is 0, beq when choice is 1,
// without branching on choice, matching the original's
// `conditional_select(&bneq, &beq, choice)`.
func affineSelectFp(bneq, beq mac.MacProverFp, choice field.F2) mac.MacProverFp {
	return mac.MacProverFp{
		V:   bneq.V.ConditionalSelect(beq.V, choice),
		Tag: bneq.Tag.ConditionalSelect(beq.Tag, choice),
	}
}

func affineSelectFpVerifier(bneq, beq mac.MacVerifierFp, choice field.F2) mac.MacVerifierFp {
	return mac.MacVerifierFp{Key: bneq.Key.ConditionalSelect(beq.Key, choice)}
}

// convLoop is one bucket's worth of conversion checking (§4.G, step 6):
// add the candidate edabits to a fresh random edabit, reveal the masked
// sum, and check the revealed value is consistent with the dabit-lifted
// carry and the candidate's own Fp value.
func (p *Prover) convLoop(edabitsVector, r []EdabitProver, dabits []DabitProver, randomTriples []mac.TripleF2Prover) error {
	n := len(edabitsVector)
	nbBits := len(edabitsVector[0].Bits)
	powerTwoNbBits := field.Pow2(nbBits)

	eBatch, err := p.BitAddCarry(edabitsVector, r, randomTriples)
	if err != nil {
		return err
	}

	eCarryBatch := make([]mac.MacProverF2, n)
	for i, e := range eBatch {
		eCarryBatch[i] = e.Carry
	}

	eMBatch, err := p.convertBit2Field(dabits, eCarryBatch)
	if err != nil {
		return err
	}

	ePrimeBatch := make([]mac.MacProverFp, n)
	eiBatch := make([]mac.MacProverF2, 0, n*nbBits)
	for i := 0; i < n; i++ {
		cM := edabitsVector[i].Value
		rM := r[i].Value
		cPlusR := p.fcom.Add(cM, rM)
		eM := eMBatch[i]
		ePrime := p.fcom.Add(cPlusR, p.fcom.AffineMultCst(powerTwoNbBits.Neg(), eM))
		ePrimeBatch[i] = ePrime
		eiBatch = append(eiBatch, eBatch[i].Sum...)
	}

	if _, err := p.fcomF2.Open(eiBatch); err != nil {
		return wrapStage("conv_loop: opening e bits", err)
	}

	ePrimeMinusSum := make([]mac.MacProverFp, n)
	for i := 0; i < n; i++ {
		bits := make([]field.F2, nbBits)
		for j := 0; j < nbBits; j++ {
			bits[j] = eiBatch[i*nbBits+j].V
		}
		sum := field.FoldBits(bits)
		ePrimeMinusSum[i] = p.fcom.AffineAddCst(sum.Neg(), ePrimeBatch[i])
	}

	if err := p.fcom.CheckZero(ePrimeMinusSum); err != nil {
		return wrapStage("conv_loop: check_zero", err)
	}
	return nil
}

func (v *Verifier) convLoop(edabitsVector, r []EdabitVerifier, dabits []DabitVerifier, randomTriples []mac.TripleF2Verifier) error {
	n := len(edabitsVector)
	nbBits := len(edabitsVector[0].Bits)
	powerTwoNbBits := field.Pow2(nbBits)

	eBatch, err := v.BitAddCarry(edabitsVector, r, randomTriples)
	if err != nil {
		return err
	}

	eCarryBatch := make([]mac.MacVerifierF2, n)
	for i, e := range eBatch {
		eCarryBatch[i] = e.Carry
	}

	eMBatch, err := v.convertBit2Field(dabits, eCarryBatch)
	if err != nil {
		return err
	}

	ePrimeBatch := make([]mac.MacVerifierFp, n)
	eiBatch := make([]mac.MacVerifierF2, 0, n*nbBits)
	for i := 0; i < n; i++ {
		cM := edabitsVector[i].Value
		rM := r[i].Value
		cPlusR := v.fcom.Add(cM, rM)
		eM := eMBatch[i]
		ePrime := v.fcom.Add(cPlusR, v.fcom.AffineMultCst(powerTwoNbBits.Neg(), eM))
		ePrimeBatch[i] = ePrime
		eiBatch = append(eiBatch, eBatch[i].Sum...)
	}

	eiClear, err := v.fcomF2.Open(eiBatch)
	if err != nil {
		return wrapStage("conv_loop: opening e bits", err)
	}

	ePrimeMinusSum := make([]mac.MacVerifierFp, n)
	for i := 0; i < n; i++ {
		sum := field.FoldBits(eiClear[i*nbBits : (i+1)*nbBits])
		ePrimeMinusSum[i] = v.fcom.AffineAddCst(sum.Neg(), ePrimeBatch[i])
	}

	if err := v.fcom.CheckZero(ePrimeMinusSum); err != nil {
		return wrapStage("conv_loop: check_zero", err)
	}
	return nil
}
