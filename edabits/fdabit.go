// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package edabits

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ordinox/edabits-core/field"
	"github.com/ordinox/edabits-core/mac"
	"github.com/ordinox/edabits-core/prg"
)

// Fdabit runs the cut-and-choose consistency check (§4.F) proving that
// every dabit's F2 bit and Fp value agree, to soundness error 2^-s with
// s = FdabitSecurityParameter.
func (p *Prover) Fdabit(dabits []DabitProver) error {
	s := FdabitSecurityParameter
	n := len(dabits)
	gamma := fdabitGamma(n)
	if err := CheckParameters(n, gamma); err != nil {
		return err
	}

	// step 1)
	cM := make([][]field.Fp, s)
	cMMac := make([][]mac.MacProverFp, s)
	c1 := make([]field.F2, s)
	for k := 0; k < s; k++ {
		cM[k] = make([]field.Fp, gamma)
		for i := 0; i < gamma; i++ {
			b, err := field.RandomF2()
			if err != nil {
				return wrapStage("fdabit: sampling bit", err)
			}
			cM[k][i] = field.LiftF2ToFp(b)
			if i == 0 {
				c1[k] = b
			}
		}
		macs, err := p.fcom.Input(cM[k])
		if err != nil {
			return wrapStage("fdabit: inputting bit-decomposition of cut values", err)
		}
		cMMac[k] = macs
	}

	c1Mac, err := p.fcomF2.Input(c1)
	if err != nil {
		return wrapStage("fdabit: inputting c1", err)
	}

	// step 2)
	triples := make([]mac.TripleFpProver, 0, gamma*s)
	andlBatch := make([]mac.MacProverFp, 0, gamma*s)
	oneMinusCiBatch := make([]mac.MacProverFp, 0, gamma*s)
	andResBatch := make([]field.Fp, 0, gamma*s)
	for k := 0; k < s; k++ {
		for i := 0; i < gamma; i++ {
			andl := mac.MacProverFp{V: cM[k][i], Tag: cMMac[k][i].Tag}
			minusCi := p.fcom.AffineMultCst(field.FpZero().Sub(field.FpOne()), andl)
			oneMinusCi := p.fcom.AffineAddCst(field.FpOne(), minusCi)
			andRes := andl.V.Mul(oneMinusCi.V)
			andlBatch = append(andlBatch, andl)
			oneMinusCiBatch = append(oneMinusCiBatch, oneMinusCi)
			andResBatch = append(andResBatch, andRes)
		}
	}
	andResMac, err := p.fcom.Input(andResBatch)
	if err != nil {
		return wrapStage("fdabit: inputting AND results", err)
	}
	for j := 0; j < s*gamma; j++ {
		triples = append(triples, mac.TripleFpProver{A: andlBatch[j], B: oneMinusCiBatch[j], C: andResMac[j]})
	}

	// step 3)
	seed, err := p.recvSeed()
	if err != nil {
		return wrapStage("fdabit: receiving cut seed", err)
	}
	eRng, err := prg.NewAesRng(seed)
	if err != nil {
		return err
	}
	e := make([][]field.F2, s)
	for k := 0; k < s; k++ {
		e[k] = make([]field.F2, n)
		for i := 0; i < n; i++ {
			e[k][i] = eRng.NextF2()
		}
	}

	// step 4)
	rBatch := make([]mac.MacProverF2, s)
	for k := 0; k < s; k++ {
		r, rMac := c1[k], c1Mac[k].Tag
		for i := 0; i < n; i++ {
			tmp := p.fcomF2.AffineMultCst(e[k][i], dabits[i].Bit)
			r = r.Add(tmp.V)
			rMac = rMac.Add(tmp.Tag)
		}
		rBatch[k] = mac.MacProverF2{V: r, Tag: rMac}
	}

	// step 5)
	if _, err := p.fcomF2.Open(rBatch); err != nil {
		return wrapStage("fdabit: opening r", err)
	}

	// step 6)
	rPrimeBatch := make([]mac.MacProverFp, s)
	for k := 0; k < s; k++ {
		rPrime, rPrimeMac := field.FpZero(), field.FpZero()
		for i := 0; i < n; i++ {
			b := field.LiftF2ToFp(e[k][i])
			tmp := p.fcom.AffineMultCst(b, dabits[i].Value)
			rPrime = rPrime.Add(tmp.V)
			rPrimeMac = rPrimeMac.Add(tmp.Tag)
		}
		rPrimeBatch[k] = mac.MacProverFp{V: rPrime, Tag: rPrimeMac}
	}

	// step 7)
	tauBatch := make([]mac.MacProverFp, s)
	for k := 0; k < s; k++ {
		tau, tauMac := rPrimeBatch[k].V, rPrimeBatch[k].Tag
		twos := field.FpOne()
		for i := 0; i < gamma; i++ {
			tmp := p.fcom.AffineMultCst(twos, mac.MacProverFp{V: cM[k][i], Tag: cMMac[k][i].Tag})
			tau = tau.Add(tmp.V)
			tauMac = tauMac.Add(tmp.Tag)
			twos = twos.Add(twos)
		}
		tauBatch[k] = mac.MacProverFp{V: tau, Tag: tauMac}
	}

	if _, err := p.fcom.Open(tauBatch); err != nil {
		return wrapStage("fdabit: opening tau", err)
	}

	// step 8)
	res := true
	for k := 0; k < s; k++ {
		b := rBatch[k].V.Equal(field.One2) == (tauBatch[k].V.BitAt(0) == field.One2)
		res = res && b
	}
	if err := p.fcom.QuicksilverCheckMultiply(triples); err != nil {
		return wrapStage("fdabit: quicksilver check", err)
	}
	if !res {
		return errors.New("edabits: fail fdabit prover")
	}
	return nil
}

func (v *Verifier) Fdabit(dabits []DabitVerifier) error {
	s := FdabitSecurityParameter
	n := len(dabits)
	gamma := fdabitGamma(n)
	if err := CheckParameters(n, gamma); err != nil {
		return err
	}

	// step 1)
	cMMac := make([][]mac.MacVerifierFp, s)
	for k := 0; k < s; k++ {
		macs, err := v.fcom.Input(gamma)
		if err != nil {
			return wrapStage("fdabit: inputting bit-decomposition of cut values", err)
		}
		cMMac[k] = macs
	}
	c1Mac, err := v.fcomF2.Input(s)
	if err != nil {
		return wrapStage("fdabit: inputting c1", err)
	}

	// step 2)
	triples := make([]mac.TripleFpVerifier, 0, gamma*s)
	andlBatch := make([]mac.MacVerifierFp, 0, gamma*s)
	oneMinusCiBatch := make([]mac.MacVerifierFp, 0, gamma*s)
	for k := 0; k < s; k++ {
		for i := 0; i < gamma; i++ {
			andl := cMMac[k][i]
			minusCi := v.fcom.AffineMultCst(field.FpZero().Sub(field.FpOne()), andl)
			oneMinusCi := v.fcom.AffineAddCst(field.FpOne(), minusCi)
			andlBatch = append(andlBatch, andl)
			oneMinusCiBatch = append(oneMinusCiBatch, oneMinusCi)
		}
	}
	andResMac, err := v.fcom.Input(gamma * s)
	if err != nil {
		return wrapStage("fdabit: inputting AND results", err)
	}
	for j := 0; j < s*gamma; j++ {
		triples = append(triples, mac.TripleFpVerifier{A: andlBatch[j], B: oneMinusCiBatch[j], C: andResMac[j]})
	}

	// step 3)
	seed, err := v.sendSeed()
	if err != nil {
		return wrapStage("fdabit: sending cut seed", err)
	}
	eRng, err := prg.NewAesRng(seed)
	if err != nil {
		return err
	}
	e := make([][]field.F2, s)
	for k := 0; k < s; k++ {
		e[k] = make([]field.F2, n)
		for i := 0; i < n; i++ {
			e[k][i] = eRng.NextF2()
		}
	}

	// step 4)
	rMacBatch := make([]mac.MacVerifierF2, s)
	for k := 0; k < s; k++ {
		rMac := c1Mac[k].Key
		for i := 0; i < n; i++ {
			tmp := v.fcomF2.AffineMultCst(e[k][i], dabits[i].Bit)
			rMac = rMac.Add(tmp.Key)
		}
		rMacBatch[k] = mac.MacVerifierF2{Key: rMac}
	}

	// step 5)
	rBatch, err := v.fcomF2.Open(rMacBatch)
	if err != nil {
		return wrapStage("fdabit: opening r", err)
	}

	// step 6)
	rPrimeBatch := make([]mac.MacVerifierFp, s)
	for k := 0; k < s; k++ {
		rPrimeMac := field.FpZero()
		for i := 0; i < n; i++ {
			b := field.LiftF2ToFp(e[k][i])
			tmp := v.fcom.AffineMultCst(b, dabits[i].Value)
			rPrimeMac = rPrimeMac.Add(tmp.Key)
		}
		rPrimeBatch[k] = mac.MacVerifierFp{Key: rPrimeMac}
	}

	// step 7)
	tauMacBatch := make([]mac.MacVerifierFp, s)
	for k := 0; k < s; k++ {
		tauMac := rPrimeBatch[k].Key
		twos := field.FpOne()
		for i := 0; i < gamma; i++ {
			tmp := v.fcom.AffineMultCst(twos, cMMac[k][i])
			tauMac = tauMac.Add(tmp.Key)
			twos = twos.Add(twos)
		}
		tauMacBatch[k] = mac.MacVerifierFp{Key: tauMac}
	}

	tauBatch, err := v.fcom.Open(tauMacBatch)
	if err != nil {
		return wrapStage("fdabit: opening tau", err)
	}

	// step 8)
	res := true
	for k := 0; k < s; k++ {
		b := rBatch[k].Equal(field.One2) == (tauBatch[k].BitAt(0) == field.One2)
		res = res && b
	}
	if err := v.fcom.QuicksilverCheckMultiply(triples); err != nil {
		return wrapStage("fdabit: quicksilver check", err)
	}
	if !res {
		return fmt.Errorf("edabits: fail fdabit verifier")
	}
	return nil
}
