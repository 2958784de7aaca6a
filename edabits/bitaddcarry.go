// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package edabits

import (
	"github.com/pkg/errors"

	"github.com/ordinox/edabits-core/field"
	"github.com/ordinox/edabits-core/mac"
)

// bitAddCarryResultProver is one batch-addition result: the sum bits and
// the final carry, both authenticated (§4.D).
type bitAddCarryResultProver struct {
	Sum   []mac.MacProverF2
	Carry mac.MacProverF2
}

type bitAddCarryResultVerifier struct {
	Sum   []mac.MacVerifierF2
	Carry mac.MacVerifierF2
}

// BitAddCarry runs a batch of ripple-carry additions over authenticated
// bits (§4.D). It processes bit position i across the whole batch before
// moving to i+1, so the round count stays m regardless of how many
// additions are batched together. When randomTriples is non-empty it is
// consumed one-for-one with the AND triples generated here via
// WolverineCheckMultiply; otherwise QuicksilverCheckMultiply is used.
func (p *Prover) BitAddCarry(xBatch, yBatch []EdabitProver, randomTriples []mac.TripleF2Prover) ([]bitAddCarryResultProver, error) {
	num := len(xBatch)
	if num != len(yBatch) {
		return nil, errors.Errorf("edabits: bit_add_carry: incompatible input vectors (%d vs %d)", num, len(yBatch))
	}
	if num == 0 {
		return nil, nil
	}
	m := len(xBatch[0].Bits)

	ciClear := make([]field.F2, num)
	ciMac, err := p.fcomF2.Input(ciClear)
	if err != nil {
		return nil, wrapStage("bit_add_carry: inputting carry-in", err)
	}

	triples := make([]mac.TripleF2Prover, 0, num*m)
	zBatch := make([][]mac.MacProverF2, num)
	for n := range zBatch {
		zBatch[n] = make([]mac.MacProverF2, 0, m)
	}

	for i := 0; i < m; i++ {
		andResBatch := make([]field.F2, num)
		aux := make([]mac.MacProverF2, num)
		aux2 := make([]mac.MacProverF2, num)
		for n := 0; n < num; n++ {
			ci := ciMac[n]
			xi := xBatch[n].Bits[i]
			yi := yBatch[n].Bits[i]

			and1 := p.fcomF2.Add(xi, ci)
			and2 := p.fcomF2.Add(yi, ci)

			andRes := and1.V.Mul(and2.V)
			ciClear[n] = ci.V.Add(andRes)

			z := p.fcomF2.Add(and1, yi)
			zBatch[n] = append(zBatch[n], z)

			andResBatch[n] = andRes
			aux[n] = and1
			aux2[n] = and2
		}
		andResMac, err := p.fcomF2.Input(andResBatch)
		if err != nil {
			return nil, wrapStage("bit_add_carry: inputting AND results", err)
		}
		for n := 0; n < num; n++ {
			triples = append(triples, mac.TripleF2Prover{A: aux[n], B: aux2[n], C: andResMac[n]})
			ciMac[n] = p.fcomF2.Add(ciMac[n], andResMac[n])
		}
	}

	if len(randomTriples) == 0 {
		if err := p.fcomF2.QuicksilverCheckMultiply(triples); err != nil {
			return nil, wrapStage("bit_add_carry: quicksilver check", err)
		}
	} else {
		if err := p.fcomF2.WolverineCheckMultiply(triples, randomTriples); err != nil {
			return nil, wrapStage("bit_add_carry: wolverine check", err)
		}
	}

	res := make([]bitAddCarryResultProver, num)
	for n := 0; n < num; n++ {
		res[n] = bitAddCarryResultProver{Sum: zBatch[n], Carry: mac.MacProverF2{V: ciClear[n], Tag: ciMac[n].Tag}}
	}
	return res, nil
}

func (v *Verifier) BitAddCarry(xBatch, yBatch []EdabitVerifier, randomTriples []mac.TripleF2Verifier) ([]bitAddCarryResultVerifier, error) {
	num := len(xBatch)
	if num != len(yBatch) {
		return nil, errors.Errorf("edabits: bit_add_carry: incompatible input vectors (%d vs %d)", num, len(yBatch))
	}
	if num == 0 {
		return nil, nil
	}
	m := len(xBatch[0].Bits)

	ciMac, err := v.fcomF2.Input(num)
	if err != nil {
		return nil, wrapStage("bit_add_carry: inputting carry-in", err)
	}

	triples := make([]mac.TripleF2Verifier, 0, num*m)
	zBatch := make([][]mac.MacVerifierF2, num)
	for n := range zBatch {
		zBatch[n] = make([]mac.MacVerifierF2, 0, m)
	}

	for i := 0; i < m; i++ {
		aux := make([]mac.MacVerifierF2, num)
		aux2 := make([]mac.MacVerifierF2, num)
		for n := 0; n < num; n++ {
			ci := ciMac[n]
			xi := xBatch[n].Bits[i]
			yi := yBatch[n].Bits[i]

			and1 := v.fcomF2.Add(xi, ci)
			and2 := v.fcomF2.Add(yi, ci)

			z := v.fcomF2.Add(and1, yi)
			zBatch[n] = append(zBatch[n], z)

			aux[n] = and1
			aux2[n] = and2
		}
		andResMac, err := v.fcomF2.Input(num)
		if err != nil {
			return nil, wrapStage("bit_add_carry: inputting AND results", err)
		}
		for n := 0; n < num; n++ {
			triples = append(triples, mac.TripleF2Verifier{A: aux[n], B: aux2[n], C: andResMac[n]})
			ciMac[n] = v.fcomF2.Add(ciMac[n], andResMac[n])
		}
	}

	if len(randomTriples) == 0 {
		if err := v.fcomF2.QuicksilverCheckMultiply(triples); err != nil {
			return nil, wrapStage("bit_add_carry: quicksilver check", err)
		}
	} else {
		if err := v.fcomF2.WolverineCheckMultiply(triples, randomTriples); err != nil {
			return nil, wrapStage("bit_add_carry: wolverine check", err)
		}
	}

	res := make([]bitAddCarryResultVerifier, num)
	for n := 0; n < num; n++ {
		res[n] = bitAddCarryResultVerifier{Sum: zBatch[n], Carry: ciMac[n]}
	}
	return res, nil
}
