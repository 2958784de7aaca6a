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

// foldBitMacs is the Prover-only counterpart of field.FoldBits (§4.A):
// it folds the cleartext component of a slice of authenticated F2 bits,
// since only the Prover ever holds that cleartext to fold in the first
// place.
func foldBitMacs(bits []mac.MacProverF2) field.Fp {
	clear := make([]field.F2, len(bits))
	for i, b := range bits {
		clear[i] = b.V
	}
	return field.FoldBits(clear)
}

// RandomEdabits draws num fresh edabits, each an nbBits-wide bit
// decomposition authenticated in F2 together with its Fp value (§4.E).
func (p *Prover) RandomEdabits(nbBits, num int) ([]EdabitProver, error) {
	auxBits := make([][]mac.MacProverF2, num)
	auxRM := make([]field.Fp, num)
	for i := 0; i < num; i++ {
		bits := make([]mac.MacProverF2, nbBits)
		for j := 0; j < nbBits; j++ {
			b, err := p.fcomF2.Random(1)
			if err != nil {
				return nil, wrapStage("random_edabits: drawing bit", err)
			}
			bits[j] = b[0]
		}
		auxBits[i] = bits
		auxRM[i] = foldBitMacs(bits)
	}

	auxRMMac, err := p.fcom.Input(auxRM)
	if err != nil {
		return nil, wrapStage("random_edabits: inputting values", err)
	}

	out := make([]EdabitProver, num)
	for i := 0; i < num; i++ {
		out[i] = EdabitProver{Bits: auxBits[i], Value: auxRMMac[i]}
	}
	return out, nil
}

func (v *Verifier) RandomEdabits(nbBits, num int) ([]EdabitVerifier, error) {
	auxBits := make([][]mac.MacVerifierF2, num)
	for i := 0; i < num; i++ {
		bits := make([]mac.MacVerifierF2, nbBits)
		for j := 0; j < nbBits; j++ {
			b, err := v.fcomF2.Random(1)
			if err != nil {
				return nil, wrapStage("random_edabits: drawing bit", err)
			}
			bits[j] = b[0]
		}
		auxBits[i] = bits
	}

	auxRMMac, err := v.fcom.Input(num)
	if err != nil {
		return nil, wrapStage("random_edabits: inputting values", err)
	}

	out := make([]EdabitVerifier, num)
	for i := 0; i < num; i++ {
		out[i] = EdabitVerifier{Bits: auxBits[i], Value: auxRMMac[i]}
	}
	return out, nil
}

// RandomDabits draws num fresh dabits: a bit authenticated in F2 and the
// same bit lifted and authenticated in F_p (§4.E).
func (p *Prover) RandomDabits(num int) ([]DabitProver, error) {
	bBatch := make([]mac.MacProverF2, num)
	bMBatch := make([]field.Fp, num)
	for i := 0; i < num; i++ {
		b, err := p.fcomF2.Random(1)
		if err != nil {
			return nil, wrapStage("random_dabits: drawing bit", err)
		}
		bBatch[i] = b[0]
		bMBatch[i] = field.LiftF2ToFp(b[0].V)
	}

	bMMacBatch, err := p.fcom.Input(bMBatch)
	if err != nil {
		return nil, wrapStage("random_dabits: inputting lifted bits", err)
	}

	out := make([]DabitProver, num)
	for i := 0; i < num; i++ {
		out[i] = DabitProver{Bit: bBatch[i], Value: bMMacBatch[i]}
	}
	return out, nil
}

func (v *Verifier) RandomDabits(num int) ([]DabitVerifier, error) {
	bBatch := make([]mac.MacVerifierF2, num)
	for i := 0; i < num; i++ {
		b, err := v.fcomF2.Random(1)
		if err != nil {
			return nil, wrapStage("random_dabits: drawing bit", err)
		}
		bBatch[i] = b[0]
	}

	bMMacBatch, err := v.fcom.Input(num)
	if err != nil {
		return nil, wrapStage("random_dabits: inputting lifted bits", err)
	}

	out := make([]DabitVerifier, num)
	for i := 0; i < num; i++ {
		out[i] = DabitVerifier{Bit: bBatch[i], Value: bMMacBatch[i]}
	}
	return out, nil
}

// RandomTriples draws num fresh, self-certifying-free F2 multiplication
// triples (§4.E): x and y are freshly random, z is their product input
// directly by the Prover (not itself checked here — these are the
// randomizers Wolverine mode consumes in bit_add_carry and conv's
// cut-and-choose).
func (p *Prover) RandomTriples(num int) ([]mac.TripleF2Prover, error) {
	xs := make([]mac.MacProverF2, num)
	ys := make([]mac.MacProverF2, num)
	zsClear := make([]field.F2, num)
	for i := 0; i < num; i++ {
		x, err := p.fcomF2.Random(1)
		if err != nil {
			return nil, wrapStage("random_triples: drawing x", err)
		}
		y, err := p.fcomF2.Random(1)
		if err != nil {
			return nil, wrapStage("random_triples: drawing y", err)
		}
		xs[i], ys[i] = x[0], y[0]
		zsClear[i] = x[0].V.Mul(y[0].V)
	}

	zsMac, err := p.fcomF2.Input(zsClear)
	if err != nil {
		return nil, wrapStage("random_triples: inputting z", err)
	}

	out := make([]mac.TripleF2Prover, num)
	for i := 0; i < num; i++ {
		out[i] = mac.TripleF2Prover{A: xs[i], B: ys[i], C: zsMac[i]}
	}
	return out, nil
}

func (v *Verifier) RandomTriples(num int) ([]mac.TripleF2Verifier, error) {
	xs := make([]mac.MacVerifierF2, num)
	ys := make([]mac.MacVerifierF2, num)
	for i := 0; i < num; i++ {
		x, err := v.fcomF2.Random(1)
		if err != nil {
			return nil, wrapStage("random_triples: drawing x", err)
		}
		y, err := v.fcomF2.Random(1)
		if err != nil {
			return nil, wrapStage("random_triples: drawing y", err)
		}
		xs[i], ys[i] = x[0], y[0]
	}

	zsMac, err := v.fcomF2.Input(num)
	if err != nil {
		return nil, wrapStage("random_triples: inputting z", err)
	}

	out := make([]mac.TripleF2Verifier, num)
	for i := 0; i < num; i++ {
		out[i] = mac.TripleF2Verifier{A: xs[i], B: ys[i], C: zsMac[i]}
	}
	return out, nil
}
