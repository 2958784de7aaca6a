// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package edabits

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ordinox/edabits-core/channel"
	"github.com/ordinox/edabits-core/field"
	"github.com/ordinox/edabits-core/mac"
	"github.com/ordinox/edabits-core/prg"
)

// ConvOptions configures one conv run (§4.H). BucketChannels, when
// non-empty, hands each bucket its own auxiliary Channel and runs the
// buckets' conv_loop calls concurrently instead of sequentially on the
// main channel.
type ConvOptions struct {
	NumBucket      int
	NumCut         int
	WithQuicksilver bool
	BucketChannels []*channel.Channel
}

// Conv is the top-level conversion check (§4.H): it manufactures
// nbBits-wide random edabits and dabits, proves their cross-field
// consistency with Fdabit, jointly shuffles everything with the peer,
// opens and checks NumCut of the shuffled edabits (and, in Wolverine mode,
// NumCut*nbBits of the triples) as a cut-and-choose, and uses the rest as one-time pads to prove every edabits in
// edabitsVector decodes to the Fp value it claims.
func (p *Prover) Conv(edabitsVector []EdabitProver, opts ConvOptions) error {
	n := len(edabitsVector)
	if n == 0 {
		return errors.New("edabits: conv: empty edabits vector")
	}
	nbBits := len(edabitsVector[0].Bits)

	nbRandomEdabits := n*opts.NumBucket + opts.NumCut
	nbRandomDabits := n * opts.NumBucket

	r, err := p.RandomEdabits(nbBits, nbRandomEdabits)
	if err != nil {
		return wrapStage("conv: random_edabits", err)
	}

	dabits, err := p.RandomDabits(nbRandomDabits)
	if err != nil {
		return wrapStage("conv: random_dabits", err)
	}

	var randomTriples []mac.TripleF2Prover
	if !opts.WithQuicksilver {
		howMany := opts.NumBucket*n*nbBits + opts.NumCut*nbBits
		randomTriples, err = p.RandomTriples(howMany)
		if err != nil {
			return wrapStage("conv: random_triples", err)
		}
	}

	if err := p.Fdabit(dabits); err != nil {
		return err
	}

	seed, err := p.recvSeed()
	if err != nil {
		return wrapStage("conv: receiving shuffle seed", err)
	}
	shuffleRng, err := prg.NewAesRng(seed)
	if err != nil {
		return err
	}
	prg.Shuffle(shuffleRng, r)
	prg.Shuffle(shuffleRng, dabits)
	prg.Shuffle(shuffleRng, randomTriples)

	base := n * opts.NumBucket
	for i := 0; i < opts.NumCut; i++ {
		a := r[base+i]
		if _, err := p.fcomF2.Open(a.Bits); err != nil {
			return wrapStage("conv: opening cut edabit bits", err)
		}
		if _, err := p.fcom.Open([]mac.MacProverFp{a.Value}); err != nil {
			return wrapStage("conv: opening cut edabit value", err)
		}
	}

	if !opts.WithQuicksilver {
		tripleBase := n * opts.NumBucket * nbBits
		for i := 0; i < opts.NumCut*nbBits; i++ {
			t := randomTriples[tripleBase+i]
			if _, err := p.fcomF2.Open([]mac.MacProverF2{t.A, t.B}); err != nil {
				return wrapStage("conv: opening cut triple", err)
			}
			v := p.fcomF2.AffineAddCst(t.A.V.Mul(t.B.V).Neg(), t.C)
			if err := p.fcomF2.CheckZero([]mac.MacProverF2{v}); err != nil {
				return wrapStage("conv: checking cut triple", err)
			}
		}
	}

	if len(opts.BucketChannels) == 0 {
		for j := 0; j < opts.NumBucket; j++ {
			idxBase := j * n
			var triples []mac.TripleF2Prover
			if !opts.WithQuicksilver {
				triples = randomTriples[idxBase*nbBits : idxBase*nbBits+n*nbBits]
			}
			if err := p.convLoop(edabitsVector, r[idxBase:idxBase+n], dabits[idxBase:idxBase+n], triples); err != nil {
				return err
			}
		}
		return nil
	}

	if len(opts.BucketChannels) != opts.NumBucket {
		return errors.Errorf("edabits: conv: %d bucket channels for %d buckets", len(opts.BucketChannels), opts.NumBucket)
	}

	var eg errgroup.Group
	errs := make([]error, len(opts.BucketChannels))
	for j, bucketCh := range opts.BucketChannels {
		j, bucketCh := j, bucketCh
		idxBase := j * n
		edabitsPar := CloneEdabitsProver(edabitsVector)
		rPar := CloneEdabitsProver(r[idxBase : idxBase+n])
		dabitsPar := append([]DabitProver(nil), dabits[idxBase:idxBase+n]...)
		var triplesPar []mac.TripleF2Prover
		if !opts.WithQuicksilver {
			triplesPar = append([]mac.TripleF2Prover(nil), randomTriples[idxBase*nbBits:idxBase*nbBits+n*nbBits]...)
		}
		newProver := p.Duplicate(bucketCh)
		eg.Go(func() error {
			errs[j] = newProver.convLoop(edabitsPar, rPar, dabitsPar, triplesPar)
			return errs[j]
		})
	}
	if err := eg.Wait(); err != nil {
		return multierror.Append(errors.New("edabits: conv: bucket failures"), errs...).ErrorOrNil()
	}
	return nil
}

func (v *Verifier) Conv(edabitsVector []EdabitVerifier, opts ConvOptions) error {
	n := len(edabitsVector)
	if n == 0 {
		return errors.New("edabits: conv: empty edabits vector")
	}
	nbBits := len(edabitsVector[0].Bits)

	nbRandomEdabits := n*opts.NumBucket + opts.NumCut
	nbRandomDabits := n * opts.NumBucket

	r, err := v.RandomEdabits(nbBits, nbRandomEdabits)
	if err != nil {
		return wrapStage("conv: random_edabits", err)
	}

	dabits, err := v.RandomDabits(nbRandomDabits)
	if err != nil {
		return wrapStage("conv: random_dabits", err)
	}

	var randomTriples []mac.TripleF2Verifier
	if !opts.WithQuicksilver {
		howMany := opts.NumBucket*n*nbBits + opts.NumCut*nbBits
		randomTriples, err = v.RandomTriples(howMany)
		if err != nil {
			return wrapStage("conv: random_triples", err)
		}
	}

	if err := v.Fdabit(dabits); err != nil {
		return err
	}

	seed, err := v.sendSeed()
	if err != nil {
		return wrapStage("conv: sending shuffle seed", err)
	}
	shuffleRng, err := prg.NewAesRng(seed)
	if err != nil {
		return err
	}
	prg.Shuffle(shuffleRng, r)
	prg.Shuffle(shuffleRng, dabits)
	prg.Shuffle(shuffleRng, randomTriples)

	base := n * opts.NumBucket
	for i := 0; i < opts.NumCut; i++ {
		a := r[base+i]
		bits, err := v.fcomF2.Open(a.Bits)
		if err != nil {
			return wrapStage("conv: opening cut edabit bits", err)
		}
		values, err := v.fcom.Open([]mac.MacVerifierFp{a.Value})
		if err != nil {
			return wrapStage("conv: opening cut edabit value", err)
		}
		if !field.FoldBits(bits).Equal(values[0]) {
			return errors.New("edabits: conv: wrong open random edabit")
		}
	}

	if !opts.WithQuicksilver {
		tripleBase := n * opts.NumBucket * nbBits
		for i := 0; i < opts.NumCut*nbBits; i++ {
			t := randomTriples[tripleBase+i]
			opened, err := v.fcomF2.Open([]mac.MacVerifierF2{t.A, t.B})
			if err != nil {
				return wrapStage("conv: opening cut triple", err)
			}
			x, y := opened[0], opened[1]
			val := v.fcomF2.AffineAddCst(x.Mul(y).Neg(), t.C)
			if err := v.fcomF2.CheckZero([]mac.MacVerifierF2{val}); err != nil {
				return wrapStage("conv: checking cut triple", err)
			}
		}
	}

	if len(opts.BucketChannels) == 0 {
		for j := 0; j < opts.NumBucket; j++ {
			idxBase := j * n
			var triples []mac.TripleF2Verifier
			if !opts.WithQuicksilver {
				triples = randomTriples[idxBase*nbBits : idxBase*nbBits+n*nbBits]
			}
			if err := v.convLoop(edabitsVector, r[idxBase:idxBase+n], dabits[idxBase:idxBase+n], triples); err != nil {
				return err
			}
		}
		return nil
	}

	if len(opts.BucketChannels) != opts.NumBucket {
		return errors.Errorf("edabits: conv: %d bucket channels for %d buckets", len(opts.BucketChannels), opts.NumBucket)
	}

	var eg errgroup.Group
	errs := make([]error, len(opts.BucketChannels))
	for j, bucketCh := range opts.BucketChannels {
		j, bucketCh := j, bucketCh
		idxBase := j * n
		edabitsPar := CloneEdabitsVerifier(edabitsVector)
		rPar := CloneEdabitsVerifier(r[idxBase : idxBase+n])
		dabitsPar := append([]DabitVerifier(nil), dabits[idxBase:idxBase+n]...)
		var triplesPar []mac.TripleF2Verifier
		if !opts.WithQuicksilver {
			triplesPar = append([]mac.TripleF2Verifier(nil), randomTriples[idxBase*nbBits:idxBase*nbBits+n*nbBits]...)
		}
		newVerifier := v.Duplicate(bucketCh)
		eg.Go(func() error {
			errs[j] = newVerifier.convLoop(edabitsPar, rPar, dabitsPar, triplesPar)
			return errs[j]
		})
	}
	if err := eg.Wait(); err != nil {
		return multierror.Append(errors.New("edabits: conv: bucket failures"), errs...).ErrorOrNil()
	}
	return nil
}
