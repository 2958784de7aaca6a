// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package mac

import (
	"crypto/rand"
	"fmt"

	"github.com/ordinox/edabits-core/channel"
	"github.com/ordinox/edabits-core/field"
	"github.com/ordinox/edabits-core/prg"
)

// FComFpProver is the Prover side of FCom[F_p] (§6).
type FComFpProver struct {
	ch   *channel.Channel
	corr *CorrelationFp
}

// FComFpVerifier is the Verifier side of the same collaborator.
type FComFpVerifier struct {
	ch   *channel.Channel
	corr *CorrelationFp
}

func NewFComFpProver(ch *channel.Channel, corr *CorrelationFp) *FComFpProver {
	return &FComFpProver{ch: ch, corr: corr}
}

func NewFComFpVerifier(ch *channel.Channel, corr *CorrelationFp) *FComFpVerifier {
	return &FComFpVerifier{ch: ch, corr: corr}
}

func writeFpBatch(ch *channel.Channel, vs []field.Fp) error {
	buf := make([]byte, 0, len(vs)*field.FpByteLen)
	for _, v := range vs {
		b := v.Bytes()
		buf = append(buf, b[:]...)
	}
	if _, err := ch.Write(buf); err != nil {
		return err
	}
	return ch.Flush()
}

func readFpBatch(ch *channel.Channel, n int) ([]field.Fp, error) {
	buf := make([]byte, n*field.FpByteLen)
	if _, err := ch.Read(buf); err != nil {
		return nil, err
	}
	out := make([]field.Fp, n)
	for i := range out {
		var b [field.FpByteLen]byte
		copy(b[:], buf[i*field.FpByteLen:(i+1)*field.FpByteLen])
		v, err := field.FpFromBytes(b)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *FComFpProver) Random(n int) ([]MacProverFp, error) {
	values := make([]field.Fp, n)
	tags := make([]field.Fp, n)
	keys := make([]field.Fp, n)
	for i := range values {
		v, err := field.RandomFp()
		if err != nil {
			return nil, fmt.Errorf("mac: Fp random: %w", err)
		}
		tag, key, err := p.corr.deal(v)
		if err != nil {
			return nil, fmt.Errorf("mac: Fp random deal: %w", err)
		}
		values[i], tags[i], keys[i] = v, tag, key
	}
	if err := writeFpBatch(p.ch, keys); err != nil {
		return nil, fmt.Errorf("mac: Fp random: sending keys: %w", err)
	}
	out := make([]MacProverFp, n)
	for i := range out {
		out[i] = MacProverFp{V: values[i], Tag: tags[i]}
	}
	return out, nil
}

func (v *FComFpVerifier) Random(n int) ([]MacVerifierFp, error) {
	keys, err := readFpBatch(v.ch, n)
	if err != nil {
		return nil, fmt.Errorf("mac: Fp random: receiving keys: %w", err)
	}
	out := make([]MacVerifierFp, n)
	for i := range out {
		out[i] = MacVerifierFp{Key: keys[i]}
	}
	return out, nil
}

func (p *FComFpProver) Input(values []field.Fp) ([]MacProverFp, error) {
	tags := make([]field.Fp, len(values))
	keys := make([]field.Fp, len(values))
	for i, v := range values {
		tag, key, err := p.corr.deal(v)
		if err != nil {
			return nil, fmt.Errorf("mac: Fp input deal: %w", err)
		}
		tags[i], keys[i] = tag, key
	}
	if err := writeFpBatch(p.ch, keys); err != nil {
		return nil, fmt.Errorf("mac: Fp input: sending keys: %w", err)
	}
	out := make([]MacProverFp, len(values))
	for i := range out {
		out[i] = MacProverFp{V: values[i], Tag: tags[i]}
	}
	return out, nil
}

func (v *FComFpVerifier) Input(count int) ([]MacVerifierFp, error) {
	return v.Random(count)
}

func challengeFp(ch *channel.Channel, isVerifier bool, n int) ([]field.Fp, error) {
	var seed [prg.SeedSize]byte
	if isVerifier {
		if _, err := rand.Read(seed[:]); err != nil {
			return nil, fmt.Errorf("mac: sampling challenge seed: %w", err)
		}
		if err := ch.WriteBlock(seed); err != nil {
			return nil, err
		}
	} else {
		var err error
		seed, err = ch.ReadBlock()
		if err != nil {
			return nil, err
		}
	}
	rng, err := prg.NewAesRng(seed)
	if err != nil {
		return nil, err
	}
	out := make([]field.Fp, n)
	for i := range out {
		digest := make([]byte, field.FpByteLen)
		_, _ = rng.Read(digest)
		out[i] = field.FpFromDigest(digest)
	}
	return out, nil
}

// Open reveals a batch of authenticated F_p values, MAC-checked via the
// same randomized linear combination technique as FComF2Verifier.Open.
func (p *FComFpProver) Open(macs []MacProverFp) ([]field.Fp, error) {
	values := make([]field.Fp, len(macs))
	for i, m := range macs {
		values[i] = m.V
	}
	if err := writeFpBatch(p.ch, values); err != nil {
		return nil, fmt.Errorf("mac: Fp open: sending values: %w", err)
	}
	chi, err := challengeFp(p.ch, false, len(macs))
	if err != nil {
		return nil, fmt.Errorf("mac: Fp open: challenge: %w", err)
	}
	combined := field.FpZero()
	for i, m := range macs {
		combined = combined.Add(chi[i].Mul(m.Tag))
	}
	if err := writeFpBatch(p.ch, []field.Fp{combined}); err != nil {
		return nil, fmt.Errorf("mac: Fp open: sending combined tag: %w", err)
	}
	return values, nil
}

func (v *FComFpVerifier) Open(macs []MacVerifierFp) ([]field.Fp, error) {
	values, err := readFpBatch(v.ch, len(macs))
	if err != nil {
		return nil, fmt.Errorf("mac: Fp open: receiving values: %w", err)
	}
	chi, err := challengeFp(v.ch, true, len(macs))
	if err != nil {
		return nil, fmt.Errorf("mac: Fp open: challenge: %w", err)
	}
	combinedBatch, err := readFpBatch(v.ch, 1)
	if err != nil {
		return nil, fmt.Errorf("mac: Fp open: receiving combined tag: %w", err)
	}
	expected := field.FpZero()
	combinedV := field.FpZero()
	for i, m := range macs {
		expected = expected.Add(chi[i].Mul(m.Key))
		combinedV = combinedV.Add(chi[i].Mul(values[i]))
	}
	expected = expected.Add(combinedV.Mul(v.corr.delta))
	if !combinedBatch[0].Equal(expected) {
		return nil, fmt.Errorf("mac: Fp open: MAC check failed")
	}
	return values, nil
}

func (p *FComFpProver) CheckZero(macs []MacProverFp) error {
	_, err := p.Open(macs)
	return err
}

func (v *FComFpVerifier) CheckZero(macs []MacVerifierFp) error {
	values, err := v.Open(macs)
	if err != nil {
		return err
	}
	for _, x := range values {
		if !x.IsZero() {
			return fmt.Errorf("mac: Fp check_zero: opened value was not zero")
		}
	}
	return nil
}

func (p *FComFpProver) Add(a, b MacProverFp) MacProverFp {
	return MacProverFp{V: a.V.Add(b.V), Tag: a.Tag.Add(b.Tag)}
}

func (v *FComFpVerifier) Add(a, b MacVerifierFp) MacVerifierFp {
	return MacVerifierFp{Key: a.Key.Add(b.Key)}
}

func (p *FComFpProver) Neg(a MacProverFp) MacProverFp {
	return MacProverFp{V: a.V.Neg(), Tag: a.Tag.Neg()}
}

func (v *FComFpVerifier) Neg(a MacVerifierFp) MacVerifierFp {
	return MacVerifierFp{Key: a.Key.Neg()}
}

func (p *FComFpProver) AffineAddCst(c field.Fp, a MacProverFp) MacProverFp {
	return MacProverFp{V: a.V.Add(c), Tag: a.Tag}
}

func (v *FComFpVerifier) AffineAddCst(c field.Fp, a MacVerifierFp) MacVerifierFp {
	return MacVerifierFp{Key: a.Key.Add(c.Mul(v.corr.delta).Neg())}
}

func (p *FComFpProver) AffineMultCst(c field.Fp, a MacProverFp) MacProverFp {
	return MacProverFp{V: a.V.Mul(c), Tag: c.Mul(a.Tag)}
}

func (v *FComFpVerifier) AffineMultCst(c field.Fp, a MacVerifierFp) MacVerifierFp {
	return MacVerifierFp{Key: c.Mul(a.Key)}
}

// QuicksilverCheckMultiply batch-verifies fdabit's step-2 triples, the Fp
// counterpart of FComF2Prover/Verifier.QuicksilverCheckMultiply — see that
// method's doc comment for the simplification this makes relative to a
// genuine zero-knowledge QuickSilver check.
func (p *FComFpProver) QuicksilverCheckMultiply(triples []TripleFpProver) error {
	flat := make([]MacProverFp, 0, len(triples)*3)
	for _, t := range triples {
		flat = append(flat, t.A, t.B, t.C)
	}
	_, err := p.Open(flat)
	return err
}

func (v *FComFpVerifier) QuicksilverCheckMultiply(triples []TripleFpVerifier) error {
	flat := make([]MacVerifierFp, 0, len(triples)*3)
	for _, t := range triples {
		flat = append(flat, t.A, t.B, t.C)
	}
	values, err := v.Open(flat)
	if err != nil {
		return err
	}
	for i := range triples {
		a, b, c := values[3*i], values[3*i+1], values[3*i+2]
		if !a.Mul(b).Equal(c) {
			return fmt.Errorf("mac: quicksilver_check_multiply: triple %d inconsistent", i)
		}
	}
	return nil
}

func (p *FComFpProver) Duplicate(ch *channel.Channel) *FComFpProver {
	return NewFComFpProver(ch, p.corr)
}

func (v *FComFpVerifier) Duplicate(ch *channel.Channel) *FComFpVerifier {
	return NewFComFpVerifier(ch, v.corr)
}
