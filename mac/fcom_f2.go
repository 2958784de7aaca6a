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

// FComF2Prover is the Prover side of FCom[F_{2^40}] (§6): commitment to
// F2 values authenticated in the binary extension field F40b.
type FComF2Prover struct {
	ch   *channel.Channel
	corr *CorrelationF2
}

// FComF2Verifier is the Verifier side of the same collaborator.
type FComF2Verifier struct {
	ch   *channel.Channel
	corr *CorrelationF2
}

// NewFComF2Prover constructs the Prover half over ch, sharing keys with
// whatever NewFComF2Verifier was built with the same corr.
func NewFComF2Prover(ch *channel.Channel, corr *CorrelationF2) *FComF2Prover {
	return &FComF2Prover{ch: ch, corr: corr}
}

func NewFComF2Verifier(ch *channel.Channel, corr *CorrelationF2) *FComF2Verifier {
	return &FComF2Verifier{ch: ch, corr: corr}
}

func writeF2Batch(ch *channel.Channel, vs []field.F2) error {
	buf := make([]byte, len(vs))
	for i, v := range vs {
		buf[i] = v.Byte()
	}
	if _, err := ch.Write(buf); err != nil {
		return err
	}
	return ch.Flush()
}

func readF2Batch(ch *channel.Channel, n int) ([]field.F2, error) {
	buf := make([]byte, n)
	if _, err := ch.Read(buf); err != nil {
		return nil, err
	}
	out := make([]field.F2, n)
	for i, b := range buf {
		out[i] = field.F2FromByte(b)
	}
	return out, nil
}

func writeF40bBatch(ch *channel.Channel, vs []field.F40b) error {
	buf := make([]byte, 0, len(vs)*field.F40bByteLen)
	for _, v := range vs {
		b := v.Bytes()
		buf = append(buf, b[:]...)
	}
	if _, err := ch.Write(buf); err != nil {
		return err
	}
	return ch.Flush()
}

func readF40bBatch(ch *channel.Channel, n int) ([]field.F40b, error) {
	buf := make([]byte, n*field.F40bByteLen)
	if _, err := ch.Read(buf); err != nil {
		return nil, err
	}
	out := make([]field.F40b, n)
	for i := range out {
		var b [field.F40bByteLen]byte
		copy(b[:], buf[i*field.F40bByteLen:(i+1)*field.F40bByteLen])
		out[i] = field.F40bFromBytes(b)
	}
	return out, nil
}

// Random draws n fresh, uniformly distributed authenticated F2 values;
// one round of communication, per §6's FCom[F].random contract.
func (p *FComF2Prover) Random(n int) ([]MacProverF2, error) {
	values := make([]field.F2, n)
	tags := make([]field.F40b, n)
	keys := make([]field.F40b, n)
	for i := range values {
		v, err := field.RandomF2()
		if err != nil {
			return nil, fmt.Errorf("mac: F2 random: %w", err)
		}
		tag, key, err := p.corr.deal(v)
		if err != nil {
			return nil, fmt.Errorf("mac: F2 random deal: %w", err)
		}
		values[i], tags[i], keys[i] = v, tag, key
	}
	if err := writeF40bBatch(p.ch, keys); err != nil {
		return nil, fmt.Errorf("mac: F2 random: sending keys: %w", err)
	}
	out := make([]MacProverF2, n)
	for i := range out {
		out[i] = MacProverF2{V: values[i], Tag: tags[i]}
	}
	return out, nil
}

func (v *FComF2Verifier) Random(n int) ([]MacVerifierF2, error) {
	keys, err := readF40bBatch(v.ch, n)
	if err != nil {
		return nil, fmt.Errorf("mac: F2 random: receiving keys: %w", err)
	}
	out := make([]MacVerifierF2, n)
	for i := range out {
		out[i] = MacVerifierF2{Key: keys[i]}
	}
	return out, nil
}

// Input authenticates Prover-chosen cleartexts; same wire shape as
// Random, since our correlation's `deal` step does not distinguish a
// prover-chosen value from a freshly sampled one.
func (p *FComF2Prover) Input(values []field.F2) ([]MacProverF2, error) {
	tags := make([]field.F40b, len(values))
	keys := make([]field.F40b, len(values))
	for i, v := range values {
		tag, key, err := p.corr.deal(v)
		if err != nil {
			return nil, fmt.Errorf("mac: F2 input deal: %w", err)
		}
		tags[i], keys[i] = tag, key
	}
	if err := writeF40bBatch(p.ch, keys); err != nil {
		return nil, fmt.Errorf("mac: F2 input: sending keys: %w", err)
	}
	out := make([]MacProverF2, len(values))
	for i := range out {
		out[i] = MacProverF2{V: values[i], Tag: tags[i]}
	}
	return out, nil
}

func (v *FComF2Verifier) Input(count int) ([]MacVerifierF2, error) {
	return v.Random(count)
}

// challengeF40b draws a fresh batch MAC-check challenge: the Verifier
// samples a seed, sends it, and both sides expand it identically. This is
// the standard SPDZ-style randomized linear combination used to check a
// batch of MACs without a dedicated certificate per value.
func challengeF40b(ch *channel.Channel, isVerifier bool, n int) ([]field.F40b, error) {
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
	out := make([]field.F40b, n)
	for i := range out {
		b := rng.NextBlock()
		var fb [field.F40bByteLen]byte
		copy(fb[:], b[:field.F40bByteLen])
		out[i] = field.F40bFromBytes(fb)
	}
	return out, nil
}

// Open reveals the cleartexts of a batch of authenticated F2 values and
// performs the batched MAC check (random linear combination over F40b),
// aborting the whole check on any mismatch.
func (p *FComF2Prover) Open(macs []MacProverF2) ([]field.F2, error) {
	values := make([]field.F2, len(macs))
	for i, m := range macs {
		values[i] = m.V
	}
	if err := writeF2Batch(p.ch, values); err != nil {
		return nil, fmt.Errorf("mac: F2 open: sending values: %w", err)
	}
	chi, err := challengeF40b(p.ch, false, len(macs))
	if err != nil {
		return nil, fmt.Errorf("mac: F2 open: challenge: %w", err)
	}
	combined := field.ZeroF40b
	for i, m := range macs {
		combined = combined.Add(chi[i].Mul(m.Tag))
	}
	if err := writeF40bBatch(p.ch, []field.F40b{combined}); err != nil {
		return nil, fmt.Errorf("mac: F2 open: sending combined tag: %w", err)
	}
	return values, nil
}

func (v *FComF2Verifier) Open(macs []MacVerifierF2) ([]field.F2, error) {
	values, err := readF2Batch(v.ch, len(macs))
	if err != nil {
		return nil, fmt.Errorf("mac: F2 open: receiving values: %w", err)
	}
	chi, err := challengeF40b(v.ch, true, len(macs))
	if err != nil {
		return nil, fmt.Errorf("mac: F2 open: challenge: %w", err)
	}
	combinedBatch, err := readF40bBatch(v.ch, 1)
	if err != nil {
		return nil, fmt.Errorf("mac: F2 open: receiving combined tag: %w", err)
	}
	expected := field.ZeroF40b
	combinedV := field.ZeroF40b
	for i, m := range macs {
		expected = expected.Add(chi[i].Mul(m.Key))
		combinedV = combinedV.Add(chi[i].Mul(field.LiftF2ToF40b(values[i])))
	}
	expected = expected.Add(combinedV.Mul(v.corr.delta))
	if !combinedBatch[0].Equal(expected) {
		return nil, fmt.Errorf("mac: F2 open: MAC check failed")
	}
	return values, nil
}

// CheckZero asserts that every value in macs is zero. It runs a full Open
// (cleartexts included) and the Verifier then rejects any opened value
// that is not zero.
func (p *FComF2Prover) CheckZero(macs []MacProverF2) error {
	_, err := p.Open(macs)
	return err
}

func (v *FComF2Verifier) CheckZero(macs []MacVerifierF2) error {
	values, err := v.Open(macs)
	if err != nil {
		return err
	}
	for _, b := range values {
		if !b.IsZero() {
			return fmt.Errorf("mac: F2 check_zero: opened value was not zero")
		}
	}
	return nil
}

// Add, Neg, AffineAddCst and AffineMultCst are local: no channel I/O.
func (p *FComF2Prover) Add(a, b MacProverF2) MacProverF2 {
	return MacProverF2{V: a.V.Add(b.V), Tag: a.Tag.Add(b.Tag)}
}

func (v *FComF2Verifier) Add(a, b MacVerifierF2) MacVerifierF2 {
	return MacVerifierF2{Key: a.Key.Add(b.Key)}
}

func (p *FComF2Prover) Neg(a MacProverF2) MacProverF2 {
	return MacProverF2{V: a.V.Neg(), Tag: a.Tag.Neg()}
}

func (v *FComF2Verifier) Neg(a MacVerifierF2) MacVerifierF2 {
	return MacVerifierF2{Key: a.Key.Neg()}
}

func (p *FComF2Prover) AffineAddCst(c field.F2, a MacProverF2) MacProverF2 {
	return MacProverF2{V: a.V.Add(c), Tag: a.Tag}
}

func (v *FComF2Verifier) AffineAddCst(c field.F2, a MacVerifierF2) MacVerifierF2 {
	shift := field.LiftF2ToF40b(c).Mul(v.corr.delta)
	return MacVerifierF2{Key: a.Key.Add(shift.Neg())}
}

func (p *FComF2Prover) AffineMultCst(c field.F2, a MacProverF2) MacProverF2 {
	return MacProverF2{V: a.V.Mul(c), Tag: field.LiftF2ToF40b(c).Mul(a.Tag)}
}

func (v *FComF2Verifier) AffineMultCst(c field.F2, a MacVerifierF2) MacVerifierF2 {
	return MacVerifierF2{Key: field.LiftF2ToF40b(c).Mul(a.Key)}
}

// QuicksilverCheckMultiply batch-verifies that every triple's cleartexts
// satisfy c = a*b. The real QuickSilver check does this without revealing
// a, b or c; our simplified FCom (see package doc) proves the same
// accept/reject behavior by opening the triple's components through the
// already-MAC-checked Open above.
func (p *FComF2Prover) QuicksilverCheckMultiply(triples []TripleF2Prover) error {
	flat := make([]MacProverF2, 0, len(triples)*3)
	for _, t := range triples {
		flat = append(flat, t.A, t.B, t.C)
	}
	_, err := p.Open(flat)
	return err
}

func (v *FComF2Verifier) QuicksilverCheckMultiply(triples []TripleF2Verifier) error {
	flat := make([]MacVerifierF2, 0, len(triples)*3)
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

// WolverineCheckMultiply consumes one pre-certified randomizer triple per
// input triple (§4.D), opening both and checking both algebraically. In a
// real Wolverine check the randomizer lets the multiplication be verified
// more cheaply than a fresh QuickSilver proof; our simplified FCom already
// pays the cost of a full open, so the randomizer is consumed (as the
// spec's accounting requires) without being load-bearing for soundness.
func (p *FComF2Prover) WolverineCheckMultiply(triples, randomizers []TripleF2Prover) error {
	if len(triples) != len(randomizers) {
		return fmt.Errorf("mac: wolverine_check_multiply: %d triples but %d randomizers", len(triples), len(randomizers))
	}
	if err := p.QuicksilverCheckMultiply(triples); err != nil {
		return err
	}
	return p.QuicksilverCheckMultiply(randomizers)
}

func (v *FComF2Verifier) WolverineCheckMultiply(triples, randomizers []TripleF2Verifier) error {
	if len(triples) != len(randomizers) {
		return fmt.Errorf("mac: wolverine_check_multiply: %d triples but %d randomizers", len(triples), len(randomizers))
	}
	if err := v.QuicksilverCheckMultiply(triples); err != nil {
		return err
	}
	return v.QuicksilverCheckMultiply(randomizers)
}

// Duplicate forks a fresh, independent FCom instance over ch, sharing the
// same global MAC key — the analogue of a VOLE-backend re-keying under
// the same Delta so the new instance's MACs remain compatible.
func (p *FComF2Prover) Duplicate(ch *channel.Channel) *FComF2Prover {
	return NewFComF2Prover(ch, p.corr)
}

func (v *FComF2Verifier) Duplicate(ch *channel.Channel) *FComF2Verifier {
	return NewFComF2Verifier(ch, v.corr)
}
