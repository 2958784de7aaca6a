// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package edabits

import (
	"crypto/rand"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ordinox/edabits-core/channel"
	"github.com/ordinox/edabits-core/mac"
	"github.com/ordinox/edabits-core/prg"
)

// LpnParams mirrors the spec's lpn_setup/lpn_extend knobs (§6, §4.I). A
// real FCom backend would use these to size its LPN matrices; our
// simplified FCom (see package mac's doc comment) does not need them, so
// they are carried only for interface fidelity with the collaborator this
// core is written against.
type LpnParams struct {
	Rows, Cols int
}

// Prover holds the two FCom instances (§4.I): fcomF2 authenticates the
// bit-decomposition side, fcom the F_p arithmetic side.
type Prover struct {
	id     uuid.UUID
	ch     *channel.Channel
	fcomF2 *mac.FComF2Prover
	fcom   *mac.FComFpProver
}

// Verifier is the Verifier's counterpart of Prover.
type Verifier struct {
	id     uuid.UUID
	ch     *channel.Channel
	fcomF2 *mac.FComF2Verifier
	fcom   *mac.FComFpVerifier
}

// NewProver initializes the Prover role. keys must be the same
// *mac.SessionKeys the peer's NewVerifier call is constructed with (see
// the mac package doc comment on why key setup is passed in explicitly
// rather than negotiated here, as it would be by a genuine LPN/VOLE init).
func NewProver(ch *channel.Channel, keys *mac.SessionKeys, lpnSetup, lpnExtend LpnParams) *Prover {
	_ = lpnSetup
	_ = lpnExtend
	p := &Prover{
		id:     uuid.New(),
		ch:     ch,
		fcomF2: mac.NewFComF2Prover(ch, keys.F2),
		fcom:   mac.NewFComFpProver(ch, keys.Fp),
	}
	log.Debugf("prover %s initialized", p.id)
	return p
}

// NewVerifier initializes the Verifier role.
func NewVerifier(ch *channel.Channel, keys *mac.SessionKeys, lpnSetup, lpnExtend LpnParams) *Verifier {
	_ = lpnSetup
	_ = lpnExtend
	v := &Verifier{
		id:     uuid.New(),
		ch:     ch,
		fcomF2: mac.NewFComF2Verifier(ch, keys.F2),
		fcom:   mac.NewFComFpVerifier(ch, keys.Fp),
	}
	log.Debugf("verifier %s initialized", v.id)
	return v
}

// Duplicate forks a fresh Prover instance over ch sharing this Prover's
// MAC keys (§4.H, §4.I): the step each parallel bucket worker performs on
// the main channel before being handed its own auxiliary channel.
func (p *Prover) Duplicate(ch *channel.Channel) *Prover {
	np := &Prover{
		id:     uuid.New(),
		ch:     ch,
		fcomF2: p.fcomF2.Duplicate(ch),
		fcom:   p.fcom.Duplicate(ch),
	}
	log.Debugf("prover %s duplicated as %s", p.id, np.id)
	return np
}

func (v *Verifier) Duplicate(ch *channel.Channel) *Verifier {
	nv := &Verifier{
		id:     uuid.New(),
		ch:     ch,
		fcomF2: v.fcomF2.Duplicate(ch),
		fcom:   v.fcom.Duplicate(ch),
	}
	log.Debugf("verifier %s duplicated as %s", v.id, nv.id)
	return nv
}

// recvSeed blocks for a 16-byte seed sent by the peer's sendSeed, the
// Prover-side half of the cut-and-choose and shuffle seed exchanges
// (fdabit step 3, conv step 3).
func (p *Prover) recvSeed() ([prg.SeedSize]byte, error) {
	return p.ch.ReadBlock()
}

// sendSeed draws and sends a fresh random seed, the Verifier-side half of
// the same exchange: the Verifier is the one trusted to choose the
// challenge, since a Prover-chosen seed could be biased toward a forged
// dabit.
func (v *Verifier) sendSeed() ([prg.SeedSize]byte, error) {
	var seed [prg.SeedSize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return seed, errors.Wrap(err, "edabits: sampling challenge seed")
	}
	if err := v.ch.WriteBlock(seed); err != nil {
		return seed, err
	}
	return seed, nil
}

// wrapStage prefixes an error with the failing protocol stage, the way
// the spec's error-handling design (§7) asks for ("fail fdabit prover",
// "Wrong open random edabit", ...).
func wrapStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "edabits: %s", stage)
}
