// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package mac implements a concrete, working stand-in for the spec's
// `FCom[F]` collaborator (§3, §6): homomorphic commitment to authenticated
// values. The real collaborator is explicitly out of scope ("The
// underlying homomorphic commitment modules ... their internal VOLE/LPN
// machinery is not specified here", spec §1) — this package realizes the
// same external surface (random/input/open/add/affine/check_zero/
// quicksilver_check_multiply/wolverine_check_multiply/duplicate) with a
// simplified, single-process "trusted dealer" in place of a genuine
// LPN-based VOLE extension. See DESIGN.md for the threat-model caveat:
// this is sufficient to drive and test the edabits protocols built on top
// of it, but it is not a cryptographically sound MAC scheme on its own.
package mac

import "github.com/ordinox/edabits-core/field"

// MacProverF2 is the Prover's half of an authenticated F2 value: the
// cleartext bit and its MAC tag, living in the binary extension F40b.
type MacProverF2 struct {
	V   field.F2
	Tag field.F40b
}

// MacVerifierF2 is the Verifier's half: the MAC key alone.
type MacVerifierF2 struct {
	Key field.F40b
}

// MacProverFp is the Prover's half of an authenticated Fp value.
type MacProverFp struct {
	V   field.Fp
	Tag field.Fp
}

// MacVerifierFp is the Verifier's half: the MAC key alone.
type MacVerifierFp struct {
	Key field.Fp
}

// TripleF2Prover is a Prover-held multiplication triple over F2: c.V == a.V*b.V.
type TripleF2Prover struct {
	A, B, C MacProverF2
}

// TripleF2Verifier is the Verifier-held counterpart of TripleF2Prover.
type TripleF2Verifier struct {
	A, B, C MacVerifierF2
}

// TripleFpProver is a Prover-held multiplication triple over F_p, used by
// fdabit's step-2 bit-consistency triples (c_{k,i}, 1-c_{k,i}, product).
type TripleFpProver struct {
	A, B, C MacProverFp
}

// TripleFpVerifier is the Verifier-held counterpart of TripleFpProver.
type TripleFpVerifier struct {
	A, B, C MacVerifierFp
}
