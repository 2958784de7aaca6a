// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package edabits implements the edabits conversion core: bit_add_carry
// (§4.D), the random generators (§4.E), fdabit (§4.F), conv_loop (§4.G)
// and the top-level conv driver with its role wrappers (§4.H, §4.I).
package edabits

import (
	logging "github.com/ipfs/go-log"

	"github.com/ordinox/edabits-core/mac"
)

var log = logging.Logger("edabits")

// FdabitSecurityParameter is the number of cut-and-choose repetitions
// fdabit runs to reach soundness error 2^-38 (§4.F).
const FdabitSecurityParameter = 38

// EdabitProver is the Prover's half of an edabit (§3): a little-endian
// bit decomposition authenticated in F2, plus the same value authenticated
// in F_p.
type EdabitProver struct {
	Bits  []mac.MacProverF2
	Value mac.MacProverFp
}

// EdabitVerifier is the Verifier's half of an edabit.
type EdabitVerifier struct {
	Bits  []mac.MacVerifierF2
	Value mac.MacVerifierFp
}

// CloneEdabitsProver returns a deep, by-value copy of edabits, the shape
// the parallel bucket fan-out (§4.H) hands to each worker so buckets share
// no backing array.
func CloneEdabitsProver(edabits []EdabitProver) []EdabitProver {
	out := make([]EdabitProver, len(edabits))
	for i, e := range edabits {
		bits := make([]mac.MacProverF2, len(e.Bits))
		copy(bits, e.Bits)
		out[i] = EdabitProver{Bits: bits, Value: e.Value}
	}
	return out
}

// CloneEdabitsVerifier is CloneEdabitsProver's Verifier-side counterpart.
func CloneEdabitsVerifier(edabits []EdabitVerifier) []EdabitVerifier {
	out := make([]EdabitVerifier, len(edabits))
	for i, e := range edabits {
		bits := make([]mac.MacVerifierF2, len(e.Bits))
		copy(bits, e.Bits)
		out[i] = EdabitVerifier{Bits: bits, Value: e.Value}
	}
	return out
}

// DabitProver is the Prover's half of a dabit (§3): a bit authenticated
// both in F2 and, lifted, in F_p.
type DabitProver struct {
	Bit   mac.MacProverF2
	Value mac.MacProverFp
}

// DabitVerifier is the Verifier's half of a dabit.
type DabitVerifier struct {
	Bit   mac.MacVerifierF2
	Value mac.MacVerifierFp
}
