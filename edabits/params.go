// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package edabits

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/ordinox/edabits-core/field"
)

// log2Floor returns floor(log2(x)) for x > 0.
func log2Floor(x int) int {
	return bits.Len(uint(x)) - 1
}

// CheckParameters rejects (n, gamma) configurations (§4.B) where fdabit's
// statistical padding could wrap the prime modulus: a forged dabit could
// then slip through the cross-field check undetected.
func CheckParameters(n, gamma int) error {
	if log2Floor(n+1)+gamma >= field.ModulusBitLen()-1 {
		return errors.Errorf(
			"edabits: invalid fdabit parameters: n=%d, gamma=%d would overflow F_p's %d-bit modulus",
			n, gamma, field.ModulusBitLen(),
		)
	}
	return nil
}

// fdabitGamma computes gamma = floor(log2(n+1)) + 1, the number of
// statistical padding bits fdabit draws per repetition (§4.F).
func fdabitGamma(n int) int {
	return log2Floor(n+1) + 1
}
