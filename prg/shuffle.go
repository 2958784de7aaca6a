// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package prg

// Shuffle permutes v in place using Fisher-Yates, driven by rng. Given
// the same rng state on both roles, the resulting permutation is
// byte-for-byte identical — the property §4.C and the "shuffle
// determinism" testable property depend on.
func Shuffle[T any](rng *AesRng, v []T) {
	size := len(v)
	if size == 0 {
		return
	}
	for i := size - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		v[i], v[j] = v[j], v[i]
	}
}
