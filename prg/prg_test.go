// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package prg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAesRngIsDeterministicPerSeed(t *testing.T) {
	var seed [SeedSize]byte
	for i := range seed {
		seed[i] = byte(i)
	}

	a, err := NewAesRng(seed)
	require.NoError(t, err)
	b, err := NewAesRng(seed)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		assert.Equal(t, a.NextBlock(), b.NextBlock())
	}
}

func TestShuffleIsIdenticalGivenSharedSeed(t *testing.T) {
	var seed [SeedSize]byte
	for i := range seed {
		seed[i] = byte(2 * i)
	}

	left := make([]int, 50)
	right := make([]int, 50)
	for i := range left {
		left[i], right[i] = i, i
	}

	leftRng, err := NewAesRng(seed)
	require.NoError(t, err)
	rightRng, err := NewAesRng(seed)
	require.NoError(t, err)

	Shuffle(leftRng, left)
	Shuffle(rightRng, right)

	assert.Equal(t, left, right)
	assert.ElementsMatch(t, left, right)
}

func TestShuffleEmptyAndSingleton(t *testing.T) {
	rng, err := NewAesRng([SeedSize]byte{})
	require.NoError(t, err)

	var empty []int
	assert.NotPanics(t, func() { Shuffle(rng, empty) })

	one := []int{7}
	Shuffle(rng, one)
	assert.Equal(t, []int{7}, one)
}
