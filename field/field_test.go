// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestF2Arithmetic(t *testing.T) {
	assert.Equal(t, One2, Zero2.Add(One2))
	assert.Equal(t, Zero2, One2.Add(One2))
	assert.Equal(t, One2, One2.Mul(One2))
	assert.Equal(t, Zero2, One2.Mul(Zero2))
	assert.True(t, Zero2.IsZero())
	assert.False(t, One2.IsZero())
	assert.Equal(t, One2, F2FromByte(One2.Byte()))
}

func TestF40bMulDistributesOverAdd(t *testing.T) {
	a, err := RandomF40b()
	require.NoError(t, err)
	b, err := RandomF40b()
	require.NoError(t, err)
	c, err := RandomF40b()
	require.NoError(t, err)

	lhs := a.Mul(b.Add(c))
	rhs := a.Mul(b).Add(a.Mul(c))
	assert.Equal(t, lhs, rhs)
}

func TestF40bConditionalSelect(t *testing.T) {
	a, err := RandomF40b()
	require.NoError(t, err)
	b, err := RandomF40b()
	require.NoError(t, err)

	assert.Equal(t, a, a.ConditionalSelect(b, Zero2))
	assert.Equal(t, b, a.ConditionalSelect(b, One2))
}

func TestF40bSerializationRoundTrips(t *testing.T) {
	a, err := RandomF40b()
	require.NoError(t, err)
	assert.Equal(t, a, F40bFromBytes(a.Bytes()))
}

func TestFpArithmeticAndFold(t *testing.T) {
	a, err := RandomFp()
	require.NoError(t, err)
	b, err := RandomFp()
	require.NoError(t, err)

	assert.True(t, a.Sub(a).IsZero())
	assert.Equal(t, a.Add(b), b.Add(a))

	bits := []F2{One2, Zero2, One2, One2} // LSB first: 1 + 4 + 8 = 13
	assert.True(t, FoldBits(bits).Equal(Pow2(0).Add(Pow2(2)).Add(Pow2(3))))
}

func TestFpConditionalSelect(t *testing.T) {
	a, err := RandomFp()
	require.NoError(t, err)
	b, err := RandomFp()
	require.NoError(t, err)

	assert.True(t, a.ConditionalSelect(b, Zero2).Equal(a))
	assert.True(t, a.ConditionalSelect(b, One2).Equal(b))
}

func TestFpSerializationRoundTrips(t *testing.T) {
	a, err := RandomFp()
	require.NoError(t, err)
	b, err := FpFromBytes(a.Bytes())
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestFpBitAt(t *testing.T) {
	thirteen := Pow2(0).Add(Pow2(2)).Add(Pow2(3))
	assert.Equal(t, One2, thirteen.BitAt(0))
	assert.Equal(t, Zero2, thirteen.BitAt(1))
	assert.Equal(t, One2, thirteen.BitAt(2))
	assert.Equal(t, One2, thirteen.BitAt(3))
}
