// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package mac

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordinox/edabits-core/channel"
	"github.com/ordinox/edabits-core/field"
)

func pipeChannels(t *testing.T) (*channel.Channel, *channel.Channel) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { _ = a.Close(); _ = b.Close() })
	return channel.New(a, a), channel.New(b, b)
}

func TestFComF2OpenAccepts(t *testing.T) {
	corr, err := NewCorrelationF2()
	require.NoError(t, err)
	chP, chV := pipeChannels(t)
	p := NewFComF2Prover(chP, corr)
	v := NewFComF2Verifier(chV, corr)

	done := make(chan error, 1)
	go func() {
		macs, err := p.Random(5)
		if err != nil {
			done <- err
			return
		}
		_, err = p.Open(macs)
		done <- err
	}()

	macs, err := v.Random(5)
	require.NoError(t, err)
	values, err := v.Open(macs)
	require.NoError(t, err)
	assert.Len(t, values, 5)
	require.NoError(t, <-done)
}

func TestFComF2OpenRejectsTamperedKey(t *testing.T) {
	corr, err := NewCorrelationF2()
	require.NoError(t, err)
	chP, chV := pipeChannels(t)
	p := NewFComF2Prover(chP, corr)
	v := NewFComF2Verifier(chV, corr)

	done := make(chan error, 1)
	go func() {
		macs, err := p.Random(3)
		if err != nil {
			done <- err
			return
		}
		_, err = p.Open(macs)
		done <- err
	}()

	macs, err := v.Random(3)
	require.NoError(t, err)
	macs[0].Key = macs[0].Key.Add(field.OneF40b) // corrupt one key
	_, err = v.Open(macs)
	assert.Error(t, err)
	<-done
}

func TestFComF2QuicksilverCheckMultiplyDetectsBadTriple(t *testing.T) {
	corr, err := NewCorrelationF2()
	require.NoError(t, err)
	chP, chV := pipeChannels(t)
	p := NewFComF2Prover(chP, corr)
	v := NewFComF2Verifier(chV, corr)

	proverErr := make(chan error, 1)
	go func() {
		a, err := p.Input([]field.F2{field.One2})
		if err != nil {
			proverErr <- err
			return
		}
		b, err := p.Input([]field.F2{field.Zero2})
		if err != nil {
			proverErr <- err
			return
		}
		// claim c = 1*0 = 1, a lie
		c, err := p.Input([]field.F2{field.One2})
		if err != nil {
			proverErr <- err
			return
		}
		proverErr <- p.QuicksilverCheckMultiply([]TripleF2Prover{{A: a[0], B: b[0], C: c[0]}})
	}()

	a, err := v.Input(1)
	require.NoError(t, err)
	b, err := v.Input(1)
	require.NoError(t, err)
	c, err := v.Input(1)
	require.NoError(t, err)
	verifierErr := v.QuicksilverCheckMultiply([]TripleF2Verifier{{A: a[0], B: b[0], C: c[0]}})
	assert.Error(t, verifierErr)
	<-proverErr
}

func TestFComFpAffineOperationsPreserveMac(t *testing.T) {
	corr, err := NewCorrelationFp()
	require.NoError(t, err)
	chP, chV := pipeChannels(t)
	p := NewFComFpProver(chP, corr)
	v := NewFComFpVerifier(chV, corr)

	three := field.FpOne().Add(field.FpOne()).Add(field.FpOne())

	done := make(chan error, 1)
	go func() {
		macs, err := p.Input([]field.Fp{three})
		if err != nil {
			done <- err
			return
		}
		shifted := p.AffineMultCst(field.FpOne().Add(field.FpOne()), macs[0]) // 2*3 = 6
		_, err = p.Open([]MacProverFp{shifted})
		done <- err
	}()

	macs, err := v.Input(1)
	require.NoError(t, err)
	shifted := v.AffineMultCst(field.FpOne().Add(field.FpOne()), macs[0])
	values, err := v.Open([]MacVerifierFp{shifted})
	require.NoError(t, err)
	assert.True(t, values[0].Equal(three.Add(three)))
	require.NoError(t, <-done)
}
