// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package edabits

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordinox/edabits-core/channel"
	"github.com/ordinox/edabits-core/field"
	"github.com/ordinox/edabits-core/mac"
)

// testHarness wires a Prover and a Verifier over an in-memory net.Pipe,
// the Go analogue of the original's UnixStream::pair-backed channels.
type testHarness struct {
	prover   *Prover
	verifier *Verifier
	// closePipe closes both pipe ends, so a role still writing after its
	// peer has aborted gets an error instead of blocking forever.
	closePipe func()
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	a, b := net.Pipe()
	closePipe := func() { _ = a.Close(); _ = b.Close() }
	t.Cleanup(closePipe)

	keys, err := mac.NewSessionKeys()
	require.NoError(t, err)

	chP := channel.New(a, a)
	chV := channel.New(b, b)
	lpn := LpnParams{Rows: 1, Cols: 1}
	return &testHarness{
		prover:    NewProver(chP, keys, lpn, lpn),
		verifier:  NewVerifier(chV, keys, lpn, lpn),
		closePipe: closePipe,
	}
}

func TestBitAddCarry6Bit(t *testing.T) {
	h := newHarness(t)
	const power = 6

	// 110101 + 101110 = 1100011 (LSB first below)
	x := []field.F2{field.One2, field.Zero2, field.One2, field.Zero2, field.One2, field.One2}
	y := []field.F2{field.Zero2, field.One2, field.One2, field.One2, field.Zero2, field.One2}
	expected := []field.F2{field.One2, field.One2, field.Zero2, field.Zero2, field.Zero2, field.One2}
	expectedCarry := field.One2

	proverErr := make(chan error, 1)
	go func() {
		xMac, err := h.prover.fcomF2.Input(x)
		if err != nil {
			proverErr <- err
			return
		}
		yMac, err := h.prover.fcomF2.Input(y)
		if err != nil {
			proverErr <- err
			return
		}
		zero := mac.MacProverFp{}
		res, err := h.prover.BitAddCarry(
			[]EdabitProver{{Bits: xMac, Value: zero}},
			[]EdabitProver{{Bits: yMac, Value: zero}},
			nil,
		)
		if err != nil {
			proverErr <- err
			return
		}
		if _, err := h.prover.fcomF2.Open(res[0].Sum); err != nil {
			proverErr <- err
			return
		}
		_, err = h.prover.fcomF2.Open([]mac.MacProverF2{res[0].Carry})
		proverErr <- err
	}()

	xMac, err := h.verifier.fcomF2.Input(power)
	require.NoError(t, err)
	yMac, err := h.verifier.fcomF2.Input(power)
	require.NoError(t, err)
	zero := mac.MacVerifierFp{}
	res, err := h.verifier.BitAddCarry(
		[]EdabitVerifier{{Bits: xMac, Value: zero}},
		[]EdabitVerifier{{Bits: yMac, Value: zero}},
		nil,
	)
	require.NoError(t, err)

	sum, err := h.verifier.fcomF2.Open(res[0].Sum)
	require.NoError(t, err)
	carry, err := h.verifier.fcomF2.Open([]mac.MacVerifierF2{res[0].Carry})
	require.NoError(t, err)

	require.NoError(t, <-proverErr)
	assert.Equal(t, expected, sum)
	assert.Equal(t, expectedCarry, carry[0])
}

func TestFdabitAcceptsHonestDabits(t *testing.T) {
	h := newHarness(t)
	const count = 100

	proverErr := make(chan error, 1)
	go func() {
		dabits, err := h.prover.RandomDabits(count)
		if err != nil {
			proverErr <- err
			return
		}
		proverErr <- h.prover.Fdabit(dabits)
	}()

	dabits, err := h.verifier.RandomDabits(count)
	require.NoError(t, err)
	require.NoError(t, h.verifier.Fdabit(dabits))
	require.NoError(t, <-proverErr)
}

func TestConvQuicksilverAcceptsHonestEdabits(t *testing.T) {
	h := newHarness(t)
	const n = 4
	const nbBits = 8
	opts := ConvOptions{NumBucket: 2, NumCut: 3, WithQuicksilver: true}

	proverErr := make(chan error, 1)
	go func() {
		edabits, err := h.prover.RandomEdabits(nbBits, n)
		if err != nil {
			proverErr <- err
			return
		}
		proverErr <- h.prover.Conv(edabits, opts)
	}()

	edabits, err := h.verifier.RandomEdabits(nbBits, n)
	require.NoError(t, err)
	require.NoError(t, h.verifier.Conv(edabits, opts))
	require.NoError(t, <-proverErr)
}

func TestConvWolverineAcceptsHonestEdabits(t *testing.T) {
	h := newHarness(t)
	const n = 3
	const nbBits = 6
	opts := ConvOptions{NumBucket: 2, NumCut: 2, WithQuicksilver: false}

	proverErr := make(chan error, 1)
	go func() {
		edabits, err := h.prover.RandomEdabits(nbBits, n)
		if err != nil {
			proverErr <- err
			return
		}
		proverErr <- h.prover.Conv(edabits, opts)
	}()

	edabits, err := h.verifier.RandomEdabits(nbBits, n)
	require.NoError(t, err)
	require.NoError(t, h.verifier.Conv(edabits, opts))
	require.NoError(t, <-proverErr)
}

func TestCheckParametersRejectsOverflow(t *testing.T) {
	hugeGamma := field.ModulusBitLen()
	assert.Error(t, CheckParameters(100, hugeGamma))
	assert.NoError(t, CheckParameters(100, fdabitGamma(100)))
}

func TestLog2Floor(t *testing.T) {
	assert.Equal(t, 0, log2Floor(1))
	assert.Equal(t, 6, log2Floor(100))
	assert.Equal(t, 6, fdabitGamma(100)-1)
}

// TestFdabitRejectsTamperedDabit flips one dabit's F_p component after
// the honest pool is drawn, so its bit and value disagree; the Verifier's
// Fdabit must reject (§8, "Consistency of dabits").
func TestFdabitRejectsTamperedDabit(t *testing.T) {
	h := newHarness(t)
	const count = 100

	proverErr := make(chan error, 1)
	go func() {
		dabits, err := h.prover.RandomDabits(count)
		if err != nil {
			proverErr <- err
			return
		}
		// Flip dabit 0's Fp value clear text without touching its MAC tag:
		// the value no longer matches the bit, and its MAC no longer verifies.
		dabits[0].Value.V = dabits[0].Value.V.Add(field.FpOne())
		proverErr <- h.prover.Fdabit(dabits)
	}()

	dabits, err := h.verifier.RandomDabits(count)
	require.NoError(t, err)
	assert.Error(t, h.verifier.Fdabit(dabits))
	h.closePipe()
	<-proverErr
}

// TestConvertBit2FieldMatchesLift exercises the subroutine in isolation,
// matching the spec's "100 iterations" scenario: the opened carry bit
// must map through convert_bit_2_field to the same value lift(x) would
// produce directly.
func TestConvertBit2FieldMatchesLift(t *testing.T) {
	h := newHarness(t)
	const iterations = 100

	proverErr := make(chan error, 1)
	go func() {
		dabits, err := h.prover.RandomDabits(iterations)
		if err != nil {
			proverErr <- err
			return
		}
		bits := make([]field.F2, iterations)
		for i := range bits {
			b, err := field.RandomF2()
			if err != nil {
				proverErr <- err
				return
			}
			bits[i] = b
		}
		xMac, err := h.prover.fcomF2.Input(bits)
		if err != nil {
			proverErr <- err
			return
		}
		xM, err := h.prover.convertBit2Field(dabits, xMac)
		if err != nil {
			proverErr <- err
			return
		}
		opened, err := h.prover.fcom.Open(xM)
		if err != nil {
			proverErr <- err
			return
		}
		for i, b := range bits {
			if !opened[i].Equal(field.LiftF2ToFp(b)) {
				proverErr <- assert.AnError
				return
			}
		}
		proverErr <- nil
	}()

	dabits, err := h.verifier.RandomDabits(iterations)
	require.NoError(t, err)
	xMac, err := h.verifier.fcomF2.Input(iterations)
	require.NoError(t, err)
	xM, err := h.verifier.convertBit2Field(dabits, xMac)
	require.NoError(t, err)
	_, err = h.verifier.fcom.Open(xM)
	require.NoError(t, err)
	require.NoError(t, <-proverErr)
}

// TestConvRejectsCorruptedEdabit flips one bit of one caller-supplied
// edabit after it was committed, so its bits no longer fold to its
// committed value; Conv must reject (§8 scenario 5).
func TestConvRejectsCorruptedEdabit(t *testing.T) {
	h := newHarness(t)
	const n = 4
	const nbBits = 8
	opts := ConvOptions{NumBucket: 5, NumCut: 5, WithQuicksilver: true}

	proverErr := make(chan error, 1)
	go func() {
		edabits, err := h.prover.RandomEdabits(nbBits, n)
		if err != nil {
			proverErr <- err
			return
		}
		edabits[0].Bits[0].V = edabits[0].Bits[0].V.Add(field.One2)
		proverErr <- h.prover.Conv(edabits, opts)
	}()

	edabits, err := h.verifier.RandomEdabits(nbBits, n)
	require.NoError(t, err)
	assert.Error(t, h.verifier.Conv(edabits, opts))
	h.closePipe()
	<-proverErr
}

// TestConvRejectsTamperedCutOpening replays Conv's own cut-and-choose
// step (§4.H step 4) with one random edabit's Fp value re-committed, right
// before the open, as fold(bits)+1, so its opened bits no longer fold to
// its opened value while every MAC still verifies; the
// Verifier side must detect the mismatch exactly where Conv does
// (§8 scenario 6).
func TestConvRejectsTamperedCutOpening(t *testing.T) {
	h := newHarness(t)
	const nbBits = 4
	const numCut = 3

	proverErr := make(chan error, 1)
	go func() {
		r, err := h.prover.RandomEdabits(nbBits, numCut)
		if err != nil {
			proverErr <- err
			return
		}
		seed, err := h.prover.recvSeed()
		if err != nil {
			proverErr <- err
			return
		}
		_ = seed // neither side shuffles here, so both open r in the same order
		bad, err := h.prover.fcom.Input([]field.Fp{foldBitMacs(r[0].Bits).Add(field.FpOne())})
		if err != nil {
			proverErr <- err
			return
		}
		r[0].Value = bad[0]
		for _, a := range r {
			if _, err := h.prover.fcomF2.Open(a.Bits); err != nil {
				proverErr <- err
				return
			}
			if _, err := h.prover.fcom.Open([]mac.MacProverFp{a.Value}); err != nil {
				proverErr <- err
				return
			}
		}
		proverErr <- nil
	}()

	r, err := h.verifier.RandomEdabits(nbBits, numCut)
	require.NoError(t, err)
	_, err = h.verifier.sendSeed()
	require.NoError(t, err)
	bad, err := h.verifier.fcom.Input(1)
	require.NoError(t, err)
	r[0].Value = bad[0]

	sawMismatch := false
	for _, a := range r {
		bits, err := h.verifier.fcomF2.Open(a.Bits)
		require.NoError(t, err)
		values, err := h.verifier.fcom.Open([]mac.MacVerifierFp{a.Value})
		require.NoError(t, err)
		if !field.FoldBits(bits).Equal(values[0]) {
			sawMismatch = true
		}
	}
	assert.True(t, sawMismatch, "tampered cut edabit should fail fold_bits(bits) == value")
	require.NoError(t, <-proverErr)
}

// TestConvParallelFanoutAcceptsHonestEdabits exercises the auxiliary
// channel fan-out path (§4.H "Parallel fan-out"): each bucket runs over
// its own duplicated FCom pair and its own channel, joined via errgroup.
func TestConvParallelFanoutAcceptsHonestEdabits(t *testing.T) {
	h := newHarness(t)
	const n = 2
	const nbBits = 5
	const numBucket = 3

	proverChs := make([]*channel.Channel, numBucket)
	verifierChs := make([]*channel.Channel, numBucket)
	for i := 0; i < numBucket; i++ {
		a, b := net.Pipe()
		t.Cleanup(func() { _ = a.Close(); _ = b.Close() })
		proverChs[i] = channel.New(a, a)
		verifierChs[i] = channel.New(b, b)
	}

	opts := func(chs []*channel.Channel) ConvOptions {
		return ConvOptions{NumBucket: numBucket, NumCut: 2, WithQuicksilver: true, BucketChannels: chs}
	}

	proverErr := make(chan error, 1)
	go func() {
		edabits, err := h.prover.RandomEdabits(nbBits, n)
		if err != nil {
			proverErr <- err
			return
		}
		proverErr <- h.prover.Conv(edabits, opts(proverChs))
	}()

	edabits, err := h.verifier.RandomEdabits(nbBits, n)
	require.NoError(t, err)
	require.NoError(t, h.verifier.Conv(edabits, opts(verifierChs)))
	require.NoError(t, <-proverErr)
}
