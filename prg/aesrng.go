// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package prg implements the jointly-seeded deterministic randomness the
// edabits core needs: an AES-CTR stream expanding a 128-bit seed (used
// both for fdabit's public challenge coefficients and for the
// cut-and-choose shuffle), plus the Fisher-Yates permutation itself.
//
// No third-party deterministic-DRBG package appears anywhere in the
// retrieval pack (the closest candidates, golang.org/x/crypto's stream
// ciphers, are keyed ciphers rather than seed-expanding DRBGs), so this
// is built directly on stdlib crypto/aes + crypto/cipher, the same
// primitives those packages are themselves built from.
package prg

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/ordinox/edabits-core/field"
)

// SeedSize is the width of the jointly-seeded block, matching the
// channel's 128-bit `read_block`/`write_block` primitive.
const SeedSize = 16

// AesRng is a deterministic byte stream keyed by a 128-bit seed: AES used
// in counter mode as a stream cipher over an all-zero plaintext.
type AesRng struct {
	stream cipher.Stream
}

// NewAesRng seeds a fresh deterministic generator. Both roles must call
// this with the same seed to derive identical streams.
func NewAesRng(seed [SeedSize]byte) (*AesRng, error) {
	block, err := aes.NewCipher(seed[:])
	if err != nil {
		return nil, fmt.Errorf("prg: keying AES-CTR: %w", err)
	}
	var iv [aes.BlockSize]byte
	return &AesRng{stream: cipher.NewCTR(block, iv[:])}, nil
}

// Read fills p with the next bytes of the keystream. It never errors.
func (r *AesRng) Read(p []byte) (int, error) {
	keystream := make([]byte, len(p))
	r.stream.XORKeyStream(keystream, keystream)
	copy(p, keystream)
	return len(p), nil
}

// NextBlock draws the next 128 bits of keystream.
func (r *AesRng) NextBlock() [SeedSize]byte {
	var b [SeedSize]byte
	_, _ = r.Read(b[:])
	return b
}

// NextF2 draws the next pseudorandom bit, used to expand fdabit's
// challenge matrix e[k][i] (§4.F step 3).
func (r *AesRng) NextF2() field.F2 {
	var b [1]byte
	_, _ = r.Read(b[:])
	return field.F2(b[0] & 1)
}

// Intn returns a pseudorandom integer in [0, n): the next 8 keystream
// bytes, read as a big-endian uint64, reduced modulo n; n must be > 0.
// Used only by Fisher-Yates, where n is small (a slice length), so the
// small modulo bias from this simple reduction is immaterial.
func (r *AesRng) Intn(n int) int {
	if n <= 0 {
		panic("prg: Intn requires n > 0")
	}
	var b [8]byte
	_, _ = r.Read(b[:])
	v := uint64(0)
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return int(v % uint64(n))
}
