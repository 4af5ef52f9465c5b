// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"crypto/sha256"
	"encoding/binary"
)

// similarityHash computes a bitwise majority vote over a set of
// equal-length digests. For every bit position the result bit is set if
// the majority of input digests have it set. Ties round down.
func similarityHash(digests [][]byte) []byte {
	if len(digests) == 0 {
		return nil
	}

	size := len(digests[0])
	counts := make([]int, size*8)
	for _, d := range digests {
		for i := 0; i < size; i++ {
			for bit := 0; bit < 8; bit++ {
				if d[i]&(1<<(7-bit)) != 0 {
					counts[i*8+bit]++
				}
			}
		}
	}

	out := make([]byte, size)
	threshold := len(digests)
	for pos, c := range counts {
		if c*2 > threshold {
			out[pos/8] |= 1 << (7 - pos%8)
		}
	}
	return out
}

// Minhash parameters. 64 independent universal hash permutations over a
// Mersenne prime field produce one output bit each.
const (
	minhashPerms = 64
	mersennePrime = (uint64(1) << 61) - 1
	maxHash       = (uint64(1) << 32) - 1
)

// minhashCoeffs holds the (a, b) coefficients for the universal hash
// family h(x) = (a*x + b) mod p. The table is derived deterministically
// from SHA-256 so every build produces identical codes.
var minhashCoeffs = func() [minhashPerms][2]uint64 {
	var coeffs [minhashPerms][2]uint64
	for i := 0; i < minhashPerms; i++ {
		var seed [8]byte
		binary.BigEndian.PutUint64(seed[:], uint64(i))
		sum := sha256.Sum256(seed[:])
		a := binary.BigEndian.Uint64(sum[0:8])%(mersennePrime-1) + 1
		b := binary.BigEndian.Uint64(sum[8:16]) % mersennePrime
		coeffs[i] = [2]uint64{a, b}
	}
	return coeffs
}()

// minimumHash computes a 64-bit minhash signature over 32-bit features.
// Each of the 64 permutations contributes the least significant bit of
// its minimum hash value.
func minimumHash(features []uint32) uint64 {
	var out uint64
	for i := 0; i < minhashPerms; i++ {
		a, b := minhashCoeffs[i][0], minhashCoeffs[i][1]
		min := uint64(1<<64 - 1)
		for _, f := range features {
			h := (a*uint64(f) + b) % mersennePrime & maxHash
			if h < min {
				min = h
			}
		}
		out = out<<1 | min&1
	}
	return out
}

// wtaPairs holds the winner-takes-all index pairs used for video codes.
// Derived deterministically from SHA-256 over the vector dimension so
// the permutation table is stable across builds.
func wtaPairs(dim, bits int) [][2]int {
	pairs := make([][2]int, 0, bits)
	counter := uint64(0)
	for len(pairs) < bits {
		var seed [8]byte
		binary.BigEndian.PutUint64(seed[:], counter)
		sum := sha256.Sum256(seed[:])
		i := int(binary.BigEndian.Uint32(sum[0:4]) % uint32(dim))
		j := int(binary.BigEndian.Uint32(sum[4:8]) % uint32(dim))
		if i != j {
			pairs = append(pairs, [2]int{i, j})
		}
		counter++
	}
	return pairs
}

// wtaHash computes a winner-takes-all hash over a feature vector:
// for every index pair the output bit is set when the first component
// is larger than the second.
func wtaHash(vec []int64, bits int) uint64 {
	pairs := wtaPairs(len(vec), bits)
	var out uint64
	for _, p := range pairs {
		out <<= 1
		if vec[p[0]] > vec[p[1]] {
			out |= 1
		}
	}
	return out
}

// slidingWindow returns all windows of the given width over the runes of
// text. Texts shorter than the width yield a single window with the
// whole text.
func slidingWindow(text string, width int) []string {
	runes := []rune(text)
	if len(runes) <= width {
		return []string{string(runes)}
	}
	windows := make([]string, 0, len(runes)-width+1)
	for i := 0; i+width <= len(runes); i++ {
		windows = append(windows, string(runes[i:i+width]))
	}
	return windows
}
