// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"encoding/binary"
	"errors"
)

// ErrNoFeatures is returned when a content code is requested for an
// empty feature vector.
var ErrNoFeatures = errors.New("iscc: empty feature vector")

// ContentIDAudio generates the Content-ID-Audio component from a
// chromaprint-style vector of signed 32-bit chroma features. Feature
// extraction itself happens outside the service (fpcalc), matching the
// reference pipeline.
func ContentIDAudio(features []int32, partial bool) (string, error) {
	if len(features) == 0 {
		return "", ErrNoFeatures
	}

	// Overlapping feature pairs become 8-byte digests so the majority
	// vote sees local ordering, not just the global bit distribution.
	digests := make([][]byte, 0, len(features))
	for i := 0; i < len(features); i++ {
		next := features[(i+1)%len(features)]
		d := make([]byte, 8)
		binary.BigEndian.PutUint32(d[0:4], uint32(features[i]))
		binary.BigEndian.PutUint32(d[4:8], uint32(next))
		digests = append(digests, d)
	}

	simhash := similarityHash(digests)
	body := binary.BigEndian.Uint64(simhash[:8])
	return encodeComponent(contentHead(HeadCIDAudio, HeadCIDAudP, partial), body), nil
}
