// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// DataID generates the Data-ID component over the raw byte stream. The
// stream is split with content-defined chunking so that codes stay
// similar when bytes are inserted or removed, then the per-chunk hashes
// are reduced with a minhash.
func DataID(r io.Reader) (string, error) {
	chunker := newChunker(r)

	var features []uint32
	for {
		chunk, err := chunker.Next()
		if len(chunk) > 0 {
			features = append(features, uint32(xxhash.Sum64(chunk)))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("chunk data stream: %w", err)
		}
	}

	if len(features) == 0 {
		// Empty stream still gets a code: single feature over no bytes.
		features = append(features, uint32(xxhash.Sum64(nil)))
	}

	body := minimumHash(features)
	return encodeComponent(HeadDID, body), nil
}
