// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"crypto/sha256"
	"encoding/binary"
)

// Meta-ID parameters.
const (
	// metaTrimBytes caps title and extra at 128 bytes of UTF-8 each.
	metaTrimBytes = 128

	// metaNgramWidth is the character n-gram width for metadata hashing.
	metaNgramWidth = 4
)

// MetaResult is the outcome of Meta-ID generation. The trimmed inputs
// are returned so callers can see exactly which metadata was hashed.
type MetaResult struct {
	Code         string
	TitleTrimmed string
	ExtraTrimmed string
}

// MetaID generates the Meta-ID component from title and optional extra
// metadata. Both inputs are normalized and trimmed to 128 bytes; the
// similarity hash over 4-character n-grams makes codes stable under
// small spelling variations.
func MetaID(title, extra string) MetaResult {
	titleNorm := textTrim(textNormalize(title, true), metaTrimBytes)
	extraNorm := textTrim(textNormalize(extra, true), metaTrimBytes)

	combined := titleNorm
	if extraNorm != "" {
		combined = titleNorm + " " + extraNorm
	}

	digests := make([][]byte, 0, len(combined))
	for _, gram := range slidingWindow(combined, metaNgramWidth) {
		sum := sha256.Sum256([]byte(gram))
		digests = append(digests, sum[:])
	}

	simhash := similarityHash(digests)
	body := binary.BigEndian.Uint64(simhash[:8])

	return MetaResult{
		Code:         encodeComponent(HeadMID, body),
		TitleTrimmed: titleNorm,
		ExtraTrimmed: extraNorm,
	}
}
