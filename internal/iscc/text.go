// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"github.com/cespare/xxhash/v2"
)

// textWindowWidth is the character window width for text feature
// extraction. Thirteen characters approximates two to three words and
// keeps codes stable under local edits.
const textWindowWidth = 13

// ContentIDText generates the Content-ID-Text component for extracted
// plain text. Set partial when the text covers only part of the work.
func ContentIDText(text string, partial bool) string {
	normalized := textNormalize(text, true)

	windows := slidingWindow(normalized, textWindowWidth)
	features := make([]uint32, len(windows))
	for i, w := range windows {
		features[i] = uint32(xxhash.Sum64String(w))
	}

	body := minimumHash(features)
	return encodeComponent(contentHead(HeadCIDText, HeadCIDTextP, partial), body)
}
