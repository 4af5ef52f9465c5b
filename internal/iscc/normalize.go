// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// textNormalize canonicalizes text before similarity hashing:
//
//  1. NFD decomposition
//  2. lowercasing
//  3. removal of control, format, surrogate, private-use and
//     unassigned code points; combining marks are dropped as well
//  4. whitespace handling: when keepWS is true runs of whitespace
//     collapse to a single space, otherwise whitespace is removed
//  5. NFC recomposition
//
// Normalization-equivalent inputs therefore produce identical hashes.
func textNormalize(text string, keepWS bool) string {
	decomposed := norm.NFD.String(text)

	var b strings.Builder
	b.Grow(len(decomposed))
	prevWS := true // leading whitespace is dropped
	for _, r := range decomposed {
		switch {
		case unicode.IsSpace(r):
			if keepWS && !prevWS {
				b.WriteRune(' ')
				prevWS = true
			}
		case unicode.In(r, unicode.Cc, unicode.Cf, unicode.Co, unicode.Cs, unicode.Mn, unicode.Me):
			// strip
		default:
			b.WriteRune(unicode.ToLower(r))
			prevWS = false
		}
	}

	return norm.NFC.String(strings.TrimRight(b.String(), " "))
}

// textTrim shortens text to at most maxBytes of UTF-8 without splitting
// a multi-byte sequence.
func textTrim(text string, maxBytes int) string {
	if len(text) <= maxBytes {
		return text
	}
	trimmed := text[:maxBytes]
	for len(trimmed) > 0 && !utf8ValidSuffix(trimmed) {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return trimmed
}

// utf8ValidSuffix reports whether s does not end in the middle of a
// UTF-8 sequence.
func utf8ValidSuffix(s string) bool {
	// Walk back over up to 3 continuation bytes.
	n := len(s)
	i := n - 1
	for i >= 0 && i >= n-4 && s[i]&0xC0 == 0x80 {
		i--
	}
	if i < 0 {
		return false
	}
	c := s[i]
	var want int
	switch {
	case c&0x80 == 0x00:
		want = 1
	case c&0xE0 == 0xC0:
		want = 2
	case c&0xF0 == 0xE0:
		want = 3
	case c&0xF8 == 0xF0:
		want = 4
	default:
		return false
	}
	return n-i == want
}
