// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import "errors"

// videoHashBits is the output width of the video WTA hash.
const videoHashBits = 64

// ErrSignatureShape is returned when frame signatures have mismatched
// dimensions.
var ErrSignatureShape = errors.New("iscc: frame signatures must share one dimension")

// ContentIDVideo generates the Content-ID-Video component from per-frame
// signature vectors (MPEG-7 style). The vectors are summed element-wise
// and the aggregate is reduced with a winner-takes-all hash, so frame
// order does not influence the code but the overall visual profile does.
func ContentIDVideo(signatures [][]int64, partial bool) (string, error) {
	if len(signatures) == 0 || len(signatures[0]) < 2 {
		return "", ErrNoFeatures
	}

	dim := len(signatures[0])
	sum := make([]int64, dim)
	for _, sig := range signatures {
		if len(sig) != dim {
			return "", ErrSignatureShape
		}
		for i, v := range sig {
			sum[i] += v
		}
	}

	body := wtaHash(sum, videoHashBits)
	return encodeComponent(contentHead(HeadCIDVideo, HeadCIDVidP, partial), body), nil
}
