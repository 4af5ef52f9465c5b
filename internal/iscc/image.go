// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"fmt"
	"image"
	"io"
	"math"
	"sort"

	// Register decoders for the formats the service accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Image hashing parameters. The image is reduced to a 32x32 grayscale
// matrix, transformed with a 2-D DCT-II, and the 8x8 low-frequency
// block is thresholded against its median.
const (
	imageSampleSize = 32
	imageHashSize   = 8
)

// ContentIDImage generates the Content-ID-Image component from an
// encoded image stream (JPEG, PNG or GIF).
func ContentIDImage(r io.Reader, partial bool) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return contentIDImagePixels(img, partial), nil
}

// contentIDImagePixels hashes an already decoded image.
func contentIDImagePixels(img image.Image, partial bool) string {
	pixels := grayscaleSample(img)
	freq := dct2d(pixels)

	// Low frequency 8x8 block, DC coefficient excluded from the median
	// so flat images do not bias the threshold.
	coeffs := make([]float64, 0, imageHashSize*imageHashSize)
	for y := 0; y < imageHashSize; y++ {
		for x := 0; x < imageHashSize; x++ {
			coeffs = append(coeffs, freq[y][x])
		}
	}

	med := median(coeffs[1:])

	var body uint64
	for _, c := range coeffs {
		body <<= 1
		if c > med {
			body |= 1
		}
	}

	return encodeComponent(contentHead(HeadCIDImage, HeadCIDImgP, partial), body)
}

// grayscaleSample scales the image to 32x32 and converts it to a
// luminance matrix. Catmull-Rom keeps enough detail for stable hashes
// while smoothing resampling artifacts.
func grayscaleSample(img image.Image) [][]float64 {
	dst := image.NewGray(image.Rect(0, 0, imageSampleSize, imageSampleSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	pixels := make([][]float64, imageSampleSize)
	for y := 0; y < imageSampleSize; y++ {
		row := make([]float64, imageSampleSize)
		for x := 0; x < imageSampleSize; x++ {
			row[x] = float64(dst.GrayAt(x, y).Y)
		}
		pixels[y] = row
	}
	return pixels
}

// dct2d applies a separable 2-D DCT-II to a square matrix.
func dct2d(m [][]float64) [][]float64 {
	n := len(m)

	rows := make([][]float64, n)
	for i, row := range m {
		rows[i] = dct1d(row)
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	col := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = rows[y][x]
		}
		t := dct1d(col)
		for y := 0; y < n; y++ {
			out[y][x] = t[y]
		}
	}
	return out
}

// dct1d computes a DCT-II over a single vector.
func dct1d(v []float64) []float64 {
	n := len(v)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += v[i] * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*float64(k))
		}
		out[k] = sum
	}
	return out
}

// median returns the median of values without modifying the input.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
