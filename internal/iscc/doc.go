// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

// Package iscc implements ISCC component code generation.
//
// An ISCC (International Standard Content Code) identifies digital
// content through four 13-character components:
//
//   - Meta-ID: similarity hash over normalized title/extra metadata
//   - Content-ID: perceptual hash of the extracted content, with
//     media-type specific variants for text, image, audio and video
//   - Data-ID: minhash over content-defined chunks of the raw bytes
//   - Instance-ID: merkle tree checksum of the exact byte stream
//
// Components are encoded with a base58 variant whose first two symbols
// carry the component header, so the code type is visible in the code
// itself. All hashing tables (minhash permutations, gear table, WTA
// pairs) are derived deterministically from SHA-256, which makes codes
// reproducible across builds and platforms.
package iscc
