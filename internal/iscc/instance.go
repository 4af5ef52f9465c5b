// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
)

// instanceLeafSize is the merkle tree leaf width for Instance-ID
// generation.
const instanceLeafSize = 64 * 1024

// Domain separation prefixes for leaf and inner node hashing.
var (
	leafPrefix = []byte{0x00}
	nodePrefix = []byte{0x01}
)

// InstanceResult is the outcome of Instance-ID generation. Tophash is
// the full merkle root, usable as an exact-match checksum.
type InstanceResult struct {
	Code    string
	Tophash string
}

// InstanceID generates the Instance-ID component: a prefixed double
// SHA-256 merkle tree over 64 KiB leaves. The code carries the first
// 8 bytes of the root, the hex tophash the full 32.
func InstanceID(r io.Reader) (InstanceResult, error) {
	var leaves [][]byte

	buf := make([]byte, instanceLeafSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			leaves = append(leaves, doubleSHA256(leafPrefix, buf[:n]))
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return InstanceResult{}, fmt.Errorf("read stream: %w", err)
		}
	}

	if len(leaves) == 0 {
		leaves = append(leaves, doubleSHA256(leafPrefix, nil))
	}

	root := merkleRoot(leaves)
	body := binary.BigEndian.Uint64(root[:8])

	return InstanceResult{
		Code:    encodeComponent(HeadIID, body),
		Tophash: hex.EncodeToString(root),
	}, nil
}

// merkleRoot folds leaf digests pairwise up to the root. An odd node at
// the end of a level is promoted unchanged.
func merkleRoot(level [][]byte) []byte {
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			combined := append(append([]byte{}, level[i]...), level[i+1]...)
			next = append(next, doubleSHA256(nodePrefix, combined))
		}
		level = next
	}
	return level[0]
}

// doubleSHA256 hashes prefix||data twice.
func doubleSHA256(prefix, data []byte) []byte {
	first := sha256.New()
	first.Write(prefix)
	first.Write(data)
	inner := first.Sum(nil)
	outer := sha256.Sum256(inner)
	return outer[:]
}
