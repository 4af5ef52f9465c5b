// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"io"
)

// Content-defined chunking parameters. The gear rolling hash cuts on a
// 10-bit mask, giving ~1 KiB average chunks bounded by min/max sizes.
const (
	chunkMin  = 256
	chunkAvg  = 1024
	chunkMax  = 8192
	chunkMask = chunkAvg - 1 // chunkAvg must stay a power of two
)

// gearTable maps every byte value to a 64-bit gear hash constant. The
// table is derived from SHA-256 so chunk boundaries are identical across
// builds and platforms.
var gearTable = func() [256]uint64 {
	var table [256]uint64
	for i := 0; i < 256; i++ {
		var seed [8]byte
		binary.BigEndian.PutUint64(seed[:], uint64(i))
		sum := sha256.Sum256(seed[:])
		table[i] = binary.BigEndian.Uint64(sum[:8])
	}
	return table
}()

// chunker splits a stream into content-defined chunks.
type chunker struct {
	r   *bufio.Reader
	buf []byte
}

func newChunker(r io.Reader) *chunker {
	return &chunker{
		r:   bufio.NewReaderSize(r, chunkMax),
		buf: make([]byte, 0, chunkMax),
	}
}

// Next returns the next chunk. The returned slice is only valid until
// the following call. io.EOF is returned together with the final chunk
// or on its own when the stream is exhausted.
func (c *chunker) Next() ([]byte, error) {
	c.buf = c.buf[:0]

	var gear uint64
	for {
		b, err := c.r.ReadByte()
		if err == io.EOF {
			return c.buf, io.EOF
		}
		if err != nil {
			return c.buf, err
		}

		c.buf = append(c.buf, b)
		gear = gear<<1 + gearTable[b]

		if len(c.buf) < chunkMin {
			continue
		}
		if gear&chunkMask == 0 || len(c.buf) >= chunkMax {
			return c.buf, nil
		}
	}
}
