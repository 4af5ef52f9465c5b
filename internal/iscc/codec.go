// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Component header bytes. The header byte is the first byte of every
// component digest and identifies the component type and, for content
// codes, the partial content flag (PCF).
const (
	HeadMID      byte = 0x00 // Meta-ID
	HeadCIDText  byte = 0x10 // Content-ID Text
	HeadCIDTextP byte = 0x11 // Content-ID Text, partial
	HeadCIDImage byte = 0x12 // Content-ID Image
	HeadCIDImgP  byte = 0x13 // Content-ID Image, partial
	HeadCIDAudio byte = 0x14 // Content-ID Audio
	HeadCIDAudP  byte = 0x15 // Content-ID Audio, partial
	HeadCIDVideo byte = 0x16 // Content-ID Video
	HeadCIDVidP  byte = 0x17 // Content-ID Video, partial
	HeadDID      byte = 0x20 // Data-ID
	HeadIID      byte = 0x30 // Instance-ID
)

// alphabet is the base58-iscc symbol table. It excludes the visually
// ambiguous characters 0, O, I and l, and places 'C' first so that
// Meta-ID codes (header 0x00) always start with "CC".
const alphabet = "C123456789abcdefghijkmnopqrstuvwxyzABDEFGHJKLMNPQRSTUVWXYZ"

// CodeLength is the length of an encoded ISCC component code:
// 2 symbols for the header byte plus 11 symbols for the 8 digest bytes.
const CodeLength = 13

const (
	headSymbols = 2
	bodySymbols = 11
	digestSize  = 9 // 1 header byte + 8 body bytes
)

var symbolIndex = func() map[byte]int {
	m := make(map[byte]int, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = i
	}
	return m
}()

// Encode converts a 9-byte component digest (header byte + 8 body bytes)
// to its 13-character base58-iscc representation. The header byte is
// encoded separately from the body so that the component type is always
// visible in the first two symbols.
func Encode(digest [digestSize]byte) string {
	var b strings.Builder
	b.Grow(CodeLength)

	// Header byte: value < 256 < 58^2, fixed two symbols.
	head := int(digest[0])
	b.WriteByte(alphabet[head/58])
	b.WriteByte(alphabet[head%58])

	// Body: 8 bytes as a big-endian integer in fixed 11 symbols.
	body := binary.BigEndian.Uint64(digest[1:])
	var sym [bodySymbols]byte
	for i := bodySymbols - 1; i >= 0; i-- {
		sym[i] = alphabet[body%58]
		body /= 58
	}
	b.Write(sym[:])

	return b.String()
}

// Decode converts a 13-character base58-iscc code back to its 9-byte
// digest. It returns an error for codes of the wrong length or with
// symbols outside the alphabet.
func Decode(code string) ([digestSize]byte, error) {
	var digest [digestSize]byte

	if len(code) != CodeLength {
		return digest, fmt.Errorf("invalid code length %d, want %d", len(code), CodeLength)
	}

	hi, ok1 := symbolIndex[code[0]]
	lo, ok2 := symbolIndex[code[1]]
	if !ok1 || !ok2 {
		return digest, fmt.Errorf("invalid symbol in code header %q", code[:headSymbols])
	}
	head := hi*58 + lo
	if head > 255 {
		return digest, fmt.Errorf("invalid code header value %d", head)
	}
	digest[0] = byte(head)

	var body uint64
	for i := headSymbols; i < CodeLength; i++ {
		idx, ok := symbolIndex[code[i]]
		if !ok {
			return digest, fmt.Errorf("invalid symbol %q at position %d", code[i], i)
		}
		body = body*58 + uint64(idx)
	}
	binary.BigEndian.PutUint64(digest[1:], body)

	return digest, nil
}

// CodeBits returns the 64-bit body of a component code as a binary
// string. The header byte is not part of the bitstring.
func CodeBits(code string) (string, error) {
	digest, err := Decode(code)
	if err != nil {
		return "", err
	}
	body := binary.BigEndian.Uint64(digest[1:])
	return fmt.Sprintf("%064b", body), nil
}

// CodeInt returns the 64-bit body of a component code as an unsigned
// integer identifier.
func CodeInt(code string) (uint64, error) {
	digest, err := Decode(code)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(digest[1:]), nil
}

// Header returns the header byte of a component code.
func Header(code string) (byte, error) {
	digest, err := Decode(code)
	if err != nil {
		return 0, err
	}
	return digest[0], nil
}

// encodeComponent assembles a component code from a header byte and an
// 8-byte body hash.
func encodeComponent(head byte, body uint64) string {
	var digest [digestSize]byte
	digest[0] = head
	binary.BigEndian.PutUint64(digest[1:], body)
	return Encode(digest)
}

// JoinComponents assembles the canonical composite ISCC from its four
// component codes, separated by dashes.
func JoinComponents(metaID, contentID, dataID, instanceID string) string {
	return strings.Join([]string{metaID, contentID, dataID, instanceID}, "-")
}

// contentHead selects the content code header for the given partial
// content flag.
func contentHead(full, partial byte, isPartial bool) byte {
	if isPartial {
		return partial
	}
	return full
}
