// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

// Package mediatype maps uploaded streams to the generic media types
// (GMT) that select the ISCC content code variant.
package mediatype

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// GMT is the generic media type of a content stream.
type GMT int

const (
	GMTUnknown GMT = iota
	GMTText
	GMTImage
	GMTAudio
	GMTVideo
)

// String returns the lowercase GMT name used in API responses.
func (g GMT) String() string {
	switch g {
	case GMTText:
		return "text"
	case GMTImage:
		return "image"
	case GMTAudio:
		return "audio"
	case GMTVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Info describes a detected stream.
type Info struct {
	GMT  GMT
	MIME string
}

// Detect sniffs the media type from the stream head and rewinds the
// stream for the caller.
func Detect(rs io.ReadSeeker) (Info, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Info{}, fmt.Errorf("rewind stream: %w", err)
	}

	mt, err := mimetype.DetectReader(rs)
	if err != nil {
		return Info{}, fmt.Errorf("sniff media type: %w", err)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Info{}, fmt.Errorf("rewind stream: %w", err)
	}

	return Info{GMT: fromMIME(mt.String()), MIME: mt.String()}, nil
}

// fromMIME maps a MIME type to its GMT. Structured text formats that
// mimetype reports with application/ prefixes still count as text.
func fromMIME(mime string) GMT {
	// Strip parameters like "; charset=utf-8".
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(mime)

	switch {
	case strings.HasPrefix(mime, "text/"):
		return GMTText
	case strings.HasPrefix(mime, "image/"):
		return GMTImage
	case strings.HasPrefix(mime, "audio/"):
		return GMTAudio
	case strings.HasPrefix(mime, "video/"):
		return GMTVideo
	}

	switch mime {
	case "application/json", "application/xml", "application/x-ndjson",
		"application/javascript", "application/x-sh":
		return GMTText
	}

	return GMTUnknown
}
