// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package iscc

import (
	"errors"
	"fmt"
	"io"

	"github.com/codelabel/isccd/internal/mediatype"
)

// ErrUnsupportedMediaType is returned when no content code can be
// derived from the raw stream. Audio and video need externally
// extracted features (chromaprint, frame signatures) and cannot be
// fingerprinted from container bytes.
var ErrUnsupportedMediaType = errors.New("iscc: unsupported media type for content code")

// Result is a full composite ISCC with its components and provenance.
type Result struct {
	ISCC         string `json:"iscc"`
	MetaID       string `json:"meta_id"`
	ContentID    string `json:"content_id"`
	DataID       string `json:"data_id"`
	InstanceID   string `json:"instance_id"`
	GMT          string `json:"gmt"`
	Tophash      string `json:"tophash"`
	TitleTrimmed string `json:"title_trimmed"`
	ExtraTrimmed string `json:"extra_trimmed"`
	MediaType    string `json:"media_type"`
	Bytes        int64  `json:"bytes"`
}

// CodeISCC generates the full composite ISCC for a seekable stream.
// The stream is read three times: media type detection plus content
// code, Data-ID, and Instance-ID each consume one pass.
func CodeISCC(rs io.ReadSeeker, title, extra string) (*Result, error) {
	mt, err := mediatype.Detect(rs)
	if err != nil {
		return nil, fmt.Errorf("detect media type: %w", err)
	}

	meta := MetaID(title, extra)

	contentID, err := contentCode(rs, mt)
	if err != nil {
		return nil, err
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind stream: %w", err)
	}
	dataID, err := DataID(rs)
	if err != nil {
		return nil, err
	}

	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("measure stream: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind stream: %w", err)
	}
	instance, err := InstanceID(rs)
	if err != nil {
		return nil, err
	}

	return &Result{
		ISCC:         JoinComponents(meta.Code, contentID, dataID, instance.Code),
		MetaID:       meta.Code,
		ContentID:    contentID,
		DataID:       dataID,
		InstanceID:   instance.Code,
		GMT:          mt.GMT.String(),
		Tophash:      instance.Tophash,
		TitleTrimmed: meta.TitleTrimmed,
		ExtraTrimmed: meta.ExtraTrimmed,
		MediaType:    mt.MIME,
		Bytes:        size,
	}, nil
}

// contentCode selects and computes the media-type specific content code.
func contentCode(rs io.ReadSeeker, mt mediatype.Info) (string, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind stream: %w", err)
	}

	switch mt.GMT {
	case mediatype.GMTText:
		raw, err := io.ReadAll(rs)
		if err != nil {
			return "", fmt.Errorf("read text stream: %w", err)
		}
		return ContentIDText(string(raw), false), nil

	case mediatype.GMTImage:
		return ContentIDImage(rs, false)

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt.MIME)
	}
}
