// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

// HTTP request bodies with go-playground/validator tags. Decoded with
// goccy/go-json and validated through the internal/validation
// singleton before any generation work runs.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/codelabel/isccd/internal/validation"
)

// maxJSONBodyBytes bounds JSON request bodies. Feature vectors for
// long videos are large but nowhere near this.
const maxJSONBodyBytes = 32 << 20 // 32 MiB

// MetaIDRequest is the body for POST /api/v1/generate/meta-id.
// An absent title is valid and hashes as the empty string.
type MetaIDRequest struct {
	Title string `json:"title" validate:"omitempty,max=4096"`
	Extra string `json:"extra" validate:"omitempty,max=4096"`
}

// ContentIDTextRequest is the body for POST /api/v1/generate/content-id-text.
type ContentIDTextRequest struct {
	Text    string `json:"text" validate:"required"`
	Partial bool   `json:"partial"`
}

// ContentIDAudioRequest is the body for POST /api/v1/generate/content-id-audio.
// Features are chromaprint-style signed 32-bit chroma vectors extracted
// by the caller (fpcalc or equivalent).
type ContentIDAudioRequest struct {
	Features []int32 `json:"features" validate:"required,min=1"`
	Partial  bool    `json:"partial"`
}

// ContentIDVideoRequest is the body for POST /api/v1/generate/content-id-video.
// Signatures are per-frame signature vectors (MPEG-7 style) extracted
// by the caller.
type ContentIDVideoRequest struct {
	Signatures [][]int64 `json:"signatures" validate:"required,min=1"`
	Partial    bool      `json:"partial"`
}

// TaskCreateRequest is the body for POST /api/v1/tasks.
type TaskCreateRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Title string `json:"title" validate:"omitempty,max=4096"`
	Extra string `json:"extra" validate:"omitempty,max=4096"`
}

// decodeAndValidate decodes the JSON request body into dst and runs
// struct validation. On failure it writes the error response and
// returns false; handlers just return.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	rw := NewResponseWriter(w, r)

	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			rw.PayloadTooLarge("Request body too large")
		case errors.Is(err, io.EOF):
			rw.BadRequest("Request body is required")
		default:
			rw.BadRequest("Invalid JSON body: " + err.Error())
		}
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
