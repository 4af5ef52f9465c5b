// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/codelabel/isccd/internal/iscc"
	"github.com/codelabel/isccd/internal/logging"
	"github.com/codelabel/isccd/internal/metrics"
)

// multipartMemoryLimit is the in-memory threshold before multipart
// parts spill to disk.
const multipartMemoryLimit = 32 << 20 // 32 MiB

// CodeResponse carries a single ISCC component code in its three
// representations: base58 string, 64-bit bitstring and integer ident.
type CodeResponse struct {
	Code  string `json:"code"`
	Bits  string `json:"bits"`
	Ident uint64 `json:"ident"`
}

// MetaIDResponse is the payload of POST /api/v1/generate/meta-id.
type MetaIDResponse struct {
	CodeResponse
	Title        string `json:"title"`
	TitleTrimmed string `json:"title_trimmed"`
	Extra        string `json:"extra"`
	ExtraTrimmed string `json:"extra_trimmed"`
}

// InstanceIDResponse is the payload of POST /api/v1/generate/instance-id.
// Tophash is the full merkle root for exact-match verification.
type InstanceIDResponse struct {
	CodeResponse
	Tophash string `json:"tophash"`
}

// codeResponse derives the bits and ident representations for a
// freshly generated component code.
func codeResponse(w http.ResponseWriter, r *http.Request, code string) (CodeResponse, bool) {
	bits, err := iscc.CodeBits(code)
	if err != nil {
		logging.Error().Err(err).Str("code", code).Msg("Failed to decode generated code")
		NewResponseWriter(w, r).InternalError("Failed to encode result")
		return CodeResponse{}, false
	}
	ident, err := iscc.CodeInt(code)
	if err != nil {
		logging.Error().Err(err).Str("code", code).Msg("Failed to decode generated code")
		NewResponseWriter(w, r).InternalError("Failed to encode result")
		return CodeResponse{}, false
	}
	return CodeResponse{Code: code, Bits: bits, Ident: ident}, true
}

// GenerateMetaID handles POST /api/v1/generate/meta-id.
func (h *Handler) GenerateMetaID(w http.ResponseWriter, r *http.Request) {
	var req MetaIDRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start := time.Now()
	meta := iscc.MetaID(req.Title, req.Extra)
	metrics.RecordCodeGenerated("meta", time.Since(start))

	code, ok := codeResponse(w, r, meta.Code)
	if !ok {
		return
	}
	WriteSuccess(w, r, MetaIDResponse{
		CodeResponse: code,
		Title:        req.Title,
		TitleTrimmed: meta.TitleTrimmed,
		Extra:        req.Extra,
		ExtraTrimmed: meta.ExtraTrimmed,
	})
}

// GenerateContentIDText handles POST /api/v1/generate/content-id-text.
func (h *Handler) GenerateContentIDText(w http.ResponseWriter, r *http.Request) {
	var req ContentIDTextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start := time.Now()
	code := iscc.ContentIDText(req.Text, req.Partial)
	metrics.RecordCodeGenerated("text", time.Since(start))

	resp, ok := codeResponse(w, r, code)
	if !ok {
		return
	}
	WriteSuccess(w, r, resp)
}

// GenerateContentIDImage handles POST /api/v1/generate/content-id-image.
// Expects a multipart upload with the image in the "file" part and an
// optional "partial" form value.
func (h *Handler) GenerateContentIDImage(w http.ResponseWriter, r *http.Request) {
	file, _, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	partial := r.FormValue("partial") == "true"

	start := time.Now()
	code, err := iscc.ContentIDImage(file, partial)
	if err != nil {
		metrics.RecordCodeError("image", "decode")
		NewResponseWriter(w, r).BadRequest("Cannot decode image: " + err.Error())
		return
	}
	metrics.RecordCodeGenerated("image", time.Since(start))

	resp, ok := codeResponse(w, r, code)
	if !ok {
		return
	}
	WriteSuccess(w, r, resp)
}

// GenerateContentIDAudio handles POST /api/v1/generate/content-id-audio.
func (h *Handler) GenerateContentIDAudio(w http.ResponseWriter, r *http.Request) {
	var req ContentIDAudioRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start := time.Now()
	code, err := iscc.ContentIDAudio(req.Features, req.Partial)
	if err != nil {
		metrics.RecordCodeError("audio", "other")
		NewResponseWriter(w, r).BadRequest("Invalid chroma features: " + err.Error())
		return
	}
	metrics.RecordCodeGenerated("audio", time.Since(start))

	resp, ok := codeResponse(w, r, code)
	if !ok {
		return
	}
	WriteSuccess(w, r, resp)
}

// GenerateContentIDVideo handles POST /api/v1/generate/content-id-video.
func (h *Handler) GenerateContentIDVideo(w http.ResponseWriter, r *http.Request) {
	var req ContentIDVideoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start := time.Now()
	code, err := iscc.ContentIDVideo(req.Signatures, req.Partial)
	if err != nil {
		metrics.RecordCodeError("video", "other")
		NewResponseWriter(w, r).BadRequest("Invalid frame signatures: " + err.Error())
		return
	}
	metrics.RecordCodeGenerated("video", time.Since(start))

	resp, ok := codeResponse(w, r, code)
	if !ok {
		return
	}
	WriteSuccess(w, r, resp)
}

// GenerateDataID handles POST /api/v1/generate/data-id.
func (h *Handler) GenerateDataID(w http.ResponseWriter, r *http.Request) {
	file, _, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	start := time.Now()
	code, err := iscc.DataID(file)
	if err != nil {
		metrics.RecordCodeError("data", "read")
		NewResponseWriter(w, r).InternalError("Failed to read upload")
		return
	}
	metrics.RecordCodeGenerated("data", time.Since(start))

	resp, ok := codeResponse(w, r, code)
	if !ok {
		return
	}
	WriteSuccess(w, r, resp)
}

// GenerateInstanceID handles POST /api/v1/generate/instance-id.
func (h *Handler) GenerateInstanceID(w http.ResponseWriter, r *http.Request) {
	file, _, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	start := time.Now()
	instance, err := iscc.InstanceID(file)
	if err != nil {
		metrics.RecordCodeError("instance", "read")
		NewResponseWriter(w, r).InternalError("Failed to read upload")
		return
	}
	metrics.RecordCodeGenerated("instance", time.Since(start))

	code, ok := codeResponse(w, r, instance.Code)
	if !ok {
		return
	}
	WriteSuccess(w, r, InstanceIDResponse{
		CodeResponse: code,
		Tophash:      instance.Tophash,
	})
}

// GenerateISCC handles POST /api/v1/generate/iscc: full composite code
// from a multipart upload with optional "title" and "extra" form
// values. Media type detection selects the content code; raw audio and
// video containers are rejected because their content codes need
// externally extracted features.
func (h *Handler) GenerateISCC(w http.ResponseWriter, r *http.Request) {
	file, _, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	extra := r.FormValue("extra")

	start := time.Now()
	result, err := iscc.CodeISCC(file, title, extra)
	if err != nil {
		if errors.Is(err, iscc.ErrUnsupportedMediaType) {
			metrics.RecordCodeError("iscc", "media_type")
			NewResponseWriter(w, r).UnsupportedMediaType(err.Error())
			return
		}
		metrics.RecordCodeError("iscc", "other")
		NewResponseWriter(w, r).BadRequest("Cannot generate ISCC: " + err.Error())
		return
	}
	metrics.RecordCodeGenerated("iscc", time.Since(start))

	WriteSuccess(w, r, result)
}

// openUpload parses the multipart form and returns the "file" part.
// The request body is capped at the configured upload size; rejections
// are answered and counted here so handlers just return on !ok.
func (h *Handler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	rw := NewResponseWriter(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Upload.MaxBytes)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.RecordUploadRejection("too_large")
			rw.PayloadTooLarge("Upload exceeds size limit")
			return nil, nil, false
		}
		metrics.RecordUploadRejection("malformed")
		rw.BadRequest("Invalid multipart form: " + err.Error())
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		metrics.RecordUploadRejection("missing_file")
		rw.BadRequest("Multipart field \"file\" is required")
		return nil, nil, false
	}

	metrics.RecordUpload(header.Size)
	return file, header, true
}
