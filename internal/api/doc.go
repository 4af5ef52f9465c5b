// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

/*
Package api implements the HTTP surface of isccd.

Routes are registered with the Chi router in SetupChi. All responses
use a common JSON envelope:

	{
	  "success": true,
	  "data": { ... },
	  "error": null,
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 2}
	}

# Endpoints

Synchronous generation (POST, /api/v1/generate):

	/meta-id           {title, extra}           -> Meta-ID
	/content-id-text   {text, partial}          -> Content-ID-Text
	/content-id-image  multipart "file"         -> Content-ID-Image
	/content-id-audio  {features, partial}      -> Content-ID-Audio
	/content-id-video  {signatures, partial}    -> Content-ID-Video
	/data-id           multipart "file"         -> Data-ID
	/instance-id       multipart "file"         -> Instance-ID + tophash
	/iscc              multipart "file" + form  -> full composite ISCC

Async URL ingest (/api/v1/tasks):

	POST   /           {url, title, extra} -> 202 {task_id}
	GET    /{id}       task record with state and result
	DELETE /{id}       remove a finished record

Health probes live under /api/v1/health, Prometheus metrics at
/metrics.

# Middleware

The global stack adds request IDs with logging context, real client
IPs and panic recovery, plus CORS for preflight handling. Route groups
add rate limiting (go-chi/httprate), security headers, Prometheus
instrumentation and the optional X-API-Key check.
*/
package api
