// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package logging

import (
	"net/url"
	"strings"
)

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "sk-live-4f8a2b91c3d7e605" -> "sk-l...e605"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeURL redacts credentials embedded in a URL before logging.
// Userinfo is replaced and known secret-bearing query parameters are
// masked; the host and path stay intact so operators can still tell
// which resource a task was fetching.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		// Unparseable input may still contain secrets; truncate hard.
		return truncateString(raw, 64)
	}

	if u.User != nil {
		u.User = url.User("***")
	}

	q := u.Query()
	changed := false
	for key := range q {
		if sensitiveParams[strings.ToLower(key)] {
			q.Set(key, "***")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}

	return u.String()
}

// sensitiveParams lists query parameter names that carry credentials
// in common pre-signed or token-authenticated download URLs.
var sensitiveParams = map[string]bool{
	"token":                true,
	"access_token":         true,
	"api_key":              true,
	"apikey":               true,
	"key":                  true,
	"secret":               true,
	"signature":            true,
	"sig":                  true,
	"x-amz-credential":     true,
	"x-amz-signature":      true,
	"x-amz-security-token": true,
}

// SanitizeError removes potentially sensitive information from error
// messages before they are logged or returned to clients.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"bearer",
		"authorization",
		"cookie",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "request error"
		}
	}

	return truncateString(err, 200)
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
