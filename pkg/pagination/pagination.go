// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses limit/offset windows for list endpoints.
//
// A list without 'limit' is unbounded. 'offset' only applies together with
// a limit, matching SQL's LIMIT ... OFFSET ordering.
package pagination

import (
	"net/http"
	"strconv"
)

// MaxLimit is the upper bound for a single page.
const MaxLimit = 200

// Params holds the parsed window. Limit 0 means "no limit".
type Params struct {
	Limit  int
	Offset int
}

// Bounded reports whether a LIMIT clause should be emitted.
func (p Params) Bounded() bool {
	return p.Limit > 0
}

// FromRequest parses "limit" and "offset" query parameters.
//
// Invalid or negative values are ignored. Limits above [MaxLimit] are clamped.
func FromRequest(r *http.Request) Params {
	limit := parseIntParam(r, "limit", 0)
	offset := parseIntParam(r, "offset", 0)

	if limit < 0 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 || limit == 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
