// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides chi's parameter extraction and the body decoding pattern so every
handler fails the same way on bad input.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/constants"
	"github.com/taibuivan/confkb/internal/platform/validate"
)

/*
DecodeJSON reads the request body (capped at [constants.MaxRequestBody]) and
decodes it into target.

Returns validate.ErrInvalidJSON if decoding fails.
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxRequestBody)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ID parses a positive integer URL parameter such as {id}.

A non-numeric or non-positive id is reported as not found, since no row can
match it.
*/
func ID(request *http.Request, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return id, nil
}

/*
QueryInt returns the integer query parameter key, or nil when absent.
*/
func QueryInt(request *http.Request, key string) (*int, error) {
	raw := request.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, validate.RequiredError(key, "Must be an integer")
	}
	return &n, nil
}

/*
QueryBool returns the boolean query parameter key, or nil when absent.
Accepts the forms understood by [strconv.ParseBool].
*/
func QueryBool(request *http.Request, key string) (*bool, error) {
	raw := request.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, validate.RequiredError(key, "Must be true or false")
	}
	return &b, nil
}
