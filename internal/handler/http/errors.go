// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced while decoding requests. Callers can match
// against them with [errors.Is].
var (
	// ErrInvalidJSON is returned when the request body is not valid JSON for
	// the endpoint.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrInvalidQueryParam is returned when a where, orderBy or limit query
	// parameter cannot be parsed.
	ErrInvalidQueryParam = errors.New("invalid query parameter")

	// ErrStreamingUnsupported is returned when the response writer cannot
	// flush, so no event stream can be served.
	ErrStreamingUnsupported = errors.New("streaming is not supported")

	// ErrResourceNotFound is returned when a read addresses a document that
	// does not exist.
	ErrResourceNotFound = errors.New("resource not found")
)
