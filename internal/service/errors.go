// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/internal/validators"
)

// Kind classifies a failure of a single-document or write operation. Callers
// switch on the kind, never on the message text.
type Kind string

const (
	// KindNetwork: the store could not be reached or the write failed.
	KindNetwork Kind = "network"
	// KindNotFound: the addressed document does not exist.
	KindNotFound Kind = "not_found"
	// KindAuth: the store denied the operation.
	KindAuth Kind = "auth"
	// KindConfig: no store is configured.
	KindConfig Kind = "config"
	// KindInvalid: the input was rejected before reaching the store.
	KindInvalid Kind = "invalid"
)

// Sentinels matching every *Error of the same kind with errors.Is.
var (
	ErrNetwork  = errors.New("network error")
	ErrNotFound = errors.New("not found")
	ErrAuth     = errors.New("permission denied")
	ErrConfig   = errors.New("document store is not configured")
	ErrInvalid  = errors.New("invalid input")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

var kindSentinels = map[Kind]error{
	KindNetwork:  ErrNetwork,
	KindNotFound: ErrNotFound,
	KindAuth:     ErrAuth,
	KindConfig:   ErrConfig,
	KindInvalid:  ErrInvalid,
}

// Error is the typed failure surfaced by the document, subscription and
// banking services.
type Error struct {
	Kind       Kind
	Op         string
	Collection string
	ID         string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Collection != "" {
		b.WriteString(" ")
		b.WriteString(e.Collection)
		if e.ID != "" {
			b.WriteString("/")
			b.WriteString(e.ID)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinel, so errors.Is(err, ErrNotFound) holds for
// every not-found *Error.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// newError wraps err, classifying store and validation failures.
func newError(op, collection, id string, err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	kind, message := classify(err)
	return &Error{
		Kind:       kind,
		Op:         op,
		Collection: collection,
		ID:         id,
		Message:    message,
		Err:        err,
	}
}

func classify(err error) (Kind, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound, "document not found"
	case errors.Is(err, store.ErrPermissionDenied):
		return KindAuth, "you do not have permission to access this data"
	case errors.Is(err, store.ErrNotConfigured):
		return KindConfig, "the data store is not configured"
	case errors.Is(err, store.ErrInvalidQuery), isValidationError(err):
		return KindInvalid, "the request is invalid"
	default:
		return KindNetwork, "the data store could not be reached"
	}
}

var validationErrors = []error{
	validators.ErrInvalidCollection,
	validators.ErrInvalidDocumentID,
	validators.ErrReservedField,
	validators.ErrEmptyFieldName,
	validators.ErrNoFieldsToUpdate,
	validators.ErrEmptyWrites,
	validators.ErrTooManyWrites,
	validators.ErrInvalidWriteKind,
	validators.ErrInvalidConstraints,
	validators.ErrUnsupportedType,
	validators.ErrUnknownField,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
