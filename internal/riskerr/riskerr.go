// Package riskerr defines the error taxonomy shared across the screening
// pipeline: configuration failures, upstream adapter failures, lookup
// misses, reconciliation conflicts, and persistence failures.
package riskerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for logging and HTTP status mapping.
type Kind string

const (
	KindConfig          Kind = "config_error"
	KindAdapter         Kind = "adapter_error"
	KindLookupMiss      Kind = "lookup_miss"
	KindReconciliation  Kind = "reconciliation_conflict"
	KindPersistFailure  Kind = "persist_failure"
)

// Error is the taxonomy-tagged wrapper every package returns instead of
// ad-hoc errors.New calls, so the API layer can map Kind to an HTTP status
// without string matching.
type Error struct {
	Kind    Kind
	Op      string // component/operation that produced the error, e.g. "adapters.intelligencea.FetchCompliance"
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Config(op string, err error) *Error         { return New(KindConfig, op, err) }
func Adapter(op string, err error) *Error        { return New(KindAdapter, op, err) }
func LookupMiss(op string, err error) *Error     { return New(KindLookupMiss, op, err) }
func Reconciliation(op string, err error) *Error { return New(KindReconciliation, op, err) }
func Persist(op string, err error) *Error        { return New(KindPersistFailure, op, err) }

// Is reports whether err (or any error it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
