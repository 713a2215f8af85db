package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// ErrMalformedRecord marks a source record rejected at submission,
	// e.g. a surface form that normalizes to an empty search key.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrAmbiguousMatch marks a record whose relaxed key matches more than
	// one existing bucket. The record is quarantined, never silently merged.
	ErrAmbiguousMatch = errors.New("ambiguous bucket match")

	// ErrResolverInvariant marks a resolver bug surfacing at merge time,
	// e.g. an empty bucket. Fatal to that merge call only.
	ErrResolverInvariant = errors.New("resolver invariant violation")
)

// AmbiguousMatchError carries the candidate entry IDs an operator must
// choose between before the record can be resubmitted.
type AmbiguousMatchError struct {
	SearchKey  string
	Candidates []uuid.UUID
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous match for %q: %d candidate entries", e.SearchKey, len(e.Candidates))
}

func (e *AmbiguousMatchError) Unwrap() error { return ErrAmbiguousMatch }

// MalformedRecordError describes why a record was rejected at submission.
type MalformedRecordError struct {
	SourceID string
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record from %s: %s", e.SourceID, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }
