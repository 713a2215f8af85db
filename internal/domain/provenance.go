package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// SourceManualOverride is the synthetic source ID recorded for operator
// force-merge / force-split actions.
const SourceManualOverride = "manual-override"

// ProvenanceRecord attests that one source contributed the value behind
// one field (or one element of a collection field) of a canonical entry.
//
// Records are append-only: a superseded row is flipped inactive, never
// deleted, in the same commit as the entry update that depended on it.
type ProvenanceRecord struct {
	EntryID uuid.UUID
	// FieldPath identifies the attested scalar or collection element,
	// e.g. "lemma", "pos", "senses[2].gloss_en".
	FieldPath        string
	SourceID         string
	ValueFingerprint string
	Confidence       float64

	Active bool
	// Seq orders rows within the entry's ledger; assigned at commit.
	Seq uint64
}

// ScalarFieldPath names a top-level scalar field.
func ScalarFieldPath(field string) string { return field }

// ElementFieldPath addresses element i of a collection field,
// optionally a sub-field of that element.
func ElementFieldPath(collection string, i int, sub string) string {
	if sub == "" {
		return fmt.Sprintf("%s[%d]", collection, i)
	}
	return fmt.Sprintf("%s[%d].%s", collection, i, sub)
}
