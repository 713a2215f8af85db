package domain

import (
	"github.com/google/uuid"
)

// NormalizedKey is the join key the resolver buckets records under.
// Root and POS are empty strings when the source did not declare them.
type NormalizedKey struct {
	SearchKey string
	Root      string
	POS       string
}

// RelaxedKey drops the POS component, used for the two-key fallback match.
func (k NormalizedKey) RelaxedKey() NormalizedKey {
	return NormalizedKey{SearchKey: k.SearchKey, Root: k.Root}
}

// CanonicalEntry is the merged unit of truth for one lemma.
//
// The entry is produced whole by the merge engine and replaced atomically;
// it carries no mutable sub-state. Every non-null scalar field and every
// collection element has at least one active provenance row attesting it.
type CanonicalEntry struct {
	// EntryID is assigned at first bucket creation and never reused.
	EntryID uuid.UUID
	// Seq is the first-seen allocation sequence. It is a total order over
	// normalized keys and is stable across re-runs.
	Seq uint64

	Lemma     string
	LemmaNorm string
	Root      *string
	POS       *PartOfSpeech

	// Senses keep stable insertion order, not alphabetical.
	Senses          []Sense
	Relations       []Relation
	Pronunciations  []Pronunciation
	DialectVariants []DialectVariant
	Inflections     []Inflection

	Quality Quality
}

// SearchHit is one prefix-search result from the search-key index.
type SearchHit struct {
	EntryID   uuid.UUID
	Lemma     string
	LemmaNorm string
}

// Sense is one distinct meaning of an entry.
type Sense struct {
	GlossEN    string
	GlossAR    string
	SynonymsAR []string
	Confidence float64
}

// Relation is a semantic edge toward another canonical entry.
// Stored as a (kind, target id) pair, resolved by lookup rather than an
// in-memory back-reference, so relation rings cannot form cycles here.
type Relation struct {
	Kind          RelationKind
	TargetEntryID uuid.UUID
	Confidence    float64
}

// Pronunciation is one (scheme, transcription) pair.
type Pronunciation struct {
	Scheme        TranscriptionScheme
	Transcription string
	Confidence    float64
}

// DialectVariant is one (dialect, variant surface) pair.
type DialectVariant struct {
	DialectID      string
	VariantSurface string
	Confidence     float64
}

// Inflection is one inflected form of the lemma.
type Inflection struct {
	Feature    string
	Surface    string
	Confidence float64
}

// Quality aggregates merge outcome metadata for the entry.
type Quality struct {
	// Confidence is the mean confidence over the entry's active provenance.
	Confidence float64
	// Reviewed is flipped only by an explicit human action outside the
	// merge engine; the engine preserves whatever value it is handed.
	Reviewed bool
	// SourceCount is the number of distinct sources touching any field.
	SourceCount int
	// Incomplete marks an entry whose mandatory lemma field had no
	// candidate. Such entries are surfaced, not blocked on.
	Incomplete bool
}
