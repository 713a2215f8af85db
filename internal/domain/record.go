package domain

import (
	"github.com/google/uuid"
)

// SourceRecord is one field-claim from one upstream source about one
// word-form. Records are immutable once produced by an adapter; the
// resolver assigns RecordID when the adapter leaves it zero.
type SourceRecord struct {
	RecordID     uuid.UUID
	SourceID     string
	SurfaceForm  string
	DeclaredRoot *string
	DeclaredPOS  *PartOfSpeech
	Payload      Payload

	// SourceConfidence is a source-level prior in [0,1], set per source by
	// configuration, not per record.
	SourceConfidence float64
}

// Payload is a closed tagged union over the record kinds a source may claim.
// Exactly one variant pointer is non-nil, matching Kind.
type Payload struct {
	Kind PayloadKind

	Sense          *SenseClaim
	Relation       *RelationClaim
	Pronunciation  *PronunciationClaim
	DialectVariant *DialectVariantClaim
	Inflection     *InflectionClaim
}

// SenseClaim is one meaning claimed for the word-form.
type SenseClaim struct {
	GlossEN    string
	GlossAR    string
	SynonymsAR []string
}

// RelationClaim is a semantic edge toward another surface form. The target
// is given as raw text; the merge engine resolves it to an entry ID.
type RelationClaim struct {
	Kind          RelationKind
	TargetSurface string
}

// PronunciationClaim is one transcription of the word-form.
type PronunciationClaim struct {
	Scheme        TranscriptionScheme
	Transcription string
}

// DialectVariantClaim is a regional variant of the word-form.
type DialectVariantClaim struct {
	DialectID      string
	VariantSurface string
}

// InflectionClaim is one inflected form of the lemma (plural, feminine,
// verb conjugation stem, ...).
type InflectionClaim struct {
	Feature string
	Surface string
}

// Validate checks structural consistency of the record: a known payload
// kind with its matching variant populated.
func (r SourceRecord) Validate() error {
	if r.SourceID == "" {
		return &MalformedRecordError{SourceID: r.SourceID, Reason: "empty source id"}
	}
	if !r.Payload.Kind.IsValid() {
		return &MalformedRecordError{SourceID: r.SourceID, Reason: "unknown payload kind"}
	}

	var ok bool
	switch r.Payload.Kind {
	case PayloadSense:
		ok = r.Payload.Sense != nil
	case PayloadRelation:
		ok = r.Payload.Relation != nil && r.Payload.Relation.Kind.IsValid()
	case PayloadPronunciation:
		ok = r.Payload.Pronunciation != nil && r.Payload.Pronunciation.Scheme.IsValid()
	case PayloadDialectVariant:
		ok = r.Payload.DialectVariant != nil
	case PayloadInflection:
		ok = r.Payload.Inflection != nil
	}
	if !ok {
		return &MalformedRecordError{SourceID: r.SourceID, Reason: "payload variant missing for kind " + r.Payload.Kind.String()}
	}
	return nil
}
