package canonical

import (
	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// payloadDoc is the jsonb shape of the entry's collection fields. The
// domain types carry no serialization tags, so the mapping lives here,
// next to the only place the document form exists.
type payloadDoc struct {
	Senses          []senseDoc          `json:"senses,omitempty"`
	Relations       []relationDoc       `json:"relations,omitempty"`
	Pronunciations  []pronunciationDoc  `json:"pronunciations,omitempty"`
	DialectVariants []dialectVariantDoc `json:"dialect_variants,omitempty"`
	Inflections     []inflectionDoc     `json:"inflections,omitempty"`
}

type senseDoc struct {
	GlossEN    string   `json:"gloss_en,omitempty"`
	GlossAR    string   `json:"gloss_ar,omitempty"`
	SynonymsAR []string `json:"synonyms_ar,omitempty"`
	Confidence float64  `json:"confidence"`
}

type relationDoc struct {
	Kind       string  `json:"kind"`
	TargetID   string  `json:"target_id"`
	Confidence float64 `json:"confidence"`
}

type pronunciationDoc struct {
	Scheme        string  `json:"scheme"`
	Transcription string  `json:"transcription"`
	Confidence    float64 `json:"confidence"`
}

type dialectVariantDoc struct {
	DialectID      string  `json:"dialect_id"`
	VariantSurface string  `json:"variant_surface"`
	Confidence     float64 `json:"confidence"`
}

type inflectionDoc struct {
	Feature    string  `json:"feature"`
	Surface    string  `json:"surface"`
	Confidence float64 `json:"confidence"`
}

func toPayloadDoc(e domain.CanonicalEntry) payloadDoc {
	var doc payloadDoc
	for _, s := range e.Senses {
		doc.Senses = append(doc.Senses, senseDoc{
			GlossEN:    s.GlossEN,
			GlossAR:    s.GlossAR,
			SynonymsAR: s.SynonymsAR,
			Confidence: s.Confidence,
		})
	}
	for _, r := range e.Relations {
		doc.Relations = append(doc.Relations, relationDoc{
			Kind:       string(r.Kind),
			TargetID:   r.TargetEntryID.String(),
			Confidence: r.Confidence,
		})
	}
	for _, p := range e.Pronunciations {
		doc.Pronunciations = append(doc.Pronunciations, pronunciationDoc{
			Scheme:        string(p.Scheme),
			Transcription: p.Transcription,
			Confidence:    p.Confidence,
		})
	}
	for _, d := range e.DialectVariants {
		doc.DialectVariants = append(doc.DialectVariants, dialectVariantDoc{
			DialectID:      d.DialectID,
			VariantSurface: d.VariantSurface,
			Confidence:     d.Confidence,
		})
	}
	for _, f := range e.Inflections {
		doc.Inflections = append(doc.Inflections, inflectionDoc{
			Feature:    f.Feature,
			Surface:    f.Surface,
			Confidence: f.Confidence,
		})
	}
	return doc
}

func (doc payloadDoc) apply(e *domain.CanonicalEntry) {
	for _, s := range doc.Senses {
		e.Senses = append(e.Senses, domain.Sense{
			GlossEN:    s.GlossEN,
			GlossAR:    s.GlossAR,
			SynonymsAR: s.SynonymsAR,
			Confidence: s.Confidence,
		})
	}
	for _, r := range doc.Relations {
		rel := domain.Relation{
			Kind:       domain.RelationKind(r.Kind),
			Confidence: r.Confidence,
		}
		rel.TargetEntryID, _ = uuid.Parse(r.TargetID)
		e.Relations = append(e.Relations, rel)
	}
	for _, p := range doc.Pronunciations {
		e.Pronunciations = append(e.Pronunciations, domain.Pronunciation{
			Scheme:        domain.TranscriptionScheme(p.Scheme),
			Transcription: p.Transcription,
			Confidence:    p.Confidence,
		})
	}
	for _, d := range doc.DialectVariants {
		e.DialectVariants = append(e.DialectVariants, domain.DialectVariant{
			DialectID:      d.DialectID,
			VariantSurface: d.VariantSurface,
			Confidence:     d.Confidence,
		})
	}
	for _, f := range doc.Inflections {
		e.Inflections = append(e.Inflections, domain.Inflection{
			Feature:    f.Feature,
			Surface:    f.Surface,
			Confidence: f.Confidence,
		})
	}
}
