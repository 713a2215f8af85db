package rest

import (
	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// entryDTO is the wire form of a canonical entry. Domain types carry no
// serialization tags; the JSON surface lives here.
type entryDTO struct {
	ID              string              `json:"id"`
	Seq             uint64              `json:"seq"`
	Lemma           string              `json:"lemma"`
	LemmaNorm       string              `json:"lemma_norm"`
	Root            *string             `json:"root,omitempty"`
	POS             *string             `json:"pos,omitempty"`
	Senses          []senseDTO          `json:"senses,omitempty"`
	Relations       []relationDTO       `json:"relations,omitempty"`
	Pronunciations  []pronunciationDTO  `json:"pronunciations,omitempty"`
	DialectVariants []dialectVariantDTO `json:"dialect_variants,omitempty"`
	Inflections     []inflectionDTO     `json:"inflections,omitempty"`
	Quality         qualityDTO          `json:"quality"`
}

type senseDTO struct {
	GlossEN    string   `json:"gloss_en,omitempty"`
	GlossAR    string   `json:"gloss_ar,omitempty"`
	SynonymsAR []string `json:"synonyms_ar,omitempty"`
	Confidence float64  `json:"confidence"`
}

type relationDTO struct {
	Kind          string  `json:"kind"`
	TargetEntryID string  `json:"target_entry_id"`
	Confidence    float64 `json:"confidence"`
}

type pronunciationDTO struct {
	Scheme        string  `json:"scheme"`
	Transcription string  `json:"transcription"`
	Confidence    float64 `json:"confidence"`
}

type dialectVariantDTO struct {
	DialectID      string  `json:"dialect_id"`
	VariantSurface string  `json:"variant_surface"`
	Confidence     float64 `json:"confidence"`
}

type inflectionDTO struct {
	Feature    string  `json:"feature"`
	Surface    string  `json:"surface"`
	Confidence float64 `json:"confidence"`
}

type qualityDTO struct {
	Confidence  float64 `json:"confidence"`
	Reviewed    bool    `json:"reviewed"`
	SourceCount int     `json:"source_count"`
	Incomplete  bool    `json:"incomplete"`
}

type provenanceDTO struct {
	Seq              uint64  `json:"seq"`
	FieldPath        string  `json:"field_path"`
	SourceID         string  `json:"source_id"`
	ValueFingerprint string  `json:"value_fingerprint"`
	Confidence       float64 `json:"confidence"`
	Active           bool    `json:"active"`
}

type searchHitDTO struct {
	ID        string `json:"id"`
	Lemma     string `json:"lemma"`
	LemmaNorm string `json:"lemma_norm"`
}

func toEntryDTO(e *domain.CanonicalEntry) entryDTO {
	dto := entryDTO{
		ID:        e.EntryID.String(),
		Seq:       e.Seq,
		Lemma:     e.Lemma,
		LemmaNorm: e.LemmaNorm,
		Root:      e.Root,
		Quality: qualityDTO{
			Confidence:  e.Quality.Confidence,
			Reviewed:    e.Quality.Reviewed,
			SourceCount: e.Quality.SourceCount,
			Incomplete:  e.Quality.Incomplete,
		},
	}
	if e.POS != nil {
		p := e.POS.String()
		dto.POS = &p
	}
	for _, s := range e.Senses {
		dto.Senses = append(dto.Senses, senseDTO{
			GlossEN:    s.GlossEN,
			GlossAR:    s.GlossAR,
			SynonymsAR: s.SynonymsAR,
			Confidence: s.Confidence,
		})
	}
	for _, rel := range e.Relations {
		dto.Relations = append(dto.Relations, relationDTO{
			Kind:          string(rel.Kind),
			TargetEntryID: rel.TargetEntryID.String(),
			Confidence:    rel.Confidence,
		})
	}
	for _, p := range e.Pronunciations {
		dto.Pronunciations = append(dto.Pronunciations, pronunciationDTO{
			Scheme:        string(p.Scheme),
			Transcription: p.Transcription,
			Confidence:    p.Confidence,
		})
	}
	for _, d := range e.DialectVariants {
		dto.DialectVariants = append(dto.DialectVariants, dialectVariantDTO{
			DialectID:      d.DialectID,
			VariantSurface: d.VariantSurface,
			Confidence:     d.Confidence,
		})
	}
	for _, f := range e.Inflections {
		dto.Inflections = append(dto.Inflections, inflectionDTO{
			Feature:    f.Feature,
			Surface:    f.Surface,
			Confidence: f.Confidence,
		})
	}
	return dto
}

func toProvenanceDTOs(rows []domain.ProvenanceRecord) []provenanceDTO {
	out := make([]provenanceDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, provenanceDTO{
			Seq:              r.Seq,
			FieldPath:        r.FieldPath,
			SourceID:         r.SourceID,
			ValueFingerprint: r.ValueFingerprint,
			Confidence:       r.Confidence,
			Active:           r.Active,
		})
	}
	return out
}

func toSearchHitDTOs(hits []domain.SearchHit) []searchHitDTO {
	out := make([]searchHitDTO, 0, len(hits))
	for _, h := range hits {
		out = append(out, searchHitDTO{
			ID:        h.EntryID.String(),
			Lemma:     h.Lemma,
			LemmaNorm: h.LemmaNorm,
		})
	}
	return out
}
