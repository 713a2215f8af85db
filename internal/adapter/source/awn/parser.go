// Package awn parses Arabic WordNet JSON exports into source records:
// sense claims with bilingual glosses plus semantic relation claims.
package awn

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// SourceID is the provenance identifier for all records this parser emits.
const SourceID = "awn"

const sourceConfidence = 0.75

// Stats summarizes one parse run.
type Stats struct {
	Items     int
	Records   int
	Malformed int
}

// item is one lemma entry in the export. The export is either a bare JSON
// array of items or an object with an "items" array.
type item struct {
	Lemma   string   `json:"lemma"`
	POS     string   `json:"pos"`
	Root    string   `json:"root"`
	GlossEN string   `json:"gloss_en"`
	GlossAR string   `json:"gloss_ar"`
	Synonym []string `json:"synonyms"`

	Relations []struct {
		Type   string `json:"type"`
		Target string `json:"target"`
	} `json:"relations"`
}

// Parse reads an AWN JSON export and returns the flattened source records.
func Parse(path string) ([]domain.SourceRecord, Stats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read awn file: %w", err)
	}

	var items []item
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapper struct {
			Items []item `json:"items"`
		}
		if err2 := json.Unmarshal(raw, &wrapper); err2 != nil {
			return nil, Stats{}, fmt.Errorf("decode awn export: %w", err)
		}
		items = wrapper.Items
	}

	var records []domain.SourceRecord
	stats := Stats{Items: len(items)}

	for _, it := range items {
		lemma := strings.TrimSpace(it.Lemma)
		if lemma == "" || !domain.ContainsArabicLetter(lemma) {
			stats.Malformed++
			continue
		}

		base := domain.SourceRecord{
			SourceID:         SourceID,
			SurfaceForm:      lemma,
			SourceConfidence: sourceConfidence,
		}
		if root := strings.TrimSpace(it.Root); root != "" {
			base.DeclaredRoot = &root
		}
		if pos, ok := mapPOS(it.POS); ok {
			base.DeclaredPOS = &pos
		}

		sense := base
		sense.RecordID = uuid.New()
		sense.Payload = domain.Payload{
			Kind: domain.PayloadSense,
			Sense: &domain.SenseClaim{
				GlossEN:    strings.TrimSpace(it.GlossEN),
				GlossAR:    strings.TrimSpace(it.GlossAR),
				SynonymsAR: cleanSynonyms(it.Synonym),
			},
		}
		records = append(records, sense)
		stats.Records++

		for _, rel := range it.Relations {
			kind, ok := mapRelation(rel.Type)
			target := strings.TrimSpace(rel.Target)
			if !ok || target == "" {
				stats.Malformed++
				continue
			}
			rec := base
			rec.RecordID = uuid.New()
			rec.Payload = domain.Payload{
				Kind:     domain.PayloadRelation,
				Relation: &domain.RelationClaim{Kind: kind, TargetSurface: target},
			}
			records = append(records, rec)
			stats.Records++
		}
	}

	return records, stats, nil
}

func cleanSynonyms(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// mapPOS covers the single-letter WordNet tags and their spelled-out forms.
func mapPOS(tag string) (domain.PartOfSpeech, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "n", "noun":
		return domain.PartOfSpeechNoun, true
	case "v", "verb":
		return domain.PartOfSpeechVerb, true
	case "a", "adj", "adjective":
		return domain.PartOfSpeechAdjective, true
	case "r", "adv", "adverb":
		return domain.PartOfSpeechAdverb, true
	}
	return "", false
}

func mapRelation(t string) (domain.RelationKind, bool) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "synonym":
		return domain.RelationSynonym, true
	case "antonym":
		return domain.RelationAntonym, true
	case "hypernym":
		return domain.RelationHypernym, true
	case "hyponym":
		return domain.RelationHyponym, true
	}
	return "", false
}
