package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
	"github.com/mh2des/arabic-dictionary-api/internal/resolver"
)

// Merge produces the canonical entry for one bucket plus one provenance
// row per (field path, source) pair touched by a decision.
//
// Merge is pure given the bucket contents, the engine configuration, and
// the target resolver state: re-merging an unchanged bucket yields
// byte-identical output. An empty bucket is a resolver bug, not a data
// problem, and fails only this merge call.
func (e *Engine) Merge(bucket resolver.BucketView) (Result, error) {
	if len(bucket.Records) == 0 {
		return Result{}, fmt.Errorf("merge entry %s: empty bucket: %w", bucket.EntryID, domain.ErrResolverInvariant)
	}

	records := e.sortedRecords(bucket.Records)

	entry := domain.CanonicalEntry{
		EntryID:   bucket.EntryID,
		Seq:       bucket.Seq,
		LemmaNorm: bucket.Key.SearchKey,
	}
	var rows []domain.ProvenanceRecord
	var decisionConfs []float64

	// Scalar fields: weighted vote per attribute, independently.
	lemma := e.voteScalar("lemma", records, lemmaCandidate, &rows)
	if lemma.value == "" {
		entry.Quality.Incomplete = true
	} else {
		entry.Lemma = lemma.value
		decisionConfs = append(decisionConfs, lemma.confidence)
	}

	root := e.voteScalar("root", records, rootCandidate, &rows)
	if root.value != "" {
		entry.Root = &root.value
		decisionConfs = append(decisionConfs, root.confidence)
	}

	pos := e.voteScalar("pos", records, posCandidate, &rows)
	if pos.value != "" {
		p := domain.PartOfSpeech(pos.value)
		entry.POS = &p
		decisionConfs = append(decisionConfs, pos.confidence)
	}

	// Collection fields: fingerprint-dedup union.
	unresolved := e.mergeCollections(records, &entry, &rows, &decisionConfs)

	// Operator overrides leave a synthetic audit row.
	for _, ov := range bucket.Overrides {
		rows = append(rows, domain.ProvenanceRecord{
			EntryID:          bucket.EntryID,
			FieldPath:        "_override",
			SourceID:         domain.SourceManualOverride,
			ValueFingerprint: domain.Fingerprint(ov.Kind, ov.Detail),
			Confidence:       1.0,
		})
	}

	for i := range rows {
		rows[i].EntryID = bucket.EntryID
	}

	entry.Quality.SourceCount = distinctSources(records)
	entry.Quality.Confidence = mean(decisionConfs)

	return Result{Entry: entry, Provenance: rows, Unresolved: unresolved}, nil
}

// sortedRecords returns a copy of the bucket's records in canonical merge
// order: source rank, then source ID, then payload content. The order is
// a function of content only, so submission order never leaks into the
// merged entry.
func (e *Engine) sortedRecords(records []domain.SourceRecord) []domain.SourceRecord {
	out := make([]domain.SourceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		pi := e.cfg.profile(out[i].SourceID, out[i].SourceConfidence)
		pj := e.cfg.profile(out[j].SourceID, out[j].SourceConfidence)
		if pi.Rank != pj.Rank {
			return pi.Rank < pj.Rank
		}
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		fi, fj := payloadFingerprint(out[i]), payloadFingerprint(out[j])
		if fi != fj {
			return fi < fj
		}
		return out[i].SurfaceForm < out[j].SurfaceForm
	})
	return out
}

// payloadFingerprint identifies a record's claim content, independent of
// record IDs and submission order.
func payloadFingerprint(rec domain.SourceRecord) string {
	p := rec.Payload
	switch p.Kind {
	case domain.PayloadSense:
		return senseFingerprint(p.Sense)
	case domain.PayloadRelation:
		return domain.Fingerprint("relation", p.Relation.Kind.String(), arKey(p.Relation.TargetSurface))
	case domain.PayloadPronunciation:
		return domain.Fingerprint("pronunciation", p.Pronunciation.Scheme.String(), strings.TrimSpace(p.Pronunciation.Transcription))
	case domain.PayloadDialectVariant:
		return domain.Fingerprint("dialect", strings.ToLower(p.DialectVariant.DialectID), arCanonical(p.DialectVariant.VariantSurface))
	case domain.PayloadInflection:
		return domain.Fingerprint("inflection", strings.ToLower(p.Inflection.Feature), arCanonical(p.Inflection.Surface))
	}
	return domain.Fingerprint("unknown")
}

func senseFingerprint(s *domain.SenseClaim) string {
	parts := []string{"sense", normText(s.GlossEN), arKey(s.GlossAR)}
	for _, syn := range s.SynonymsAR {
		parts = append(parts, arKey(syn))
	}
	return domain.Fingerprint(parts...)
}

// normText prepares Latin-script text for fingerprinting: lowercase,
// trimmed, inner whitespace collapsed.
func normText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func arKey(s string) string       { return domain.NormalizeArabic(s).SearchKey }
func arCanonical(s string) string { return domain.NormalizeArabic(s).CanonicalSurface }

func distinctSources(records []domain.SourceRecord) int {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.SourceID] = true
	}
	return len(seen)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
