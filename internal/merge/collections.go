package merge

import (
	"strings"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// collector accumulates the elements of one collection field in stable
// insertion order, deduplicating by content fingerprint. A duplicate
// claim adds its source to the existing element instead of a new one.
type collector struct {
	name  string
	index map[string]int
	elems []*collElem
}

type collElem struct {
	fp      string
	order   []string
	weights map[string]float64
}

func newCollector(name string) *collector {
	return &collector{name: name, index: make(map[string]int)}
}

// add records a claim and reports whether it created a new element.
func (c *collector) add(fp, sourceID string, weight float64) (int, bool) {
	if i, ok := c.index[fp]; ok {
		el := c.elems[i]
		if _, seen := el.weights[sourceID]; !seen {
			el.order = append(el.order, sourceID)
			el.weights[sourceID] = weight
		}
		return i, false
	}
	i := len(c.elems)
	c.index[fp] = i
	c.elems = append(c.elems, &collElem{
		fp:      fp,
		order:   []string{sourceID},
		weights: map[string]float64{sourceID: weight},
	})
	return i, true
}

// combined is the element confidence: independent agreement compounds,
// so two 0.7 sources score higher than either alone but never reach 1.0.
func (el *collElem) combined() float64 {
	doubt := 1.0
	for _, w := range el.weights {
		doubt *= 1 - w
	}
	return 1 - doubt
}

// emit appends one provenance row per contributing source for element i.
func (c *collector) emit(i int, rows *[]domain.ProvenanceRecord) {
	el := c.elems[i]
	path := domain.ElementFieldPath(c.name, i, "")
	for _, sourceID := range el.order {
		*rows = append(*rows, domain.ProvenanceRecord{
			FieldPath:        path,
			SourceID:         sourceID,
			ValueFingerprint: el.fp,
			Confidence:       el.weights[sourceID],
		})
	}
}

// mergeCollections unions every multi-valued field across the bucket's
// records. Near-duplicates (same gloss language, different text) stay
// separate elements; semantic dedup is out of scope here.
func (e *Engine) mergeCollections(records []domain.SourceRecord, entry *domain.CanonicalEntry, rows *[]domain.ProvenanceRecord, decisionConfs *[]float64) []UnresolvedRelation {
	senses := newCollector("senses")
	relations := newCollector("relations")
	pronunciations := newCollector("pronunciations")
	dialects := newCollector("dialect_variants")
	inflections := newCollector("inflections")

	var (
		senseClaims   []domain.SenseClaim
		relationVals  []domain.Relation
		pronVals      []domain.Pronunciation
		dialectVals   []domain.DialectVariant
		inflectionVal []domain.Inflection
		unresolved    []UnresolvedRelation
		unresolvedFPs = make(map[string]bool)
	)

	for _, rec := range records {
		p := e.cfg.profile(rec.SourceID, rec.SourceConfidence)

		switch rec.Payload.Kind {
		case domain.PayloadSense:
			claim := rec.Payload.Sense
			// A gloss-less sense exists only to carry scalar claims.
			if claim.GlossEN == "" && claim.GlossAR == "" && len(claim.SynonymsAR) == 0 {
				continue
			}
			if _, isNew := senses.add(senseFingerprint(claim), rec.SourceID, p.Confidence); isNew {
				senseClaims = append(senseClaims, *claim)
			}

		case domain.PayloadRelation:
			claim := rec.Payload.Relation
			target, ok := e.targets.EntryIDBySurface(claim.TargetSurface)
			if !ok {
				fp := domain.Fingerprint("unresolved", rec.SourceID, claim.Kind.String(), arKey(claim.TargetSurface))
				if !unresolvedFPs[fp] {
					unresolvedFPs[fp] = true
					unresolved = append(unresolved, UnresolvedRelation{
						SourceID:      rec.SourceID,
						Kind:          claim.Kind,
						TargetSurface: claim.TargetSurface,
					})
				}
				continue
			}
			if target == entry.EntryID {
				// Self-edges carry no information.
				continue
			}
			fp := domain.Fingerprint("relation", claim.Kind.String(), target.String())
			if _, isNew := relations.add(fp, rec.SourceID, p.Confidence); isNew {
				relationVals = append(relationVals, domain.Relation{Kind: claim.Kind, TargetEntryID: target})
			}

		case domain.PayloadPronunciation:
			claim := rec.Payload.Pronunciation
			transcription := strings.TrimSpace(claim.Transcription)
			if transcription == "" {
				continue
			}
			fp := domain.Fingerprint("pronunciation", claim.Scheme.String(), transcription)
			if _, isNew := pronunciations.add(fp, rec.SourceID, p.Confidence); isNew {
				pronVals = append(pronVals, domain.Pronunciation{Scheme: claim.Scheme, Transcription: transcription})
			}

		case domain.PayloadDialectVariant:
			claim := rec.Payload.DialectVariant
			dialectID := strings.ToLower(strings.TrimSpace(claim.DialectID))
			variant := arCanonical(claim.VariantSurface)
			if dialectID == "" || variant == "" {
				continue
			}
			fp := domain.Fingerprint("dialect", dialectID, variant)
			if _, isNew := dialects.add(fp, rec.SourceID, p.Confidence); isNew {
				dialectVals = append(dialectVals, domain.DialectVariant{DialectID: dialectID, VariantSurface: variant})
			}

		case domain.PayloadInflection:
			claim := rec.Payload.Inflection
			feature := strings.ToLower(strings.TrimSpace(claim.Feature))
			surface := arCanonical(claim.Surface)
			if feature == "" || surface == "" {
				continue
			}
			fp := domain.Fingerprint("inflection", feature, surface)
			if _, isNew := inflections.add(fp, rec.SourceID, p.Confidence); isNew {
				inflectionVal = append(inflectionVal, domain.Inflection{Feature: feature, Surface: surface})
			}
		}
	}

	for i, claim := range senseClaims {
		conf := senses.elems[i].combined()
		entry.Senses = append(entry.Senses, domain.Sense{
			GlossEN:    claim.GlossEN,
			GlossAR:    claim.GlossAR,
			SynonymsAR: claim.SynonymsAR,
			Confidence: conf,
		})
		*decisionConfs = append(*decisionConfs, conf)
		senses.emit(i, rows)
	}
	for i, rel := range relationVals {
		rel.Confidence = relations.elems[i].combined()
		entry.Relations = append(entry.Relations, rel)
		*decisionConfs = append(*decisionConfs, rel.Confidence)
		relations.emit(i, rows)
	}
	for i, pron := range pronVals {
		pron.Confidence = pronunciations.elems[i].combined()
		entry.Pronunciations = append(entry.Pronunciations, pron)
		*decisionConfs = append(*decisionConfs, pron.Confidence)
		pronunciations.emit(i, rows)
	}
	for i, dv := range dialectVals {
		dv.Confidence = dialects.elems[i].combined()
		entry.DialectVariants = append(entry.DialectVariants, dv)
		*decisionConfs = append(*decisionConfs, dv.Confidence)
		dialects.emit(i, rows)
	}
	for i, inf := range inflectionVal {
		inf.Confidence = inflections.elems[i].combined()
		entry.Inflections = append(entry.Inflections, inf)
		*decisionConfs = append(*decisionConfs, inf.Confidence)
		inflections.emit(i, rows)
	}

	return unresolved
}
