package merge

import (
	"sort"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// candidateFn extracts a scalar candidate value from a record, or "" when
// the record makes no claim for the field.
type candidateFn func(domain.SourceRecord) string

func lemmaCandidate(rec domain.SourceRecord) string {
	return arCanonical(rec.SurfaceForm)
}

func rootCandidate(rec domain.SourceRecord) string {
	if rec.DeclaredRoot == nil {
		return ""
	}
	return arCanonical(*rec.DeclaredRoot)
}

func posCandidate(rec domain.SourceRecord) string {
	if rec.DeclaredPOS == nil {
		return ""
	}
	return rec.DeclaredPOS.String()
}

type scalarOutcome struct {
	value      string
	confidence float64
}

type scalarCandidate struct {
	value    string
	weight   float64
	bestRank int
	sources  map[string]float64
}

// voteScalar tallies candidate values weighted by source confidence.
// The highest total weight wins; ties break on the static source-priority
// rank, then lexicographically so the outcome never depends on order.
// The winner's confidence is its weight share of the total, so a
// unanimous field scores 1.0. One provenance row is appended per
// (field, claiming source) pair, losers included, so the ledger shows
// the full vote.
func (e *Engine) voteScalar(field string, records []domain.SourceRecord, fn candidateFn, rows *[]domain.ProvenanceRecord) scalarOutcome {
	byValue := make(map[string]*scalarCandidate)
	var order []string

	for _, rec := range records {
		value := fn(rec)
		if value == "" {
			continue
		}
		p := e.cfg.profile(rec.SourceID, rec.SourceConfidence)

		c, ok := byValue[value]
		if !ok {
			c = &scalarCandidate{value: value, bestRank: p.Rank, sources: make(map[string]float64)}
			byValue[value] = c
			order = append(order, value)
		}
		if p.Rank < c.bestRank {
			c.bestRank = p.Rank
		}
		// A source backs a value once, however many records repeat it.
		if _, seen := c.sources[rec.SourceID]; !seen {
			c.sources[rec.SourceID] = p.Confidence
			c.weight += p.Confidence
		}
	}

	if len(order) == 0 {
		return scalarOutcome{}
	}

	var total float64
	for _, v := range order {
		total += byValue[v].weight
	}

	winner := byValue[order[0]]
	for _, v := range order[1:] {
		c := byValue[v]
		switch {
		case c.weight > winner.weight:
			winner = c
		case c.weight == winner.weight && c.bestRank < winner.bestRank:
			winner = c
		case c.weight == winner.weight && c.bestRank == winner.bestRank && c.value < winner.value:
			winner = c
		}
	}

	sort.Strings(order)
	for _, v := range order {
		c := byValue[v]
		share := c.weight / total
		fp := domain.Fingerprint(c.value)

		sourceIDs := make([]string, 0, len(c.sources))
		for id := range c.sources {
			sourceIDs = append(sourceIDs, id)
		}
		sort.Strings(sourceIDs)
		for _, id := range sourceIDs {
			*rows = append(*rows, domain.ProvenanceRecord{
				FieldPath:        domain.ScalarFieldPath(field),
				SourceID:         id,
				ValueFingerprint: fp,
				Confidence:       share,
			})
		}
	}

	return scalarOutcome{value: winner.value, confidence: winner.weight / total}
}
