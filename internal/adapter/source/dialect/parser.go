// Package dialect parses TSV dialect lexicons into source records. Each
// row maps a regional variant onto its Modern Standard Arabic lemma.
package dialect

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// SourceID is the provenance identifier for all records this parser emits.
const SourceID = "dialect"

const sourceConfidence = 0.6

// Stats summarizes one parse run.
type Stats struct {
	Lines     int
	Records   int
	Malformed int
}

// Parse reads a dialect lexicon in TSV form.
//
// Columns: dialect_id, variant surface, MSA lemma, optional root. A line
// starting with '#' is a comment. The record attaches to the MSA lemma's
// entry; the variant itself is the claim. The root, when present, lets
// the record join a root-keyed bucket instead of opening a new one.
func Parse(path string) ([]domain.SourceRecord, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open dialect file: %w", err)
	}
	defer f.Close()

	var records []domain.SourceRecord
	var stats Stats

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		stats.Lines++

		cols := strings.Split(raw, "\t")
		if len(cols) < 3 {
			stats.Malformed++
			continue
		}
		dialectID := strings.ToLower(strings.TrimSpace(cols[0]))
		variant := strings.TrimSpace(cols[1])
		lemma := strings.TrimSpace(cols[2])
		if dialectID == "" || !domain.ContainsArabicLetter(variant) || !domain.ContainsArabicLetter(lemma) {
			stats.Malformed++
			continue
		}

		rec := domain.SourceRecord{
			RecordID:    uuid.New(),
			SourceID:    SourceID,
			SurfaceForm: lemma,
			Payload: domain.Payload{
				Kind: domain.PayloadDialectVariant,
				DialectVariant: &domain.DialectVariantClaim{
					DialectID:      dialectID,
					VariantSurface: variant,
				},
			},
			SourceConfidence: sourceConfidence,
		}
		if len(cols) > 3 {
			if root := strings.TrimSpace(cols[3]); domain.ContainsArabicLetter(root) {
				rec.DeclaredRoot = &root
			}
		}
		records = append(records, rec)
		stats.Records++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("scan dialect file: %w", err)
	}

	return records, stats, nil
}
