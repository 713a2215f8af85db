// Package glossary parses JSONL bilingual glossaries into source records.
// One line is one headword with a gloss pair and an optional transcription.
package glossary

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// SourceID is the provenance identifier for all records this parser emits.
const SourceID = "glossary"

// Community glossaries are uncurated, so the prior sits below the
// lexicographic sources.
const sourceConfidence = 0.6

// Stats summarizes one parse run.
type Stats struct {
	Lines     int
	Records   int
	Malformed int
}

type line struct {
	AR     string `json:"ar"`
	EN     string `json:"en"`
	Root   string `json:"root"`
	POS    string `json:"pos"`
	Pron   string `json:"pron"`
	Scheme string `json:"scheme"`
}

// Parse reads a JSONL glossary and returns one sense record per line plus
// a pronunciation record for lines carrying a transcription.
func Parse(path string) ([]domain.SourceRecord, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open glossary file: %w", err)
	}
	defer f.Close()

	var records []domain.SourceRecord
	var stats Stats

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		stats.Lines++

		var l line
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			stats.Malformed++
			continue
		}
		headword := strings.TrimSpace(l.AR)
		if headword == "" || !domain.ContainsArabicLetter(headword) {
			stats.Malformed++
			continue
		}

		base := domain.SourceRecord{
			SourceID:         SourceID,
			SurfaceForm:      headword,
			SourceConfidence: sourceConfidence,
		}
		if root := strings.TrimSpace(l.Root); root != "" {
			base.DeclaredRoot = &root
		}
		if pos := domain.PartOfSpeech(strings.ToUpper(strings.TrimSpace(l.POS))); pos.IsValid() {
			base.DeclaredPOS = &pos
		}

		sense := base
		sense.RecordID = uuid.New()
		sense.Payload = domain.Payload{
			Kind:  domain.PayloadSense,
			Sense: &domain.SenseClaim{GlossEN: strings.TrimSpace(l.EN)},
		}
		records = append(records, sense)
		stats.Records++

		if pron := strings.TrimSpace(l.Pron); pron != "" {
			rec := base
			rec.RecordID = uuid.New()
			rec.Payload = domain.Payload{
				Kind: domain.PayloadPronunciation,
				Pronunciation: &domain.PronunciationClaim{
					Scheme:        mapScheme(l.Scheme),
					Transcription: pron,
				},
			}
			records = append(records, rec)
			stats.Records++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("scan glossary: %w", err)
	}

	return records, stats, nil
}

func mapScheme(s string) domain.TranscriptionScheme {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ipa":
		return domain.SchemeIPA
	case "phonemic":
		return domain.SchemePhonemic
	}
	return domain.SchemeRomanized
}
