// Package arramooz parses the Arramooz AlWaseet CSV export into source
// records. Pure function: file path in, domain structs out. No database
// dependencies.
package arramooz

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// SourceID is the provenance identifier for all records this parser emits.
const SourceID = "arramooz"

// Arramooz ships a curated morphological database, so its claims carry a
// high prior.
const sourceConfidence = 0.8

// Stats summarizes one parse run.
type Stats struct {
	TotalRows int
	Records   int
	Malformed int
}

// Arramooz exports vary in header naming across releases; each column is
// looked up under its known aliases.
var (
	lemmaColumns   = []string{"vocalized", "lemma", "word"}
	rootColumns    = []string{"root", "radicals"}
	posColumns     = []string{"pos", "category", "type", "wordtype"}
	glossColumns   = []string{"gloss", "definition", "meaning"}
	pluralColumns  = []string{"plural", "broken_plural"}
	feminineColumn = []string{"feminine"}
)

// Parse reads an Arramooz CSV file and returns one or more source records
// per row: a sense claim carrying the row's lemma, root and POS, plus an
// inflection claim per populated morphology column.
func Parse(path string) ([]domain.SourceRecord, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open arramooz file: %w", err)
	}
	defer f.Close()

	return parse(f)
}

func parse(r io.Reader) ([]domain.SourceRecord, Stats, error) {
	buf := bufio.NewReader(r)
	reader := csv.NewReader(buf)
	reader.Comma = detectDelimiter(buf)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, Stats{}, nil
		}
		return nil, Stats{}, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, aliases []string) string {
		for _, alias := range aliases {
			if i, ok := columns[alias]; ok && i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	var records []domain.SourceRecord
	var stats Stats

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.TotalRows+2, err)
		}
		stats.TotalRows++

		lemma := field(row, lemmaColumns)
		if lemma == "" || !domain.ContainsArabicLetter(lemma) {
			stats.Malformed++
			continue
		}

		rec := domain.SourceRecord{
			RecordID:         uuid.New(),
			SourceID:         SourceID,
			SurfaceForm:      lemma,
			Payload:          domain.Payload{Kind: domain.PayloadSense, Sense: &domain.SenseClaim{}},
			SourceConfidence: sourceConfidence,
		}
		if root := field(row, rootColumns); root != "" {
			rec.DeclaredRoot = &root
		}
		if pos, ok := mapPOS(field(row, posColumns)); ok {
			rec.DeclaredPOS = &pos
		}
		if gloss := field(row, glossColumns); gloss != "" {
			if domain.ContainsArabicLetter(gloss) {
				rec.Payload.Sense.GlossAR = gloss
			} else {
				rec.Payload.Sense.GlossEN = gloss
			}
		}
		records = append(records, rec)
		stats.Records++

		for _, inf := range []struct {
			feature string
			aliases []string
		}{
			{"plural", pluralColumns},
			{"feminine", feminineColumn},
		} {
			surface := field(row, inf.aliases)
			if surface == "" || !domain.ContainsArabicLetter(surface) {
				continue
			}
			infRec := rec
			infRec.RecordID = uuid.New()
			infRec.Payload = domain.Payload{
				Kind:       domain.PayloadInflection,
				Inflection: &domain.InflectionClaim{Feature: inf.feature, Surface: surface},
			}
			records = append(records, infRec)
			stats.Records++
		}
	}

	return records, stats, nil
}

// detectDelimiter sniffs the header line: exports in the wild use comma,
// tab or semicolon.
func detectDelimiter(buf *bufio.Reader) rune {
	sample, _ := buf.Peek(1024)
	if i := strings.IndexByte(string(sample), '\n'); i >= 0 {
		sample = sample[:i]
	}
	switch {
	case strings.ContainsRune(string(sample), '\t'):
		return '\t'
	case strings.ContainsRune(string(sample), ';'):
		return ';'
	}
	return ','
}

// mapPOS maps the Arabic and English tag sets used across Arramooz
// releases onto the canonical POS enum. Unknown tags yield no claim, so
// the record still matches POS-less during resolution.
func mapPOS(tag string) (domain.PartOfSpeech, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "اسم", "noun", "n":
		return domain.PartOfSpeechNoun, true
	case "فعل", "verb", "v":
		return domain.PartOfSpeechVerb, true
	case "صفة", "adjective", "adj":
		return domain.PartOfSpeechAdjective, true
	case "ظرف", "adverb", "adv":
		return domain.PartOfSpeechAdverb, true
	case "ضمير", "pronoun", "pron":
		return domain.PartOfSpeechPronoun, true
	case "حرف جر", "preposition", "prep":
		return domain.PartOfSpeechPreposition, true
	case "حرف", "particle", "part":
		return domain.PartOfSpeechParticle, true
	case "تعجب", "interjection", "interj":
		return domain.PartOfSpeechInterjection, true
	case "علم", "proper noun", "propn":
		return domain.PartOfSpeechProperNoun, true
	}
	return "", false
}
