package arramooz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arramooz.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse(t *testing.T) {
	t.Parallel()
	path := writeCSV(t,
		"vocalized,root,category,gloss,plural\n"+
			"كِتَاب,كتب,اسم,book,كُتُب\n"+
			"ذَهَبَ,ذهب,فعل,to go,\n")

	records, stats, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalRows)
	assert.Equal(t, 0, stats.Malformed)
	require.Equal(t, 3, stats.Records)
	require.Len(t, records, 3)

	book := records[0]
	assert.Equal(t, SourceID, book.SourceID)
	assert.Equal(t, "كِتَاب", book.SurfaceForm)
	require.NotNil(t, book.DeclaredRoot)
	assert.Equal(t, "كتب", *book.DeclaredRoot)
	require.NotNil(t, book.DeclaredPOS)
	assert.Equal(t, domain.PartOfSpeechNoun, *book.DeclaredPOS)
	require.Equal(t, domain.PayloadSense, book.Payload.Kind)
	assert.Equal(t, "book", book.Payload.Sense.GlossEN)

	plural := records[1]
	require.Equal(t, domain.PayloadInflection, plural.Payload.Kind)
	assert.Equal(t, "plural", plural.Payload.Inflection.Feature)
	assert.Equal(t, "كُتُب", plural.Payload.Inflection.Surface)

	verb := records[2]
	require.NotNil(t, verb.DeclaredPOS)
	assert.Equal(t, domain.PartOfSpeechVerb, *verb.DeclaredPOS)

	for _, rec := range records {
		assert.NoError(t, rec.Validate())
		assert.Equal(t, 0.8, rec.SourceConfidence)
	}
}

func TestParse_AliasHeadersAndMalformedRows(t *testing.T) {
	t.Parallel()
	path := writeCSV(t,
		"word;radicals;type;definition\n"+
			"قلم;قلم;noun;pen\n"+
			";;;empty lemma\n"+
			"english only;;noun;not arabic\n")

	records, stats, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "قلم", records[0].SurfaceForm)
	assert.Equal(t, "pen", records[0].Payload.Sense.GlossEN)
	assert.Equal(t, 2, stats.Malformed)
}

func TestParse_ArabicGlossGoesToGlossAR(t *testing.T) {
	t.Parallel()
	path := writeCSV(t,
		"lemma,root,pos,meaning\n"+
			"مدرسة,درس,noun,مكان للتعليم\n")

	records, _, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "مكان للتعليم", records[0].Payload.Sense.GlossAR)
	assert.Empty(t, records[0].Payload.Sense.GlossEN)
}

func TestParse_UnknownPOSMakesNoClaim(t *testing.T) {
	t.Parallel()
	path := writeCSV(t,
		"lemma,pos,gloss\n"+
			"كتاب,mystery,book\n")

	records, _, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].DeclaredPOS)
}

func TestParse_MissingFile(t *testing.T) {
	t.Parallel()
	_, _, err := Parse(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
