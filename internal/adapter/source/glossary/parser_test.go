package glossary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

func TestParse(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "glossary.jsonl")
	content := `{"ar": "كتاب", "en": "book", "pos": "noun", "pron": "kitaab", "scheme": "romanized"}

{"ar": "مرحبا", "en": "hello", "pron": "marħaba", "scheme": "ipa"}
{"ar": "", "en": "empty"}
{broken json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, stats, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Lines, "blank lines are not counted")
	assert.Equal(t, 2, stats.Malformed)
	require.Equal(t, 4, stats.Records)

	book := records[0]
	require.Equal(t, domain.PayloadSense, book.Payload.Kind)
	assert.Equal(t, "book", book.Payload.Sense.GlossEN)
	require.NotNil(t, book.DeclaredPOS)
	assert.Equal(t, domain.PartOfSpeechNoun, *book.DeclaredPOS)

	pron := records[1]
	require.Equal(t, domain.PayloadPronunciation, pron.Payload.Kind)
	assert.Equal(t, domain.SchemeRomanized, pron.Payload.Pronunciation.Scheme)
	assert.Equal(t, "kitaab", pron.Payload.Pronunciation.Transcription)

	hello := records[3]
	require.Equal(t, domain.PayloadPronunciation, hello.Payload.Kind)
	assert.Equal(t, domain.SchemeIPA, hello.Payload.Pronunciation.Scheme)

	for _, rec := range records {
		assert.NoError(t, rec.Validate())
	}
}

func TestParse_MissingFile(t *testing.T) {
	t.Parallel()
	_, _, err := Parse(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
}
