package dialect

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
	path := filepath.Join(t.TempDir(), "dialect.tsv")
	content := "# dialect_id\tvariant\tmsa_lemma\troot\n" +
		"EGY\tكتاب\tكتاب\tكتب\n" +
		"LEV\tكتوب\tكتاب\n" +
		"GLF\tmissing column\n" +
		"EGY\tlatin\tكتاب\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, stats, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Lines, "comment lines are skipped")
	assert.Equal(t, 2, stats.Malformed)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, SourceID, first.SourceID)
	assert.Equal(t, "كتاب", first.SurfaceForm)
	require.Equal(t, domain.PayloadDialectVariant, first.Payload.Kind)
	assert.Equal(t, "egy", first.Payload.DialectVariant.DialectID)
	require.NotNil(t, first.DeclaredRoot)
	assert.Equal(t, "كتب", *first.DeclaredRoot)
	assert.Nil(t, records[1].DeclaredRoot)

	assert.Equal(t, "lev", records[1].Payload.DialectVariant.DialectID)
	assert.Equal(t, "كتوب", records[1].Payload.DialectVariant.VariantSurface)

	for _, rec := range records {
		assert.NoError(t, rec.Validate())
	}
}

func TestParse_MissingFile(t *testing.T) {
	t.Parallel()
	_, _, err := Parse(filepath.Join(t.TempDir(), "nope.tsv"))
	require.Error(t, err)
}
