package lexicon

import (
	"context"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// Search finds entries whose search key starts with the given query.
// The query goes through the same normalization as ingested surfaces, so
// a fully vocalized query matches its bare spelling. An empty query (or
// one that normalizes to nothing, e.g. pure diacritics) returns an empty
// result. Limit is clamped to the configured bounds, defaulting when
// non-positive.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	key := domain.NormalizeArabic(query).SearchKey
	if key == "" {
		return []domain.SearchHit{}, nil
	}
	return s.entries.SearchByKeyPrefix(ctx, key, s.clampLimit(limit))
}
