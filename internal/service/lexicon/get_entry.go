package lexicon

import (
	"context"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// GetEntry returns the canonical entry by id.
// Returns domain.ErrNotFound if no such entry exists.
func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*domain.CanonicalEntry, error) {
	return s.entries.GetByID(ctx, id)
}

// SetReviewed records the human-review verdict for an entry. This is the
// only quality field writable outside the merge, and re-merges keep it.
func (s *Service) SetReviewed(ctx context.Context, id uuid.UUID, reviewed bool) error {
	if err := s.entries.SetReviewed(ctx, id, reviewed); err != nil {
		return err
	}
	s.log.Info("entry review flag updated", "entry_id", id, "reviewed", reviewed)
	return nil
}
