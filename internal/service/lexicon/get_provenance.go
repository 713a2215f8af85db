package lexicon

import (
	"context"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// GetProvenance returns the provenance trail for an entry, ordered by
// ledger sequence. An empty fieldPath covers all fields; activeOnly hides
// rows superseded by later merges.
//
// The entry is fetched first so a missing id surfaces as ErrNotFound
// rather than an empty trail.
func (s *Service) GetProvenance(ctx context.Context, entryID uuid.UUID, fieldPath string, activeOnly bool) ([]domain.ProvenanceRecord, error) {
	if _, err := s.entries.GetByID(ctx, entryID); err != nil {
		return nil, err
	}
	return s.entries.GetProvenance(ctx, entryID, fieldPath, activeOnly)
}
