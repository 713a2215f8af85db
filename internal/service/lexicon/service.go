// Package lexicon exposes read access to merged canonical entries:
// lookup by id, prefix search over the search-key index, and the
// provenance trail behind any field.
package lexicon

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/config"
	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CanonicalEntry, error)
	GetProvenance(ctx context.Context, entryID uuid.UUID, fieldPath string, activeOnly bool) ([]domain.ProvenanceRecord, error)
	SearchByKeyPrefix(ctx context.Context, prefix string, limit int) ([]domain.SearchHit, error)
	SetReviewed(ctx context.Context, entryID uuid.UUID, reviewed bool) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the lexicon read API.
type Service struct {
	log     *slog.Logger
	entries entryRepo
	cfg     config.SearchConfig
}

// NewService creates a new Lexicon service.
func NewService(logger *slog.Logger, entries entryRepo, cfg config.SearchConfig) *Service {
	return &Service{
		log:     logger.With("service", "lexicon"),
		entries: entries,
		cfg:     cfg,
	}
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}
