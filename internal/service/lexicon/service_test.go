package lexicon

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mh2des/arabic-dictionary-api/internal/config"
	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockEntryRepo struct {
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.CanonicalEntry, error)
	GetProvenanceFunc     func(ctx context.Context, entryID uuid.UUID, fieldPath string, activeOnly bool) ([]domain.ProvenanceRecord, error)
	SearchByKeyPrefixFunc func(ctx context.Context, prefix string, limit int) ([]domain.SearchHit, error)
	SetReviewedFunc       func(ctx context.Context, entryID uuid.UUID, reviewed bool) error
}

func (m *mockEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CanonicalEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockEntryRepo) GetProvenance(ctx context.Context, entryID uuid.UUID, fieldPath string, activeOnly bool) ([]domain.ProvenanceRecord, error) {
	if m.GetProvenanceFunc != nil {
		return m.GetProvenanceFunc(ctx, entryID, fieldPath, activeOnly)
	}
	return nil, nil
}

func (m *mockEntryRepo) SearchByKeyPrefix(ctx context.Context, prefix string, limit int) ([]domain.SearchHit, error) {
	if m.SearchByKeyPrefixFunc != nil {
		return m.SearchByKeyPrefixFunc(ctx, prefix, limit)
	}
	return nil, nil
}

func (m *mockEntryRepo) SetReviewed(ctx context.Context, entryID uuid.UUID, reviewed bool) error {
	if m.SetReviewedFunc != nil {
		return m.SetReviewedFunc(ctx, entryID, reviewed)
	}
	return nil
}

func newTestService(repo *mockEntryRepo) *Service {
	cfg := config.SearchConfig{DefaultLimit: 20, MaxLimit: 100}
	return NewService(slog.New(slog.DiscardHandler), repo, cfg)
}

// ===========================================================================
// GetEntry
// ===========================================================================

func TestGetEntry(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	want := &domain.CanonicalEntry{EntryID: id, Lemma: "كِتَاب", LemmaNorm: "كتاب"}

	svc := newTestService(&mockEntryRepo{
		GetByIDFunc: func(_ context.Context, got uuid.UUID) (*domain.CanonicalEntry, error) {
			require.Equal(t, id, got)
			return want, nil
		},
	})

	got, err := svc.GetEntry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetEntry_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockEntryRepo{})

	_, err := svc.GetEntry(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ===========================================================================
// GetProvenance
// ===========================================================================

func TestGetProvenance(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	rows := []domain.ProvenanceRecord{
		{EntryID: id, Seq: 1, FieldPath: "lemma", SourceID: "arramooz", Active: true},
		{EntryID: id, Seq: 2, FieldPath: "pos", SourceID: "awn", Active: true},
	}

	svc := newTestService(&mockEntryRepo{
		GetByIDFunc: func(_ context.Context, got uuid.UUID) (*domain.CanonicalEntry, error) {
			return &domain.CanonicalEntry{EntryID: got}, nil
		},
		GetProvenanceFunc: func(_ context.Context, entryID uuid.UUID, fieldPath string, activeOnly bool) ([]domain.ProvenanceRecord, error) {
			require.Equal(t, id, entryID)
			assert.Equal(t, "pos", fieldPath)
			assert.True(t, activeOnly)
			return rows[1:], nil
		},
	})

	got, err := svc.GetProvenance(context.Background(), id, "pos", true)
	require.NoError(t, err)
	assert.Equal(t, rows[1:], got)
}

func TestGetProvenance_EntryNotFound(t *testing.T) {
	t.Parallel()

	provenanceCalled := false
	svc := newTestService(&mockEntryRepo{
		GetProvenanceFunc: func(context.Context, uuid.UUID, string, bool) ([]domain.ProvenanceRecord, error) {
			provenanceCalled = true
			return nil, nil
		},
	})

	_, err := svc.GetProvenance(context.Background(), uuid.New(), "", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, provenanceCalled, "provenance must not be queried for a missing entry")
}

// ===========================================================================
// Search
// ===========================================================================

func TestSearch_NormalizesQuery(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockEntryRepo{
		SearchByKeyPrefixFunc: func(_ context.Context, prefix string, limit int) ([]domain.SearchHit, error) {
			// Vocalized query collapses to its bare search key.
			assert.Equal(t, "كتاب", prefix)
			assert.Equal(t, 20, limit)
			return []domain.SearchHit{{Lemma: "كِتَاب", LemmaNorm: "كتاب"}}, nil
		},
	})

	hits, err := svc.Search(context.Background(), "كِتَاب", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}

func TestSearch_EmptyQuery(t *testing.T) {
	t.Parallel()

	called := false
	svc := newTestService(&mockEntryRepo{
		SearchByKeyPrefixFunc: func(context.Context, string, int) ([]domain.SearchHit, error) {
			called = true
			return nil, nil
		},
	})

	for _, q := range []string{"", "   ", "ًٌٍ"} {
		hits, err := svc.Search(context.Background(), q, 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	}
	assert.False(t, called, "repo must not be hit for queries that normalize to nothing")
}

func TestSearch_ClampsLimit(t *testing.T) {
	t.Parallel()

	var gotLimits []int
	svc := newTestService(&mockEntryRepo{
		SearchByKeyPrefixFunc: func(_ context.Context, _ string, limit int) ([]domain.SearchHit, error) {
			gotLimits = append(gotLimits, limit)
			return nil, nil
		},
	})

	for _, limit := range []int{-5, 0, 7, 500} {
		_, err := svc.Search(context.Background(), "كتاب", limit)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{20, 20, 7, 100}, gotLimits)
}

func TestSearch_RepoError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	svc := newTestService(&mockEntryRepo{
		SearchByKeyPrefixFunc: func(context.Context, string, int) ([]domain.SearchHit, error) {
			return nil, boom
		},
	})

	_, err := svc.Search(context.Background(), "كتاب", 10)
	assert.ErrorIs(t, err, boom)
}

// ===========================================================================
// SetReviewed
// ===========================================================================

func TestSetReviewed(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	svc := newTestService(&mockEntryRepo{
		SetReviewedFunc: func(_ context.Context, entryID uuid.UUID, reviewed bool) error {
			require.Equal(t, id, entryID)
			assert.True(t, reviewed)
			return nil
		},
	})

	require.NoError(t, svc.SetReviewed(context.Background(), id, true))
}
