// Package canonical implements the canonical entry store using PostgreSQL.
// One row per entry (scalars plus a jsonb document for the collection
// fields) and an append-only provenance table synced by (entry_id, seq).
package canonical

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mh2des/arabic-dictionary-api/internal/adapter/postgres"
	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides canonical entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new canonical entry repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const upsertEntrySQL = `
INSERT INTO canonical_entries
    (id, seq, lemma, lemma_norm, root, pos, payload,
     quality_confidence, quality_source_count, quality_incomplete, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
    seq                  = EXCLUDED.seq,
    lemma                = EXCLUDED.lemma,
    lemma_norm           = EXCLUDED.lemma_norm,
    root                 = EXCLUDED.root,
    pos                  = EXCLUDED.pos,
    payload              = EXCLUDED.payload,
    quality_confidence   = EXCLUDED.quality_confidence,
    quality_source_count = EXCLUDED.quality_source_count,
    quality_incomplete   = EXCLUDED.quality_incomplete,
    updated_at           = EXCLUDED.updated_at`

// UpsertEntry writes the entry and syncs its provenance rows in one
// transaction, idempotent by entry_id. The reviewed flag is deliberately
// absent from the conflict update: it is owned by human review, not by
// the merge, and survives re-merges.
func (r *Repo) UpsertEntry(ctx context.Context, entry domain.CanonicalEntry, provenance []domain.ProvenanceRecord) error {
	doc, err := json.Marshal(toPayloadDoc(entry))
	if err != nil {
		return fmt.Errorf("marshal entry payload: %w", err)
	}

	var pos *string
	if entry.POS != nil {
		p := entry.POS.String()
		pos = &p
	}

	return r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)

		_, err := q.Exec(txCtx, upsertEntrySQL,
			entry.EntryID, int64(entry.Seq), entry.Lemma, entry.LemmaNorm,
			entry.Root, pos, doc,
			entry.Quality.Confidence, entry.Quality.SourceCount, entry.Quality.Incomplete,
			time.Now().UTC(),
		)
		if err != nil {
			return postgres.MapError(err, "canonical_entry", entry.EntryID)
		}

		if len(provenance) == 0 {
			return nil
		}

		// The ledger hands over the full row set: new rows plus old rows
		// whose active bit flipped. Syncing by (entry_id, seq) keeps the
		// table append-only.
		batch := &pgx.Batch{}
		for _, row := range provenance {
			batch.Queue(
				`INSERT INTO provenance_records
				     (entry_id, seq, field_path, source_id, value_fingerprint, confidence, active)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (entry_id, seq) DO UPDATE SET active = EXCLUDED.active`,
				entry.EntryID, int64(row.Seq), row.FieldPath, row.SourceID,
				row.ValueFingerprint, row.Confidence, row.Active,
			)
		}

		results := q.SendBatch(txCtx, batch)
		defer results.Close()
		for range batch.Len() {
			if _, err := results.Exec(); err != nil {
				return postgres.MapError(err, "provenance", entry.EntryID)
			}
		}
		return nil
	})
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getByIDSQL = `
SELECT id, seq, lemma, lemma_norm, root, pos, payload,
       quality_confidence, quality_reviewed, quality_source_count, quality_incomplete
FROM canonical_entries
WHERE id = $1`

// GetByID returns the canonical entry. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CanonicalEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		entry domain.CanonicalEntry
		seq   int64
		pos   *string
		doc   []byte
	)
	err := q.QueryRow(ctx, getByIDSQL, id).Scan(
		&entry.EntryID, &seq, &entry.Lemma, &entry.LemmaNorm, &entry.Root, &pos, &doc,
		&entry.Quality.Confidence, &entry.Quality.Reviewed,
		&entry.Quality.SourceCount, &entry.Quality.Incomplete,
	)
	if err != nil {
		return nil, postgres.MapError(err, "canonical_entry", id)
	}
	entry.Seq = uint64(seq)
	if pos != nil {
		p := domain.PartOfSpeech(*pos)
		entry.POS = &p
	}

	var payload payloadDoc
	if err := json.Unmarshal(doc, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal entry payload %s: %w", id, err)
	}
	payload.apply(&entry)

	return &entry, nil
}

// GetProvenance returns provenance rows for an entry ordered by ledger
// sequence. An empty fieldPath returns all fields; activeOnly hides
// superseded rows.
func (r *Repo) GetProvenance(ctx context.Context, entryID uuid.UUID, fieldPath string, activeOnly bool) ([]domain.ProvenanceRecord, error) {
	builder := psql.
		Select("entry_id", "seq", "field_path", "source_id", "value_fingerprint", "confidence", "active").
		From("provenance_records").
		Where(sq.Eq{"entry_id": entryID}).
		OrderBy("seq")
	if fieldPath != "" {
		builder = builder.Where(sq.Eq{"field_path": fieldPath})
	}
	if activeOnly {
		builder = builder.Where(sq.Eq{"active": true})
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build provenance query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, postgres.MapError(err, "provenance", entryID)
	}
	defer rows.Close()

	var out []domain.ProvenanceRecord
	for rows.Next() {
		var rec domain.ProvenanceRecord
		var seq int64
		if err := rows.Scan(&rec.EntryID, &seq, &rec.FieldPath, &rec.SourceID,
			&rec.ValueFingerprint, &rec.Confidence, &rec.Active); err != nil {
			return nil, fmt.Errorf("scan provenance row: %w", err)
		}
		rec.Seq = uint64(seq)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provenance rows: %w", err)
	}
	return out, nil
}

// SearchByKeyPrefix returns entries whose search key starts with the given
// prefix, ordered by the key then allocation sequence. The caller is
// expected to pass an already-normalized prefix.
func (r *Repo) SearchByKeyPrefix(ctx context.Context, prefix string, limit int) ([]domain.SearchHit, error) {
	if prefix == "" {
		return []domain.SearchHit{}, nil
	}

	builder := psql.
		Select("id", "lemma", "lemma_norm").
		From("canonical_entries").
		Where(sq.Like{"lemma_norm": escapeLike(prefix) + "%"}).
		OrderBy("lemma_norm", "seq").
		Limit(uint64(limit))

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("search by key prefix: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var h domain.SearchHit
		if err := rows.Scan(&h.EntryID, &h.Lemma, &h.LemmaNorm); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search hits: %w", err)
	}
	return hits, nil
}

// SetReviewed flips the human-review flag, the one quality field the
// merge never writes.
func (r *Repo) SetReviewed(ctx context.Context, entryID uuid.UUID, reviewed bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := q.Exec(ctx,
		`UPDATE canonical_entries SET quality_reviewed = $2, updated_at = $3 WHERE id = $1`,
		entryID, reviewed, time.Now().UTC(),
	)
	if err != nil {
		return postgres.MapError(err, "canonical_entry", entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("canonical_entry %s: %w", entryID, domain.ErrNotFound)
	}
	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
