// Package ledger keeps the append-only provenance log: which source
// attested which field of which entry, at what confidence. Rows are never
// deleted; superseding flips the active bit and appends the replacement
// in the same commit, so readers never observe a half-updated entry.
package ledger

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

type entryLog struct {
	rows []domain.ProvenanceRecord
	seq  uint64
}

// Ledger is the in-memory provenance store. Reads are unrestricted and
// concurrent; writes go through Commit, which the merge pipeline calls
// at most once concurrently per entry.
type Ledger struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entryLog
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[uuid.UUID]*entryLog)}
}

// Commit replaces the active row set of an entry with rows, atomically.
//
// A new row identical to the current active row for the same
// (field_path, source) — same fingerprint and confidence — is a no-op:
// the existing row stays, nothing is appended. Anything else supersedes:
// the old row flips inactive and the new row is appended. Active rows
// absent from the incoming set flip inactive, which is how a field
// "reverts to null" without losing its audit history.
func (l *Ledger) Commit(entryID uuid.UUID, rows []domain.ProvenanceRecord) []domain.ProvenanceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	log, ok := l.entries[entryID]
	if !ok {
		log = &entryLog{}
		l.entries[entryID] = log
	}

	type slot struct{ fieldPath, sourceID, fingerprint string }

	keep := make(map[slot]bool, len(rows))
	unchanged := make(map[slot]bool)

	// Pass 1: find active rows the incoming set leaves untouched.
	for i := range log.rows {
		r := &log.rows[i]
		if !r.Active {
			continue
		}
		s := slot{r.FieldPath, r.SourceID, r.ValueFingerprint}
		for _, in := range rows {
			if in.FieldPath == r.FieldPath && in.SourceID == r.SourceID &&
				in.ValueFingerprint == r.ValueFingerprint && in.Confidence == r.Confidence {
				unchanged[s] = true
				break
			}
		}
	}

	// Pass 2: deactivate every active row that is not carried forward.
	for i := range log.rows {
		r := &log.rows[i]
		if !r.Active {
			continue
		}
		if !unchanged[slot{r.FieldPath, r.SourceID, r.ValueFingerprint}] {
			r.Active = false
		}
	}

	// Pass 3: append the genuinely new rows.
	for _, in := range rows {
		s := slot{in.FieldPath, in.SourceID, in.ValueFingerprint}
		if unchanged[s] || keep[s] {
			keep[s] = true
			continue
		}
		keep[s] = true
		log.seq++
		in.EntryID = entryID
		in.Active = true
		in.Seq = log.seq
		log.rows = append(log.rows, in)
	}

	return l.snapshotLocked(entryID)
}

// ActiveByEntry returns copies of the active rows for an entry, in append
// order.
func (l *Ledger) ActiveByEntry(entryID uuid.UUID) []domain.ProvenanceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	log, ok := l.entries[entryID]
	if !ok {
		return nil
	}
	var out []domain.ProvenanceRecord
	for _, r := range log.rows {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

// History returns every row (active and superseded) ever appended for one
// field path of an entry, in append order.
func (l *Ledger) History(entryID uuid.UUID, fieldPath string) []domain.ProvenanceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	log, ok := l.entries[entryID]
	if !ok {
		return nil
	}
	var out []domain.ProvenanceRecord
	for _, r := range log.rows {
		if r.FieldPath == fieldPath {
			out = append(out, r)
		}
	}
	return out
}

// All returns copies of every row for an entry, active and superseded.
func (l *Ledger) All(entryID uuid.UUID) []domain.ProvenanceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked(entryID)
}

func (l *Ledger) snapshotLocked(entryID uuid.UUID) []domain.ProvenanceRecord {
	log, ok := l.entries[entryID]
	if !ok {
		return nil
	}
	out := make([]domain.ProvenanceRecord, len(log.rows))
	copy(out, log.rows)
	return out
}
