package resolver

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

// ForceMerge moves every record of entry b into entry a's bucket and
// retires b from key matching. Returns the surviving entry ID. The action
// is recorded as an override so the next merge emits a synthetic
// "manual-override" provenance row.
func (r *Resolver) ForceMerge(a, b uuid.UUID) (uuid.UUID, error) {
	if a == b {
		return uuid.Nil, fmt.Errorf("force merge: %w: identical entry ids", domain.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	refA, okA := r.entryIndex[a]
	refB, okB := r.entryIndex[b]
	if !okA || !okB {
		return uuid.Nil, fmt.Errorf("force merge %s + %s: %w", a, b, domain.ErrNotFound)
	}

	r.lockShards(refA.shard, refB.shard)
	defer r.unlockShards(refA.shard, refB.shard)

	refA.bucket.Records = append(refA.bucket.Records, refB.bucket.Records...)
	refA.bucket.Overrides = append(refA.bucket.Overrides, Override{
		Kind:   "force-merge",
		Detail: fmt.Sprintf("absorbed entry %s", b),
	})
	refA.bucket.dirty = true

	r.removeBucketLocked(refB)
	delete(r.entryIndex, b)

	r.log.Info("force merge applied",
		slog.String("surviving", a.String()),
		slog.String("absorbed", b.String()),
	)
	return a, nil
}

// ForceSplit extracts the given records from an entry into a new pinned
// bucket with a fresh entry ID. Pinned buckets never participate in key
// matching, so the split cannot be silently undone by resolution.
func (r *Resolver) ForceSplit(entryID uuid.UUID, recordIDs []uuid.UUID) (uuid.UUID, error) {
	if len(recordIDs) == 0 {
		return uuid.Nil, fmt.Errorf("force split %s: %w: no record ids", entryID, domain.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ref, ok := r.entryIndex[entryID]
	if !ok {
		return uuid.Nil, fmt.Errorf("force split %s: %w", entryID, domain.ErrNotFound)
	}

	sh := r.shards[ref.shard]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	wanted := make(map[uuid.UUID]bool, len(recordIDs))
	for _, id := range recordIDs {
		wanted[id] = true
	}

	var kept, extracted []domain.SourceRecord
	for _, rec := range ref.bucket.Records {
		if wanted[rec.RecordID] {
			extracted = append(extracted, rec)
		} else {
			kept = append(kept, rec)
		}
	}
	if len(extracted) != len(recordIDs) {
		return uuid.Nil, fmt.Errorf("force split %s: %w: %d of %d records present",
			entryID, domain.ErrNotFound, len(extracted), len(recordIDs))
	}

	split := &Bucket{
		EntryID: uuid.New(),
		Seq:     r.seq.Add(1),
		Key:     ref.bucket.Key,
		Records: extracted,
		Overrides: []Override{{
			Kind:   "force-split",
			Detail: fmt.Sprintf("extracted from entry %s", entryID),
		}},
		pinned: true,
		dirty:  true,
	}
	sh.buckets = append(sh.buckets, split)
	r.entryIndex[split.EntryID] = bucketRef{shard: ref.shard, bucket: split}

	ref.bucket.Records = kept
	ref.bucket.Overrides = append(ref.bucket.Overrides, Override{
		Kind:   "force-split",
		Detail: fmt.Sprintf("records extracted to entry %s", split.EntryID),
	})
	ref.bucket.dirty = true

	r.log.Info("force split applied",
		slog.String("entry", entryID.String()),
		slog.String("new_entry", split.EntryID.String()),
		slog.Int("records", len(extracted)),
	)
	return split.EntryID, nil
}

// lockShards acquires one or two shard locks in index order.
func (r *Resolver) lockShards(i, j int) {
	if i == j {
		r.shards[i].mu.Lock()
		return
	}
	if i > j {
		i, j = j, i
	}
	r.shards[i].mu.Lock()
	r.shards[j].mu.Lock()
}

func (r *Resolver) unlockShards(i, j int) {
	if i == j {
		r.shards[i].mu.Unlock()
		return
	}
	r.shards[i].mu.Unlock()
	r.shards[j].mu.Unlock()
}

// removeBucketLocked drops a bucket from its shard's key map and list.
// Caller holds both r.mu and the shard lock.
func (r *Resolver) removeBucketLocked(ref bucketRef) {
	sh := r.shards[ref.shard]
	if !ref.bucket.pinned {
		delete(sh.byKey, ref.bucket.Key)
	}
	for i, b := range sh.buckets {
		if b == ref.bucket {
			sh.buckets = append(sh.buckets[:i], sh.buckets[i+1:]...)
			break
		}
	}
}
