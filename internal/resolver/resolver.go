// Package resolver groups incoming source records into resolution buckets,
// one bucket per future canonical entry. It owns bucket assignment and
// entry ID allocation; field merging happens downstream.
package resolver

import (
	"hash/fnv"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

const (
	defaultShards            = 16
	defaultRelaxedMatchLimit = 1
)

// Config holds resolver tuning knobs.
type Config struct {
	// Shards is the number of lock shards. Records sharing a search key
	// always land in the same shard, so relaxed matching stays local.
	Shards int
	// RelaxedMatchLimit is the maximum number of candidate buckets the
	// two-key fallback may see and still auto-join (the oldest bucket
	// wins). Above the limit the record is quarantined as ambiguous.
	RelaxedMatchLimit int
}

func (c *Config) applyDefaults() {
	if c.Shards <= 0 {
		c.Shards = defaultShards
	}
	if c.RelaxedMatchLimit <= 0 {
		c.RelaxedMatchLimit = defaultRelaxedMatchLimit
	}
}

// Status is the outcome of a Submit call.
type Status string

const (
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusAmbiguous Status = "AMBIGUOUS"
)

// SubmitResult reports where a record went.
type SubmitResult struct {
	Status     Status
	EntryID    uuid.UUID
	Candidates []uuid.UUID
}

// Override is an operator action recorded on a bucket; the merge engine
// turns it into a synthetic provenance row.
type Override struct {
	Kind   string
	Detail string
}

// Bucket is the working set of records believed to describe one entry.
type Bucket struct {
	EntryID uuid.UUID
	// Seq is the first-seen allocation sequence, a total order over keys.
	Seq       uint64
	Key       domain.NormalizedKey
	Records   []domain.SourceRecord
	Overrides []Override

	// pinned buckets were produced by a force-split and are excluded
	// from key matching; they only receive records via operator routing.
	pinned bool
	dirty  bool
}

// QuarantinedRecord is an ambiguous record held for operator resolution.
type QuarantinedRecord struct {
	Record     domain.SourceRecord
	SearchKey  string
	Candidates []uuid.UUID
}

type shard struct {
	mu      sync.Mutex
	byKey   map[domain.NormalizedKey]*Bucket
	buckets []*Bucket
}

type bucketRef struct {
	shard  int
	bucket *Bucket
}

// Resolver maintains the key → bucket mapping. Safe for concurrent use;
// contention is local to records sharing a search key.
type Resolver struct {
	cfg Config
	log *slog.Logger

	shards []*shard
	seq    atomic.Uint64

	mu              sync.RWMutex
	entryIndex      map[uuid.UUID]bucketRef
	quarantine      map[uuid.UUID]QuarantinedRecord
	quarantineOrder []uuid.UUID
}

// New creates a Resolver.
func New(log *slog.Logger, cfg Config) *Resolver {
	cfg.applyDefaults()
	shards := make([]*shard, cfg.Shards)
	for i := range shards {
		shards[i] = &shard{byKey: make(map[domain.NormalizedKey]*Bucket)}
	}
	return &Resolver{
		cfg:        cfg,
		log:        log,
		shards:     shards,
		entryIndex: make(map[uuid.UUID]bucketRef),
		quarantine: make(map[uuid.UUID]QuarantinedRecord),
	}
}

// Submit routes one source record into a bucket.
//
// Exact key matches join the existing bucket. Records without a declared
// POS may fall back to a (search_key, root) match; more candidates than
// the configured limit quarantines the record instead of guessing.
// A record whose surface normalizes to an empty search key is rejected.
func (r *Resolver) Submit(rec domain.SourceRecord) (SubmitResult, error) {
	if err := rec.Validate(); err != nil {
		return SubmitResult{Status: StatusRejected}, err
	}

	nf := domain.NormalizeArabic(rec.SurfaceForm)
	if nf.SearchKey == "" {
		return SubmitResult{Status: StatusRejected}, &domain.MalformedRecordError{
			SourceID: rec.SourceID,
			Reason:   "surface form normalizes to empty search key",
		}
	}

	key := recordKey(nf.SearchKey, rec)
	if rec.RecordID == uuid.Nil {
		rec.RecordID = uuid.New()
	}

	shardIdx := r.shardFor(key.SearchKey)
	sh := r.shards[shardIdx]
	sh.mu.Lock()

	// Exact triple match.
	if b, ok := sh.byKey[key]; ok {
		b.Records = append(b.Records, rec)
		b.dirty = true
		sh.mu.Unlock()
		r.dequarantine(rec.RecordID)
		return SubmitResult{Status: StatusAccepted, EntryID: b.EntryID}, nil
	}

	// Two-key fallback for POS-less records.
	if rec.DeclaredPOS == nil {
		candidates := sh.relaxedMatches(key.RelaxedKey())
		if len(candidates) > r.cfg.RelaxedMatchLimit {
			ids := make([]uuid.UUID, len(candidates))
			for i, c := range candidates {
				ids[i] = c.EntryID
			}
			sh.mu.Unlock()

			r.mu.Lock()
			if _, held := r.quarantine[rec.RecordID]; !held {
				r.quarantineOrder = append(r.quarantineOrder, rec.RecordID)
			}
			r.quarantine[rec.RecordID] = QuarantinedRecord{
				Record:     rec,
				SearchKey:  key.SearchKey,
				Candidates: ids,
			}
			r.mu.Unlock()

			r.log.Warn("record quarantined as ambiguous",
				slog.String("source", rec.SourceID),
				slog.String("search_key", key.SearchKey),
				slog.Int("candidates", len(ids)),
			)
			return SubmitResult{Status: StatusAmbiguous, Candidates: ids}, nil
		}
		if len(candidates) > 0 {
			// Oldest bucket wins within the limit.
			b := candidates[0]
			b.Records = append(b.Records, rec)
			b.dirty = true
			sh.mu.Unlock()
			r.dequarantine(rec.RecordID)
			return SubmitResult{Status: StatusAccepted, EntryID: b.EntryID}, nil
		}
	}

	// Brand-new key: allocate a bucket and an entry ID.
	b := &Bucket{
		EntryID: uuid.New(),
		Seq:     r.seq.Add(1),
		Key:     key,
		Records: []domain.SourceRecord{rec},
		dirty:   true,
	}
	sh.byKey[key] = b
	sh.buckets = append(sh.buckets, b)
	sh.mu.Unlock()

	r.mu.Lock()
	r.entryIndex[b.EntryID] = bucketRef{shard: shardIdx, bucket: b}
	r.mu.Unlock()
	r.dequarantine(rec.RecordID)

	return SubmitResult{Status: StatusAccepted, EntryID: b.EntryID}, nil
}

// dequarantine releases a held record once a resubmission of it lands in a
// bucket, so the quarantine only lists work still awaiting an operator.
func (r *Resolver) dequarantine(id uuid.UUID) {
	r.mu.RLock()
	_, held := r.quarantine[id]
	r.mu.RUnlock()
	if !held {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quarantine[id]; !ok {
		return
	}
	delete(r.quarantine, id)
	for i, qid := range r.quarantineOrder {
		if qid == id {
			r.quarantineOrder = append(r.quarantineOrder[:i], r.quarantineOrder[i+1:]...)
			break
		}
	}
}

// relaxedMatches returns non-pinned buckets matching (search_key, root),
// ordered by allocation sequence. Caller holds the shard lock.
func (s *shard) relaxedMatches(relaxed domain.NormalizedKey) []*Bucket {
	var out []*Bucket
	for _, b := range s.buckets {
		if b.pinned {
			continue
		}
		if b.Key.SearchKey == relaxed.SearchKey && b.Key.Root == relaxed.Root {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Quarantined returns copies of the ambiguous records still awaiting an
// operator, in the order they were held.
func (r *Resolver) Quarantined() []QuarantinedRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]QuarantinedRecord, 0, len(r.quarantineOrder))
	for _, id := range r.quarantineOrder {
		out = append(out, r.quarantine[id])
	}
	return out
}

// BucketView is a point-in-time copy of a bucket handed to the merge engine.
type BucketView struct {
	EntryID   uuid.UUID
	Seq       uint64
	Key       domain.NormalizedKey
	Records   []domain.SourceRecord
	Overrides []Override
}

// DirtyBuckets returns copies of buckets changed since the previous call
// and marks them clean, ordered by allocation sequence.
func (r *Resolver) DirtyBuckets() []BucketView {
	var out []BucketView
	for _, sh := range r.shards {
		sh.mu.Lock()
		for _, b := range sh.buckets {
			if !b.dirty {
				continue
			}
			b.dirty = false
			out = append(out, snapshotBucket(b))
		}
		sh.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// EntryIDBySurface resolves a raw surface form to an entry ID, used by the
// merge engine to materialize relation edges. Ambiguity across roots/POS
// resolves to the oldest bucket; pinned buckets never match.
func (r *Resolver) EntryIDBySurface(surface string) (uuid.UUID, bool) {
	nf := domain.NormalizeArabic(surface)
	if nf.SearchKey == "" {
		return uuid.Nil, false
	}
	sh := r.shards[r.shardFor(nf.SearchKey)]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	var best *Bucket
	for _, b := range sh.buckets {
		if b.pinned || b.Key.SearchKey != nf.SearchKey {
			continue
		}
		if best == nil || b.Seq < best.Seq {
			best = b
		}
	}
	if best == nil {
		return uuid.Nil, false
	}
	return best.EntryID, true
}

func (r *Resolver) shardFor(searchKey string) int {
	h := fnv.New32a()
	h.Write([]byte(searchKey))
	return int(h.Sum32() % uint32(len(r.shards)))
}

func recordKey(searchKey string, rec domain.SourceRecord) domain.NormalizedKey {
	key := domain.NormalizedKey{SearchKey: searchKey}
	if rec.DeclaredRoot != nil {
		key.Root = domain.NormalizeArabic(*rec.DeclaredRoot).SearchKey
	}
	if rec.DeclaredPOS != nil {
		key.POS = rec.DeclaredPOS.String()
	}
	return key
}

func snapshotBucket(b *Bucket) BucketView {
	records := make([]domain.SourceRecord, len(b.Records))
	copy(records, b.Records)
	overrides := make([]Override, len(b.Overrides))
	copy(overrides, b.Overrides)
	return BucketView{
		EntryID:   b.EntryID,
		Seq:       b.Seq,
		Key:       b.Key,
		Records:   records,
		Overrides: overrides,
	}
}
