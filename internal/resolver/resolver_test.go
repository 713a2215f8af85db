package resolver

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return New(testLogger(), Config{})
}

func senseRecord(source, surface string, root *string, pos *domain.PartOfSpeech) domain.SourceRecord {
	return domain.SourceRecord{
		SourceID:     source,
		SurfaceForm:  surface,
		DeclaredRoot: root,
		DeclaredPOS:  pos,
		Payload: domain.Payload{
			Kind:  domain.PayloadSense,
			Sense: &domain.SenseClaim{GlossEN: "gloss from " + source},
		},
		SourceConfidence: 0.8,
	}
}

func strPtr(s string) *string                        { return &s }
func posPtr(p domain.PartOfSpeech) *domain.PartOfSpeech { return &p }

func TestSubmit_ExactMatchJoinsBucket(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	res1, err := r.Submit(senseRecord("a", "كِتَاب", strPtr("كتب"), posPtr(domain.PartOfSpeechNoun)))
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, res1.Status)

	// Same key despite diacritic difference.
	res2, err := r.Submit(senseRecord("b", "كتاب", strPtr("كتب"), posPtr(domain.PartOfSpeechNoun)))
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, res2.Status)
	assert.Equal(t, res1.EntryID, res2.EntryID)

	buckets := r.DirtyBuckets()
	require.Len(t, buckets, 1)
	assert.Len(t, buckets[0].Records, 2)
}

func TestSubmit_DistinctPOSSeparateBuckets(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	res1, err := r.Submit(senseRecord("a", "ذهب", strPtr("ذهب"), posPtr(domain.PartOfSpeechNoun)))
	require.NoError(t, err)
	res2, err := r.Submit(senseRecord("a", "ذهب", strPtr("ذهب"), posPtr(domain.PartOfSpeechVerb)))
	require.NoError(t, err)

	assert.NotEqual(t, res1.EntryID, res2.EntryID)
}

func TestSubmit_RelaxedMatchForPOSLessRecord(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	res1, err := r.Submit(senseRecord("a", "كتاب", strPtr("كتب"), posPtr(domain.PartOfSpeechNoun)))
	require.NoError(t, err)

	// POS-less source joins the single existing (key, root) bucket.
	res2, err := r.Submit(senseRecord("glossary", "كتاب", strPtr("كتب"), nil))
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, res2.Status)
	assert.Equal(t, res1.EntryID, res2.EntryID)
}

func TestSubmit_AmbiguousRelaxedMatchQuarantines(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	res1, err := r.Submit(senseRecord("a", "ذهب", strPtr("ذهب"), posPtr(domain.PartOfSpeechNoun)))
	require.NoError(t, err)
	res2, err := r.Submit(senseRecord("a", "ذهب", strPtr("ذهب"), posPtr(domain.PartOfSpeechVerb)))
	require.NoError(t, err)

	res3, err := r.Submit(senseRecord("glossary", "ذهب", strPtr("ذهب"), nil))
	require.NoError(t, err)
	require.Equal(t, StatusAmbiguous, res3.Status)
	assert.ElementsMatch(t, []uuid.UUID{res1.EntryID, res2.EntryID}, res3.Candidates)

	held := r.Quarantined()
	require.Len(t, held, 1)
	assert.Equal(t, "glossary", held[0].Record.SourceID)

	// No third bucket was created.
	assert.Len(t, r.DirtyBuckets(), 2)
}

func TestSubmit_ResubmitAfterForceMergeReleasesQuarantine(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	res1, err := r.Submit(senseRecord("a", "ذهب", strPtr("ذهب"), posPtr(domain.PartOfSpeechNoun)))
	require.NoError(t, err)
	res2, err := r.Submit(senseRecord("a", "ذهب", strPtr("ذهب"), posPtr(domain.PartOfSpeechVerb)))
	require.NoError(t, err)

	res3, err := r.Submit(senseRecord("glossary", "ذهب", strPtr("ذهب"), nil))
	require.NoError(t, err)
	require.Equal(t, StatusAmbiguous, res3.Status)

	held := r.Quarantined()
	require.Len(t, held, 1)

	// Operator collapses the candidates, then feeds the held record back in.
	_, err = r.ForceMerge(res1.EntryID, res2.EntryID)
	require.NoError(t, err)

	res4, err := r.Submit(held[0].Record)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, res4.Status)
	assert.Equal(t, res1.EntryID, res4.EntryID)

	assert.Empty(t, r.Quarantined())
}

func TestSubmit_EmptySearchKeyRejected(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	// Tatweel-only surface normalizes to nothing.
	res, err := r.Submit(senseRecord("a", "ــ", nil, nil))
	require.ErrorIs(t, err, domain.ErrMalformedRecord)
	assert.Equal(t, StatusRejected, res.Status)
	assert.Empty(t, r.DirtyBuckets())
}

func TestSubmit_InvalidPayloadRejected(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	rec := senseRecord("a", "كتاب", nil, nil)
	rec.Payload.Sense = nil
	_, err := r.Submit(rec)
	require.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestSubmit_OrderIndependentBucketing(t *testing.T) {
	t.Parallel()

	recA := senseRecord("a", "كِتَاب", strPtr("كتب"), posPtr(domain.PartOfSpeechNoun))
	recB := senseRecord("b", "كتاب", strPtr("كتب"), posPtr(domain.PartOfSpeechNoun))

	r1 := newTestResolver(t)
	res1a, err := r1.Submit(recA)
	require.NoError(t, err)
	res1b, err := r1.Submit(recB)
	require.NoError(t, err)
	require.Equal(t, res1a.EntryID, res1b.EntryID)

	r2 := newTestResolver(t)
	res2b, err := r2.Submit(recB)
	require.NoError(t, err)
	res2a, err := r2.Submit(recA)
	require.NoError(t, err)
	require.Equal(t, res2b.EntryID, res2a.EntryID)

	// One bucket either way, same key, same record set.
	b1 := r1.DirtyBuckets()
	b2 := r2.DirtyBuckets()
	require.Len(t, b1, 1)
	require.Len(t, b2, 1)
	assert.Equal(t, b1[0].Key, b2[0].Key)
	assert.Equal(t, len(b1[0].Records), len(b2[0].Records))
}

func TestForceMerge(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	res1, err := r.Submit(senseRecord("a", "ذهب", strPtr("ذهب"), posPtr(domain.PartOfSpeechNoun)))
	require.NoError(t, err)
	res2, err := r.Submit(senseRecord("b", "ذهب", strPtr("ذهب"), posPtr(domain.PartOfSpeechVerb)))
	require.NoError(t, err)
	r.DirtyBuckets() // mark clean

	merged, err := r.ForceMerge(res1.EntryID, res2.EntryID)
	require.NoError(t, err)
	assert.Equal(t, res1.EntryID, merged)

	buckets := r.DirtyBuckets()
	require.Len(t, buckets, 1)
	assert.Equal(t, res1.EntryID, buckets[0].EntryID)
	assert.Len(t, buckets[0].Records, 2)
	require.Len(t, buckets[0].Overrides, 1)
	assert.Equal(t, "force-merge", buckets[0].Overrides[0].Kind)

	_, err = r.ForceMerge(res1.EntryID, res2.EntryID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestForceSplit(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	recA := senseRecord("a", "عين", strPtr("عين"), posPtr(domain.PartOfSpeechNoun))
	recA.RecordID = uuid.New()
	recB := senseRecord("b", "عين", strPtr("عين"), posPtr(domain.PartOfSpeechNoun))
	recB.RecordID = uuid.New()

	res, err := r.Submit(recA)
	require.NoError(t, err)
	_, err = r.Submit(recB)
	require.NoError(t, err)
	r.DirtyBuckets()

	newID, err := r.ForceSplit(res.EntryID, []uuid.UUID{recB.RecordID})
	require.NoError(t, err)
	require.NotEqual(t, res.EntryID, newID)

	buckets := r.DirtyBuckets()
	require.Len(t, buckets, 2)

	byID := make(map[uuid.UUID]BucketView, 2)
	for _, b := range buckets {
		byID[b.EntryID] = b
	}
	require.Len(t, byID[res.EntryID].Records, 1)
	assert.Equal(t, "a", byID[res.EntryID].Records[0].SourceID)
	require.Len(t, byID[newID].Records, 1)
	assert.Equal(t, "b", byID[newID].Records[0].SourceID)

	// The split bucket is pinned: a new exact-key record joins the original.
	recC := senseRecord("c", "عين", strPtr("عين"), posPtr(domain.PartOfSpeechNoun))
	resC, err := r.Submit(recC)
	require.NoError(t, err)
	assert.Equal(t, res.EntryID, resC.EntryID)
}

func TestForceSplit_UnknownRecords(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	res, err := r.Submit(senseRecord("a", "عين", nil, nil))
	require.NoError(t, err)

	_, err = r.ForceSplit(res.EntryID, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntryIDBySurface(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	res, err := r.Submit(senseRecord("a", "كتاب", strPtr("كتب"), posPtr(domain.PartOfSpeechNoun)))
	require.NoError(t, err)

	id, ok := r.EntryIDBySurface("كِتَاب")
	require.True(t, ok)
	assert.Equal(t, res.EntryID, id)

	_, ok = r.EntryIDBySurface("قلم")
	assert.False(t, ok)
}

func TestSubmit_ConcurrentDistinctKeys(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t)

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				surface := fmt.Sprintf("كلمة%d", w*perWorker+i)
				_, err := r.Submit(senseRecord("a", surface, nil, nil))
				if err != nil {
					t.Errorf("submit: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Len(t, r.DirtyBuckets(), workers*perWorker)
}
