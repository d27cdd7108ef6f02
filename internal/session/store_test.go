package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/internal/analysis"
	"github.com/talentsift/talentsift/internal/types"
)

func testEntry() *Entry {
	return &Entry{
		Batch: &analysis.BatchResult{
			Features: []analysis.FeatureSet{{CandidateID: "c1"}},
		},
		Sensitive: map[string]types.SensitiveAttributes{
			"c1": {"gender": "x"},
		},
		Attribute: "gender",
	}
}

func TestStorePutGet(t *testing.T) {
	store := NewStore(time.Hour)

	id := NewSessionID()
	require.NotEmpty(t, id)
	store.Put(id, testEntry())

	got, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "gender", got.Attribute)
	assert.Len(t, got.Batch.Features, 1)
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore(time.Hour)

	_, ok := store.Get("no-such-session")
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(10 * time.Millisecond)

	store.Put("s1", testEntry())
	_, ok := store.Get("s1")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = store.Get("s1")
	assert.False(t, ok, "expired sessions must not be returned")
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(time.Hour)

	store.Put("s1", testEntry())
	store.Delete("s1")

	_, ok := store.Get("s1")
	assert.False(t, ok)
}

func TestStoreSize(t *testing.T) {
	store := NewStore(time.Hour)
	assert.Zero(t, store.Size())

	store.Put("s1", testEntry())
	store.Put("s2", testEntry())
	assert.Equal(t, 2, store.Size())
}

func TestNewSessionIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func rescoredEntry() *Entry {
	batch := &analysis.BatchResult{
		Features: []analysis.FeatureSet{
			{CandidateID: "c1", Semantic: 0.9, Coverage: types.Coverage{MustHaveScore: 0.2}},
			{CandidateID: "c2", Semantic: 0.1, Coverage: types.Coverage{MustHaveScore: 1.0}},
		},
		Weights: analysis.DefaultWeights(),
	}
	batch.Ranked = batch.Rescore(batch.Weights)
	return &Entry{Batch: batch}
}

func TestEntryReweightDoesNotMutateReceiver(t *testing.T) {
	entry := rescoredEntry()
	require.Equal(t, "c2", entry.Batch.Ranked[0].CandidateID,
		"coverage-heavy defaults rank c2 first")

	semanticOnly := analysis.Weights{Semantic: 1.0, Consistency: 1.0}
	updated := entry.Reweight(semanticOnly)

	require.NotSame(t, entry, updated)
	require.NotSame(t, entry.Batch, updated.Batch)
	assert.Equal(t, "c1", updated.Batch.Ranked[0].CandidateID)

	// The original entry still carries the old weights and ranking.
	assert.Equal(t, analysis.DefaultWeights(), entry.Batch.Weights)
	assert.Equal(t, "c2", entry.Batch.Ranked[0].CandidateID)
}

func TestStoreConcurrentReweightAndRead(t *testing.T) {
	store := NewStore(time.Hour)
	store.Put("s1", rescoredEntry())

	semanticOnly := analysis.Weights{Semantic: 1.0, Consistency: 1.0}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			entry, ok := store.Get("s1")
			if !ok {
				continue
			}
			store.Put("s1", entry.Reweight(semanticOnly))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			entry, ok := store.Get("s1")
			if !ok {
				continue
			}
			for _, sc := range entry.Batch.Ranked {
				_ = sc.FinalScore
			}
		}
	}()
	wg.Wait()

	entry, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "c1", entry.Batch.Ranked[0].CandidateID)
}

func TestStoreResolve(t *testing.T) {
	store := NewStore(time.Hour)
	fp := Fingerprint(types.JobRequirement{Description: "python developer"})

	id := store.Resolve("", fp)
	assert.NotEmpty(t, id, "empty id starts a fresh session")

	store.Put(id, testEntryWithFingerprint(fp))
	assert.Equal(t, id, store.Resolve(id, fp),
		"re-screening the same job keeps the session")

	changed := Fingerprint(types.JobRequirement{Description: "sql developer"})
	fresh := store.Resolve(id, changed)
	assert.NotEqual(t, id, fresh, "a job change must not reuse the session")

	_, ok := store.Get(id)
	assert.False(t, ok, "the stale session is dropped on job change")
}

func testEntryWithFingerprint(fp string) *Entry {
	e := testEntry()
	e.JobFingerprint = fp
	return e
}

func TestFingerprint(t *testing.T) {
	job := types.JobRequirement{
		Description: "python developer",
		MustHave:    []string{"python"},
		NiceToHave:  []string{"airflow"},
	}

	assert.Equal(t, Fingerprint(job), Fingerprint(job), "fingerprint is deterministic")

	changed := job
	changed.MustHave = []string{"python", "sql"}
	assert.NotEqual(t, Fingerprint(job), Fingerprint(changed),
		"changing the skill lists must change the fingerprint")

	reworded := job
	reworded.Description = "python  developer"
	assert.NotEqual(t, Fingerprint(job), Fingerprint(reworded))
}
