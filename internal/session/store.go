package session

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/analysis"
	"github.com/talentsift/talentsift/internal/types"
)

// Entry holds one session's screening results: the per-candidate feature
// values powering what-if re-scoring and export, plus the sensitive
// attributes reserved for the fairness auditor. Nothing here survives
// session expiry.
type Entry struct {
	Batch          *analysis.BatchResult
	Sensitive      map[string]types.SensitiveAttributes
	Attribute      string
	TopK           int
	JobFingerprint string
	ExpiresAt      time.Time
}

// IsExpired checks if the session entry has expired
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Reweight returns a copy of the entry with the batch re-scored under w.
// The receiver is never mutated: handlers hold pointers to the stored
// entry across requests, and a reader iterating its ranking must not
// observe a concurrent re-score mid-write.
func (e *Entry) Reweight(w analysis.Weights) *Entry {
	batch := *e.Batch
	batch.Weights = w
	batch.Ranked = batch.Rescore(w)

	out := *e
	out.Batch = &batch
	return &out
}

// Store provides thread-safe, TTL'd in-memory session storage. It is the
// only state that outlives a single request, and it is scoped to one
// session: batches from different sessions never share vectorizer state
// or feature values.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     time.Duration
}

// NewStore creates a session store with the specified TTL.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		entries: make(map[string]*Entry),
		ttl:     ttl,
	}

	go s.cleanup()

	return s
}

// cleanup removes expired sessions periodically
func (s *Store) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		for id, e := range s.entries {
			if e.IsExpired() {
				delete(s.entries, id)
			}
		}
		s.mu.Unlock()
	}
}

// NewSessionID generates an opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Put stores a session entry, stamping its expiry.
func (s *Store) Put(id string, e *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ExpiresAt = time.Now().Add(s.ttl)
	s.entries[id] = e
}

// Get retrieves a live session entry.
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || e.IsExpired() {
		return nil, false
	}
	return e, true
}

// Resolve returns the session id a new screening should be stored under.
// An empty id starts a fresh session; so does a job change on a reused
// id, because rankings against different jobs are not comparable and
// must never share a what-if history.
func (s *Store) Resolve(id, fingerprint string) string {
	if id == "" {
		return NewSessionID()
	}
	if prev, ok := s.Get(id); ok && prev.JobFingerprint != fingerprint {
		s.Delete(id)
		return NewSessionID()
	}
	return id
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
}

// Size returns the number of live sessions.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if !e.IsExpired() {
			n++
		}
	}
	return n
}

// Fingerprint identifies a job requirement so a session can detect when
// the job or its skill lists changed and must not mix batches.
func Fingerprint(job types.JobRequirement) string {
	var b strings.Builder
	b.WriteString(job.Description)
	b.WriteByte(0)
	b.WriteString(strings.Join(job.MustHave, ","))
	b.WriteByte(0)
	b.WriteString(strings.Join(job.NiceToHave, ","))
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
