// Package contextstore implements the in-memory conversation context cache.
//
// The cache holds the recent exchange history per client so prompts can carry
// context without a database read on the hot path. Entries expire after a TTL
// measured from the last write; a read never extends the lifetime. The store
// is process-local and guarded by a mutex, with opportunistic garbage
// collection of expired entries during lookups to bound memory.
//
// Notes:
//   - For horizontally scaled deployments, prefer a shared cache (e.g.,
//     Redis-backed) so all replicas see the same history.
//   - Losing an entry only degrades reply quality; the durable conversation
//     log lives in the database.
package contextstore

import (
	"strconv"
	"sync"
	"time"

	"github.com/mvbarros/go-order-backend/internal/domain"
)

// entry holds one client's history and its expiry deadline.
type entry struct {
	turns     []domain.Turn
	expiresAt time.Time
}

// Store is an in-memory TTL cache of conversation turns keyed by client.
//
// This type is safe for concurrent use. Concurrent appends for the same key
// are serialized by the mutex; the last writer wins.
type Store struct {
	ttl      time.Duration
	maxTurns int

	mu       sync.Mutex
	entries  map[string]*entry
	cleanupN uint64

	// now is a seam for tests.
	now func() time.Time
}

// New constructs a Store with the given entry TTL and a cap on retained
// turns per client. maxTurns <= 0 disables trimming.
func New(ttl time.Duration, maxTurns int) *Store {
	return &Store{
		ttl:      ttl,
		maxTurns: maxTurns,
		entries:  make(map[string]*entry),
		now:      time.Now,
	}
}

// Key returns the cache key for a client ID.
func Key(clientID string) string { return "contexto_cliente_" + clientID }

// Load returns a copy of the cached turns for clientID. A missing or expired
// entry yields an empty history, never an error.
func (s *Store) Load(clientID string) []domain.Turn {
	key := Key(clientID)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gcLocked(now)

	e, ok := s.entries[key]
	if !ok || !now.Before(e.expiresAt) {
		return nil
	}
	out := make([]domain.Turn, len(e.turns))
	copy(out, e.turns)
	return out
}

// Append records one exchange (user message + assistant reply) for clientID
// and resets the entry's TTL. The oldest turns are dropped when the per-key
// cap is exceeded.
func (s *Store) Append(clientID, message, reply string) {
	key := Key(clientID)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gcLocked(now)

	e, ok := s.entries[key]
	if !ok || !now.Before(e.expiresAt) {
		e = &entry{}
		s.entries[key] = e
	}
	e.turns = append(e.turns,
		domain.Turn{Role: domain.RoleUser, Content: message},
		domain.Turn{Role: domain.RoleAssistant, Content: reply},
	)
	if s.maxTurns > 0 && len(e.turns) > 2*s.maxTurns {
		e.turns = e.turns[len(e.turns)-2*s.maxTurns:]
	}
	e.expiresAt = now.Add(s.ttl)
}

// Clear drops the cached history for clientID, if any.
func (s *Store) Clear(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, Key(clientID))
}

// Len reports the number of live (non-expired) entries. Intended for metrics
// and tests.
func (s *Store) Len() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// gcLocked evicts expired entries after a threshold of lookups, then resets
// the counter. Callers must hold s.mu.
func (s *Store) gcLocked(now time.Time) {
	s.cleanupN++
	if s.cleanupN < 5000 {
		return
	}
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.cleanupN = 0
}

// String implements fmt.Stringer for debug logging.
func (s *Store) String() string {
	return "contextstore.Store(ttl=" + s.ttl.String() + ", maxTurns=" + strconv.Itoa(s.maxTurns) + ")"
}
