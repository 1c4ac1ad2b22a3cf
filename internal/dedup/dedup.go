// Package dedup suppresses repeated webhook deliveries of the same event id
// within a retention window.
package dedup

import (
	"sync"
	"time"
)

// Store tracks event ids with their first-seen timestamps.
// Safe for concurrent use. Construct with New; the zero value is not usable.
type Store struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
}

// New creates a store retaining ids for ttl.
// ttl must be positive; config validation rejects anything else at startup.
func New(ttl time.Duration) *Store {
	return &Store{ttl: ttl, seen: make(map[string]time.Time)}
}

// CheckAndMark reports whether id was already recorded within the TTL window,
// recording it with timestamp now otherwise. Expired records are swept in the
// same critical section, so concurrent calls for one unseen id resolve to
// exactly one first sighting.
func (s *Store) CheckAndMark(id string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)
	if _, ok := s.seen[id]; ok {
		return true
	}
	s.seen[id] = now
	return false
}

// Purge sweeps expired records outside the request path and returns how many
// were dropped. Used by the background janitor so quiet periods do not leave
// stale ids resident.
func (s *Store) Purge(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.seen)
	s.sweepLocked(now)
	return before - len(s.seen)
}

// Len reports the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// sweepLocked drops records aged ttl or more. An id marked at T is new again
// at T+ttl. Wall-clock time is best-effort: a clock stepping backwards only
// shifts expiry, it cannot corrupt the store.
func (s *Store) sweepLocked(now time.Time) {
	cutoff := now.Add(-s.ttl)
	for id, at := range s.seen {
		if !at.After(cutoff) {
			delete(s.seen, id)
		}
	}
}
