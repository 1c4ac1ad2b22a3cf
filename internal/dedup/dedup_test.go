package dedup

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCheckAndMarkDuplicateWithinTTL(t *testing.T) {
	t.Parallel()
	s := New(time.Hour)
	now := time.Now()

	if s.CheckAndMark("abc", now) {
		t.Fatal("first sighting reported as duplicate")
	}
	if !s.CheckAndMark("abc", now.Add(time.Minute)) {
		t.Fatal("second sighting within TTL not reported as duplicate")
	}
	if s.CheckAndMark("other", now.Add(time.Minute)) {
		t.Fatal("unrelated id reported as duplicate")
	}
}

func TestCheckAndMarkExpiry(t *testing.T) {
	t.Parallel()
	ttl := time.Hour
	s := New(ttl)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if s.CheckAndMark("abc", at) {
		t.Fatal("first sighting reported as duplicate")
	}
	if !s.CheckAndMark("abc", at.Add(ttl-time.Second)) {
		t.Fatal("expected duplicate just before expiry")
	}
	// Marked at T is new again at exactly T+TTL.
	if s.CheckAndMark("abc", at.Add(ttl)) {
		t.Fatal("expected id to be new again at T+TTL")
	}
}

func TestPurge(t *testing.T) {
	t.Parallel()
	s := New(time.Minute)
	now := time.Now()

	for i := 0; i < 10; i++ {
		s.CheckAndMark(fmt.Sprintf("ev-%d", i), now)
	}
	if got := s.Len(); got != 10 {
		t.Fatalf("Len = %d, want 10", got)
	}
	if removed := s.Purge(now.Add(30 * time.Second)); removed != 0 {
		t.Fatalf("removed %d records before expiry", removed)
	}
	if removed := s.Purge(now.Add(2 * time.Minute)); removed != 10 {
		t.Fatalf("removed %d expired records, want 10", removed)
	}
	if got := s.Len(); got != 0 {
		t.Fatalf("Len = %d after purge, want 0", got)
	}
}

func TestConcurrentCheckAndMarkSingleWinner(t *testing.T) {
	t.Parallel()
	s := New(time.Hour)
	now := time.Now()

	const n = 64
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		mu    sync.Mutex
		fresh int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if !s.CheckAndMark("same-id", now) {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	if fresh != 1 {
		t.Fatalf("expected exactly one first sighting, got %d", fresh)
	}
}
