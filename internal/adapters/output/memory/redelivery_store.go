package memory

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang-line-connect/internal/ports/output"
)

// Compile-time check to ensure RedeliveryStore implements output.RedeliveryStore
var _ output.RedeliveryStore = (*RedeliveryStore)(nil)

// sweepEvery is how many marks pass between sweeps of expired entries
const sweepEvery = 1024

// RedeliveryStore struct - Output adapter remembering processed webhook event IDs in memory.
// Uses sync.Map for concurrent access; entries expire after ttl.
type RedeliveryStore struct {
	seen  sync.Map // webhookEventID -> expiry time.Time
	ttl   time.Duration
	marks atomic.Uint64
	now   func() time.Time
}

// NewRedeliveryStore creates a store that remembers each event ID for ttl
func NewRedeliveryStore(ttl time.Duration) *RedeliveryStore {
	return &RedeliveryStore{
		ttl: ttl,
		now: time.Now,
	}
}

// MarkProcessed records webhookEventID and reports whether it was seen for the first time.
// An ID whose entry has expired counts as new again.
func (s *RedeliveryStore) MarkProcessed(webhookEventID string) (bool, error) {
	if webhookEventID == "" {
		return false, errors.New("webhook event id is empty")
	}

	now := s.now()
	expiry := now.Add(s.ttl)

	if s.marks.Add(1)%sweepEvery == 0 {
		s.sweep(now)
	}

	for {
		previous, loaded := s.seen.LoadOrStore(webhookEventID, expiry)
		if !loaded {
			return true, nil
		}
		if now.Before(previous.(time.Time)) {
			return false, nil
		}
		// Expired: only one concurrent caller wins the swap
		if s.seen.CompareAndSwap(webhookEventID, previous, expiry) {
			return true, nil
		}
	}
}

// Forget drops webhookEventID, used when handling the event failed
func (s *RedeliveryStore) Forget(webhookEventID string) {
	s.seen.Delete(webhookEventID)
}

// Len returns the number of remembered event IDs, expired or not
func (s *RedeliveryStore) Len() int {
	n := 0
	s.seen.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (s *RedeliveryStore) sweep(now time.Time) {
	s.seen.Range(func(key, value any) bool {
		if !now.Before(value.(time.Time)) {
			s.seen.CompareAndDelete(key, value)
		}
		return true
	})
}
