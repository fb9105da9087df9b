package pending

import (
	"context"
	"sync"
	"time"

	"paystack-donation-api/models"
)

type memoryEntry struct {
	donation  models.PendingDonation
	expiresAt time.Time
}

// MemoryStore is a single-process Store used when Redis is not configured.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[string]memoryEntry
	verified map[string]time.Time
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		entries:  make(map[string]memoryEntry),
		verified: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, donation models.PendingDonation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[donation.Reference] = memoryEntry{
		donation:  donation,
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, reference string) (*models.PendingDonation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[reference]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, reference)
		return nil, ErrNotFound
	}
	donation := entry.donation
	return &donation, nil
}

func (s *MemoryStore) Delete(_ context.Context, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, reference)
	return nil
}

func (s *MemoryStore) MarkVerified(_ context.Context, reference string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	if _, ok := s.verified[reference]; ok {
		return false, nil
	}
	s.verified[reference] = now
	return true, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// sweep drops expired pending entries and verified markers. Callers hold mu.
func (s *MemoryStore) sweep(now time.Time) {
	for ref, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, ref)
		}
	}
	for ref, at := range s.verified {
		if now.Sub(at) >= VerifiedTTL {
			delete(s.verified, ref)
		}
	}
}

func (s *MemoryStore) counts() (pendingCount, verifiedCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), len(s.verified)
}
