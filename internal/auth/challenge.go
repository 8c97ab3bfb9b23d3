package auth

import (
	"crypto/subtle"
	"strings"
	"sync"
	"time"
)

const (
	DefaultMaxEntries = 10000
	DefaultStaleAfter = 30 * time.Minute
)

// Challenge is a pending second factor for one email.
type Challenge struct {
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

// ChallengeStore holds at most one challenge per normalized email. All
// read-modify-write operations happen under a single lock.
type ChallengeStore struct {
	mu         sync.Mutex
	entries    map[string]Challenge
	maxEntries int
	staleAfter time.Duration
}

type StoreOption func(*ChallengeStore)

func WithMaxEntries(n int) StoreOption {
	return func(s *ChallengeStore) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithStaleAfter sets how long an expired record is kept (so resend can still
// find it) before Sweep removes it.
func WithStaleAfter(d time.Duration) StoreOption {
	return func(s *ChallengeStore) {
		if d >= 0 {
			s.staleAfter = d
		}
	}
}

func NewChallengeStore(opts ...StoreOption) *ChallengeStore {
	s := &ChallengeStore{
		entries:    make(map[string]Challenge),
		maxEntries: DefaultMaxEntries,
		staleAfter: DefaultStaleAfter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Put inserts or replaces the challenge for email. When the store is full and
// email is new, the record closest to expiry is evicted first.
func (s *ChallengeStore) Put(email string, c Challenge) {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[key] = c
}

func (s *ChallengeStore) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, c := range s.entries {
		if oldestKey == "" || c.ExpiresAt.Before(oldest) {
			oldestKey = k
			oldest = c.ExpiresAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}

// Get returns a copy of the record. Expired records are still returned.
func (s *ChallengeStore) Get(email string) (Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.entries[normalizeEmail(email)]
	return c, ok
}

func (s *ChallengeStore) Remove(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, normalizeEmail(email))
}

// RecordFailure increments the attempt counter and returns the new count.
// ok is false when no record exists.
func (s *ChallengeStore) RecordFailure(email string) (attempts int, ok bool) {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	c.Attempts++
	s.entries[key] = c
	return c.Attempts, true
}

// Verify checks code against the pending challenge for email and settles the
// outcome under one lock: lookup, expiry, exhaustion, compare, then either
// consume the record or count the failure. It returns nil only when the code
// matched and the record was consumed.
func (s *ChallengeStore) Verify(email, code string, now time.Time) error {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.entries[key]
	if !ok {
		return ErrNoPendingChallenge
	}
	if now.After(c.ExpiresAt) {
		delete(s.entries, key)
		return ErrChallengeExpired
	}
	if c.Attempts >= MaxAttempts {
		delete(s.entries, key)
		return ErrChallengeExhausted
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(c.Code)) != 1 {
		c.Attempts++
		if c.Attempts >= MaxAttempts {
			delete(s.entries, key)
			return ErrChallengeExhausted
		}
		s.entries[key] = c
		return ErrInvalidCode
	}

	delete(s.entries, key)
	return nil
}

func (s *ChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Sweep removes records that expired more than the stale window before now
// and returns how many were removed.
func (s *ChallengeStore) Sweep(now time.Time) int {
	cutoff := now.Add(-s.staleAfter)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, c := range s.entries {
		if c.ExpiresAt.Before(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}
