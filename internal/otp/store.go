package otp

import (
	"context"
	"sync"
	"time"

	"shoes-store/internal/model"
)

// Store persists at most one live challenge per phone number.
type Store interface {
	// Upsert creates or overwrites the challenge for c.PhoneNumber.
	Upsert(ctx context.Context, c *model.OtpChallenge) error

	// Get returns the challenge for phone, or nil if there is none.
	Get(ctx context.Context, phone string) (*model.OtpChallenge, error)

	// Delete removes the challenge for phone, if any.
	Delete(ctx context.Context, phone string) error

	// Consume removes the challenge for phone only if its digest equals
	// codeHash, and reports whether a challenge was removed.
	Consume(ctx context.Context, phone, codeHash string) (bool, error)

	// DeleteExpired removes every challenge whose expiry is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// MemoryStore is an in-memory Store used in tests and single-node setups.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]model.OtpChallenge
}

// NewMemoryStore returns an empty in-memory challenge store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]model.OtpChallenge)}
}

func (s *MemoryStore) Upsert(ctx context.Context, c *model.OtpChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[c.PhoneNumber] = *c
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, phone string) (*model.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.m[phone]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, phone)
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, phone, codeHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.m[phone]
	if !ok || c.CodeHash != codeHash {
		return false, nil
	}
	delete(s.m, phone)
	return true, nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for phone, c := range s.m {
		if c.Expired(now) {
			delete(s.m, phone)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored challenges.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
