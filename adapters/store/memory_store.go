package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the NonceStore interface.
// It is the default store; nonces do not survive a restart.
type MemoryStore struct {
	nonces map[string]time.Time
	ttl    time.Duration
	mu     sync.Mutex
}

// NewMemoryStore creates a new in-memory nonce store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		nonces: make(map[string]time.Time),
		ttl:    ttl,
	}
}

// Issue creates a 128-bit random nonce and records it with an expiry
func (s *MemoryStore) Issue(_ context.Context) (string, error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.nonces[nonce] = time.Now().Add(s.ttl)
	s.mu.Unlock()

	return nonce, nil
}

// Consume removes the nonce and reports whether it was present and unexpired.
// The check and the delete happen under a single lock hold so that two
// concurrent callers can never both spend the same nonce.
func (s *MemoryStore) Consume(_ context.Context, nonce string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.nonces[nonce]
	if !ok {
		return false, nil
	}
	delete(s.nonces, nonce)

	// A present but expired nonce is removed and rejected
	return time.Now().Before(expiry), nil
}

// Sweep removes all expired entries
func (s *MemoryStore) Sweep(_ context.Context) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for nonce, expiry := range s.nonces {
		if !expiry.After(now) {
			delete(s.nonces, nonce)
		}
	}

	return nil
}

// generateNonce returns a hex-encoded 128-bit random value
func generateNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
