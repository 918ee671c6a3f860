package service

import (
	"context"
	"sync"
)

// TokenBlacklist is the revocation store consulted before a token's signature is trusted
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// memoryTokenBlacklist keeps revoked tokens for the life of the process.
// Entries are never evicted, and a restart forgets every revocation.
type memoryTokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

// NewMemoryTokenBlacklist creates a process-local TokenBlacklist
func NewMemoryTokenBlacklist() TokenBlacklist {
	return &memoryTokenBlacklist{
		tokens: make(map[string]struct{}),
	}
}

func (b *memoryTokenBlacklist) Revoke(_ context.Context, token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = struct{}{}
	return nil
}

func (b *memoryTokenBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.tokens[token]
	return ok, nil
}
