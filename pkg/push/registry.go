package push

import (
	"context"
	"sync"
)

// TokenRegistry resolves a user's device token. An empty token with a nil
// error means the user has none registered.
type TokenRegistry interface {
	GetUserPushToken(ctx context.Context, userID string) (string, error)
}

// MemoryRegistry is an in-process TokenRegistry.
type MemoryRegistry struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{tokens: make(map[string]string)}
}

func (r *MemoryRegistry) GetUserPushToken(_ context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tokens[userID], nil
}

func (r *MemoryRegistry) SetUserPushToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token == "" {
		delete(r.tokens, userID)
		return nil
	}
	r.tokens[userID] = token
	return nil
}

func (r *MemoryRegistry) RemoveUserPushToken(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}
