package notifications

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/cache"
)

// User is the recipient as seen by the notification system.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email,omitempty"`
	FullName          string    `json:"full_name,omitempty"`
	PreferredChannels []Channel `json:"preferred_channels,omitempty"`
}

// Directory resolves users. Implementations return ErrUserNotFound for
// unknown ids.
type Directory interface {
	FindUser(ctx context.Context, id string) (*User, error)
}

// MemoryDirectory is an in-process Directory.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryDirectory(users ...User) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[string]User, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

// Put adds or replaces a user.
func (d *MemoryDirectory) Put(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *MemoryDirectory) FindUser(_ context.Context, id string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.PreferredChannels = slices.Clone(u.PreferredChannels)
	return &u, nil
}

// CachedDirectory memoizes lookups of another Directory. Misses are not
// cached, so a user created after a failed lookup is found on the next call.
type CachedDirectory struct {
	next  Directory
	users *cache.LRU[string, User]
}

// NewCachedDirectory caches up to size users for ttl (0 = until evicted).
func NewCachedDirectory(next Directory, size int, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		next:  next,
		users: cache.NewLRU[string, User](max(size, 1), cache.WithTTL(ttl)),
	}
}

func (d *CachedDirectory) FindUser(ctx context.Context, id string) (*User, error) {
	if u, ok := d.users.Get(id); ok {
		u.PreferredChannels = slices.Clone(u.PreferredChannels)
		return &u, nil
	}
	u, err := d.next.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	stored := *u
	stored.PreferredChannels = slices.Clone(u.PreferredChannels)
	d.users.Put(id, stored)
	return u, nil
}

// Forget drops id from the cache.
func (d *CachedDirectory) Forget(id string) {
	d.users.Remove(id)
}
