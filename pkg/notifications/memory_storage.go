package notifications

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage for development and tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	inbox map[string][]Notification // userID -> notifications
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{inbox: make(map[string][]Notification)}
}

func (s *MemoryStorage) Create(_ context.Context, n Notification) error {
	if n.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidNotification)
	}
	if n.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidNotification)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inbox[n.UserID] = append(s.inbox[n.UserID], n)
	return nil
}

func (s *MemoryStorage) Get(_ context.Context, userID, id string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.inbox[userID] {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func (s *MemoryStorage) List(_ context.Context, userID string, opts ListOptions) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Notification
	for _, n := range s.inbox[userID] {
		if n.IsExpired() {
			continue
		}
		if opts.OnlyUnread && n.Read {
			continue
		}
		if len(opts.Types) > 0 && !slices.Contains(opts.Types, n.Type) {
			continue
		}
		if opts.Since != nil && n.CreatedAt.Before(*opts.Since) {
			continue
		}
		matched = append(matched, n)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := Page{Items: []Notification{}, Total: len(matched)}
	start := max(opts.Offset, 0)
	if start >= len(matched) {
		return page, nil
	}
	end := len(matched)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	page.Items = append(page.Items, matched[start:end]...)
	return page, nil
}

func (s *MemoryStorage) MarkRead(_ context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inbox := s.inbox[userID]
	for i := range inbox {
		if slices.Contains(ids, inbox[i].ID) {
			inbox[i].MarkAsRead()
		}
	}
	return nil
}

func (s *MemoryStorage) MarkAllRead(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inbox := s.inbox[userID]
	for i := range inbox {
		inbox[i].MarkAsRead()
	}
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inbox[userID] = slices.DeleteFunc(s.inbox[userID], func(n Notification) bool {
		return slices.Contains(ids, n.ID)
	})
	return nil
}

func (s *MemoryStorage) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.inbox[userID] {
		if !n.Read && !n.IsExpired() {
			count++
		}
	}
	return count, nil
}
