package notifications

import (
	"context"
	"time"
)

// Storage persists in-app notifications.
type Storage interface {
	// Create stores a new notification.
	Create(ctx context.Context, n Notification) error
	// Get returns ErrNotificationNotFound when the record does not exist.
	Get(ctx context.Context, userID, id string) (*Notification, error)
	// List returns a page, newest first, and the total matching count.
	List(ctx context.Context, userID string, opts ListOptions) (Page, error)
	MarkRead(ctx context.Context, userID string, ids ...string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, ids ...string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// ListOptions filters and paginates List.
type ListOptions struct {
	Limit      int // 0 = no limit
	Offset     int
	OnlyUnread bool
	Types      []Type
	Since      *time.Time
}

// Page is one slice of a user's inbox.
type Page struct {
	Items []Notification `json:"data"`
	Total int            `json:"total"`
}
