package notifications

import (
	"context"
	"time"
)

// InAppChannel persists notifications to a user's inbox and serves reads
// from it.
type InAppChannel struct {
	storage Storage
	now     func() time.Time
}

func NewInAppChannel(storage Storage) *InAppChannel {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &InAppChannel{storage: storage, now: time.Now}
}

func (c *InAppChannel) Channel() Channel { return ChannelInApp }

func (c *InAppChannel) Send(ctx context.Context, msg Message) DeliveryResult {
	n := Notification{
		ID:          msg.NotificationID,
		UserID:      msg.Recipient.ID,
		Type:        msg.Type,
		Priority:    msg.Priority,
		Title:       msg.Content.Subject,
		Body:        msg.Content.Summary,
		ActionURL:   msg.ActionURL,
		ActionLabel: msg.Content.ActionLabel,
		Icon:        msg.Content.Icon,
		Data:        msg.Data.Clone(),
		CreatedAt:   c.now(),
		ExpiresAt:   msg.ExpiresAt,
	}
	if err := c.storage.Create(ctx, n); err != nil {
		res := Failure(ChannelInApp, err)
		res.Attempts = 1
		return res
	}
	return DeliveryResult{Channel: ChannelInApp, Success: true, MessageID: n.ID, Attempts: 1}
}

// List returns a page of the user's inbox, newest first.
func (c *InAppChannel) List(ctx context.Context, userID string, opts ListOptions) (Page, error) {
	return c.storage.List(ctx, userID, opts)
}

func (c *InAppChannel) Get(ctx context.Context, userID, id string) (*Notification, error) {
	return c.storage.Get(ctx, userID, id)
}

func (c *InAppChannel) CountUnread(ctx context.Context, userID string) (int, error) {
	return c.storage.CountUnread(ctx, userID)
}

func (c *InAppChannel) MarkRead(ctx context.Context, userID string, ids ...string) error {
	return c.storage.MarkRead(ctx, userID, ids...)
}

func (c *InAppChannel) MarkAllRead(ctx context.Context, userID string) error {
	return c.storage.MarkAllRead(ctx, userID)
}

func (c *InAppChannel) Delete(ctx context.Context, userID string, ids ...string) error {
	return c.storage.Delete(ctx, userID, ids...)
}
