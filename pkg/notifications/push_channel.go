package notifications

import (
	"context"
	"errors"

	"github.com/dmitrymomot/notifykit/pkg/push"
)

// PushChannel looks up the recipient's device token and makes a single
// delivery attempt.
type PushChannel struct {
	provider push.Provider
	registry push.TokenRegistry
}

func NewPushChannel(provider push.Provider, registry push.TokenRegistry) *PushChannel {
	return &PushChannel{provider: provider, registry: registry}
}

func (c *PushChannel) Channel() Channel { return ChannelPush }

func (c *PushChannel) Send(ctx context.Context, msg Message) DeliveryResult {
	if c.provider == nil || c.registry == nil {
		return Failure(ChannelPush, ErrChannelNotConfigured)
	}

	token, err := c.registry.GetUserPushToken(ctx, msg.Recipient.ID)
	if err != nil {
		if !errors.Is(err, push.ErrRegistryFailed) {
			err = errors.Join(push.ErrRegistryFailed, err)
		}
		return Failure(ChannelPush, err)
	}
	if token == "" {
		return Failure(ChannelPush, push.ErrNoToken)
	}

	data := map[string]any(msg.Data.Clone())
	data["notificationId"] = msg.NotificationID
	data["type"] = string(msg.Type)

	prio := push.PriorityDefault
	if msg.Priority == PriorityHigh {
		prio = push.PriorityHigh
	}

	id, err := c.provider.Send(ctx, push.Message{
		To:        token,
		Title:     msg.Content.Subject,
		Body:      msg.Content.Summary,
		Data:      data,
		Priority:  prio,
		ChannelID: string(msg.Type.Category()),
	})
	if err != nil {
		res := Failure(ChannelPush, err)
		res.Attempts = 1
		return res
	}
	return DeliveryResult{Channel: ChannelPush, Success: true, MessageID: id, Attempts: 1}
}
