package push

import (
	"context"
	"fmt"
	"log/slog"
)

// Priority hints passed to the provider.
const (
	PriorityDefault = "default"
	PriorityHigh    = "high"
)

// Message is a single push notification.
type Message struct {
	To        string
	Title     string
	Body      string
	Data      map[string]any
	Priority  string
	ChannelID string
}

func (m Message) validate() error {
	if m.To == "" {
		return ErrNoToken
	}
	if m.Title == "" && m.Body == "" {
		return ErrEmptyMessage
	}
	return nil
}

// Provider delivers a message and returns the provider's ticket or message id.
type Provider interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(ctx context.Context, cfg Config, log *slog.Logger) (Provider, error) {
	switch cfg.Provider {
	case "expo", "":
		return NewExpoClient(cfg, WithExpoLogger(log)), nil
	case "sns":
		return NewSNSClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
