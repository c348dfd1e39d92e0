package email

import (
	"context"
	"fmt"
	"log/slog"
)

// Transport performs a single delivery attempt and returns the provider's
// message id. Implementations must be safe for concurrent use. Errors that
// will not improve on retry should be wrapped with retry.Permanent.
type Transport interface {
	Send(ctx context.Context, params SendEmailParams) (string, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, params SendEmailParams) (string, error)

func (f TransportFunc) Send(ctx context.Context, params SendEmailParams) (string, error) {
	return f(ctx, params)
}

// NewTransport builds the live transport selected by cfg.Provider.
// It returns ErrNotConfigured when cfg is not usable.
func NewTransport(cfg Config, logger *slog.Logger) (Transport, error) {
	if !cfg.Usable() {
		return nil, ErrNotConfigured
	}
	switch cfg.Provider {
	case ProviderPostmark:
		return NewPostmarkTransport(cfg)
	case ProviderSMTP, "":
		return NewSMTPTransport(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
