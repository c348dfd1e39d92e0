package notifications

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Mailer is the part of email.Mailer the email channel uses.
type Mailer interface {
	Send(ctx context.Context, params email.SendEmailParams) email.Result
}

// EmailChannel delivers the rendered HTML document by email. Retries,
// dry-run and configuration checks belong to the Mailer.
type EmailChannel struct {
	mailer Mailer
	logger *slog.Logger
}

// EmailChannelOption configures an EmailChannel.
type EmailChannelOption func(*EmailChannel)

// WithEmailChannelLogger sets the logger.
func WithEmailChannelLogger(l *slog.Logger) EmailChannelOption {
	return func(c *EmailChannel) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewEmailChannel(m Mailer, opts ...EmailChannelOption) *EmailChannel {
	c := &EmailChannel{mailer: m, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *EmailChannel) Channel() Channel { return ChannelEmail }

func (c *EmailChannel) Send(ctx context.Context, msg Message) DeliveryResult {
	if c.mailer == nil {
		return Failure(ChannelEmail, ErrChannelNotConfigured)
	}

	res := c.mailer.Send(ctx, email.SendEmailParams{
		SendTo:   msg.Recipient.Email,
		Subject:  msg.Content.Subject,
		BodyHTML: msg.Content.HTML,
		Tag:      msg.Type.TemplateName(),
	})
	if !res.Success {
		out := Failure(ChannelEmail, res.Err)
		if res.Error != "" {
			out.Error = res.Error
		}
		out.Attempts = len(res.Attempts)
		return out
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "email delivered",
		logger.NotificationID(msg.NotificationID),
		logger.MessageID(res.MessageID),
	)
	return DeliveryResult{
		Channel:   ChannelEmail,
		Success:   true,
		MessageID: res.MessageID,
		Attempts:  len(res.Attempts),
	}
}
