package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/retry"
)

// SMTPTransport sends mail over SMTP. One client is shared by all sends, one
// send at a time; waiting for it honors the attempt context.
type SMTPTransport struct {
	slot   chan struct{}
	client *mail.Client
	cfg    Config
	domain string
	logger *slog.Logger
}

// NewSMTPTransport configures an SMTP client from cfg. The client timeout
// bounds connect and every protocol step of a single attempt.
func NewSMTPTransport(cfg Config, log *slog.Logger) (*SMTPTransport, error) {
	if log == nil {
		log = slog.Default()
	}

	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
		mail.WithTimeout(cfg.timeout()),
	}
	if cfg.SMTPSecure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	domain := cfg.SMTPHost
	if at := strings.LastIndex(cfg.FromAddress, "@"); at >= 0 {
		domain = cfg.FromAddress[at+1:]
	}

	return &SMTPTransport{
		slot:   make(chan struct{}, 1),
		client: client,
		cfg:    cfg,
		domain: domain,
		logger: log.With(logger.Component("email.smtp")),
	}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, params SendEmailParams) (string, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(t.cfg.FromName, t.cfg.FromAddress); err != nil {
		return "", retry.Permanent(errors.Join(ErrInvalidConfig, err))
	}
	if err := msg.To(params.SendTo); err != nil {
		return "", retry.Permanent(errors.Join(ErrInvalidParams, err))
	}
	if t.cfg.ReplyTo != "" {
		if err := msg.ReplyTo(t.cfg.ReplyTo); err != nil {
			return "", retry.Permanent(errors.Join(ErrInvalidConfig, err))
		}
	}
	if params.Tag != "" {
		msg.SetGenHeader(mail.Header("X-Notification-Type"), params.Tag)
	}
	msg.Subject(params.Subject)
	msg.SetBodyString(mail.TypeTextHTML, params.BodyHTML)
	msg.SetDate()

	id := fmt.Sprintf("%s@%s", uuid.NewString(), t.domain)
	msg.SetMessageIDWithValue(id)

	select {
	case t.slot <- struct{}{}:
	case <-ctx.Done():
		return "", errors.Join(ErrFailedToSendEmail, ctx.Err())
	}
	err := t.client.DialAndSendWithContext(ctx, msg)
	<-t.slot

	if err != nil {
		var sendErr *mail.SendError
		if errors.As(err, &sendErr) && sendErr.Reason == mail.ErrSMTPRcptTo && !sendErr.IsTemp() {
			return "", retry.Permanent(errors.Join(ErrFailedToSendEmail, err))
		}
		return "", errors.Join(ErrFailedToSendEmail, err)
	}

	t.logger.DebugContext(ctx, "smtp message sent", logger.MessageID(id))
	return id, nil
}
