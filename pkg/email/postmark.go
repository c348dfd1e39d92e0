package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/notifykit/pkg/retry"
)

// Postmark API error codes that will not succeed on retry.
const (
	postmarkInvalidEmailRequest = 300
	postmarkSenderSignature     = 400
	postmarkInactiveRecipient   = 406
	postmarkInvalidJSON         = 402
)

type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkTransport sends mail through Postmark's transactional API.
type PostmarkTransport struct {
	client postmarkAPI
	cfg    Config
}

// NewPostmarkTransport requires a server token; the account token is optional.
func NewPostmarkTransport(cfg Config) (*PostmarkTransport, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.FromAddress) {
		return nil, fmt.Errorf("%w: EMAIL_FROM_ADDRESS must be a valid email address", ErrInvalidConfig)
	}
	return &PostmarkTransport{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		cfg:    cfg,
	}, nil
}

func (t *PostmarkTransport) Send(ctx context.Context, params SendEmailParams) (string, error) {
	from := t.cfg.FromAddress
	if t.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", t.cfg.FromName, t.cfg.FromAddress)
	}

	resp, err := t.client.SendEmail(ctx, postmark.Email{
		From:       from,
		ReplyTo:    t.cfg.ReplyTo,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return "", errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		apiErr := errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
		switch resp.ErrorCode {
		case postmarkInvalidEmailRequest, postmarkSenderSignature, postmarkInvalidJSON, postmarkInactiveRecipient:
			return "", retry.Permanent(apiErr)
		}
		return "", apiErr
	}
	return resp.MessageID, nil
}
