package email

import "errors"

var (
	ErrNotConfigured     = errors.New("SMTP not configured")
	ErrNoRecipient       = errors.New("recipient has no email address")
	ErrInvalidParams     = errors.New("invalid email parameters")
	ErrInvalidConfig     = errors.New("invalid email configuration")
	ErrFailedToSendEmail = errors.New("failed to send email")
)
