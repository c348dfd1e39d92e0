package notifier

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown backend")
	ErrInvalidLocale  = errors.New("invalid locale")
	ErrSetupFailed    = errors.New("notifier setup failed")
)
