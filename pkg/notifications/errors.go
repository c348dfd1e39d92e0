package notifications

import "errors"

var (
	ErrRecipientRequired    = errors.New("recipient user id is required")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrChannelNotRegistered = errors.New("channel not registered")
	ErrChannelNotConfigured = errors.New("channel not configured")
	ErrChannelPanicked      = errors.New("channel sender panicked")
	ErrInvalidNotification  = errors.New("invalid notification")
	ErrInvalidPolicy        = errors.New("invalid delivery policy")
)
