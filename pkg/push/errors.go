package push

import "errors"

var (
	ErrNoToken         = errors.New("no push token registered")
	ErrTokenInvalid    = errors.New("push token is invalid or no longer registered")
	ErrDeliveryFailed  = errors.New("push delivery failed")
	ErrInvalidConfig   = errors.New("invalid push configuration")
	ErrRegistryFailed  = errors.New("push token registry failed")
	ErrEmptyMessage    = errors.New("push message has no title or body")
	ErrUnknownProvider = errors.New("unknown push provider")
)
