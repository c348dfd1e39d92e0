package notifications

import "time"

// DeliveryOptions are per-call overrides. Zero values defer to the policy.
type DeliveryOptions struct {
	Channels    []Channel
	Priority    Priority
	ActionURL   string
	ActionLabel string
	Icon        string
	ExpiresAt   *time.Time
}

// DeliveryOption mutates DeliveryOptions.
type DeliveryOption func(*DeliveryOptions)

// WithChannels restricts delivery to the given channels.
func WithChannels(chs ...Channel) DeliveryOption {
	return func(o *DeliveryOptions) { o.Channels = append(o.Channels, chs...) }
}

// WithPriority overrides the policy priority.
func WithPriority(p Priority) DeliveryOption {
	return func(o *DeliveryOptions) { o.Priority = p }
}

// WithAction attaches a call-to-action link. An empty label keeps the
// template default.
func WithAction(url, label string) DeliveryOption {
	return func(o *DeliveryOptions) {
		o.ActionURL = url
		o.ActionLabel = label
	}
}

// WithIcon overrides the template icon.
func WithIcon(icon string) DeliveryOption {
	return func(o *DeliveryOptions) { o.Icon = icon }
}

// WithExpiry hides the in-app record after t.
func WithExpiry(t time.Time) DeliveryOption {
	return func(o *DeliveryOptions) { o.ExpiresAt = &t }
}

func applyOptions(opts []DeliveryOption) DeliveryOptions {
	var o DeliveryOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
