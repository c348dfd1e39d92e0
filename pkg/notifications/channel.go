package notifications

import "context"

// ChannelSender delivers a Message over one channel. Send must report
// failures in the returned result instead of panicking; the orchestrator
// recovers panics anyway.
type ChannelSender interface {
	Channel() Channel
	Send(ctx context.Context, msg Message) DeliveryResult
}

// SenderFunc adapts a function to ChannelSender.
type SenderFunc struct {
	Ch Channel
	Fn func(ctx context.Context, msg Message) DeliveryResult
}

func (s SenderFunc) Channel() Channel { return s.Ch }

func (s SenderFunc) Send(ctx context.Context, msg Message) DeliveryResult {
	return s.Fn(ctx, msg)
}
