package notifications

import (
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notifications/templates"
)

// Message is what a ChannelSender receives: a resolved recipient and content
// rendered once for all channels.
type Message struct {
	NotificationID string
	Type           Type
	Priority       Priority
	Recipient      User
	Content        templates.Content
	Data           Data
	ActionURL      string
	ExpiresAt      *time.Time
}

// DeliveryResult is the outcome of one channel.
type DeliveryResult struct {
	Channel   Channel       `json:"channel"`
	Success   bool          `json:"success"`
	MessageID string        `json:"message_id,omitempty"`
	Error     string        `json:"error,omitempty"`
	Err       error         `json:"-"`
	Attempts  int           `json:"attempts"`
	Duration  time.Duration `json:"duration"`
}

// Failure builds a failed result for ch.
func Failure(ch Channel, err error) DeliveryResult {
	r := DeliveryResult{Channel: ch, Err: err}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Report aggregates the results of one Notify call, in dispatch order.
type Report struct {
	NotificationID string           `json:"notification_id"`
	UserID         string           `json:"user_id"`
	Type           Type             `json:"type"`
	Priority       Priority         `json:"priority"`
	Results        []DeliveryResult `json:"results"`
}

// Result returns the result for ch.
func (r *Report) Result(ch Channel) (DeliveryResult, bool) {
	for _, res := range r.Results {
		if res.Channel == ch {
			return res, true
		}
	}
	return DeliveryResult{}, false
}

// Succeeded reports whether ch was attempted and succeeded.
func (r *Report) Succeeded(ch Channel) bool {
	res, ok := r.Result(ch)
	return ok && res.Success
}

// Failed returns the failed results.
func (r *Report) Failed() []DeliveryResult {
	var out []DeliveryResult
	for _, res := range r.Results {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}

// Delivered counts successful channels.
func (r *Report) Delivered() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}
