package notifications_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notifications"
	"github.com/dmitrymomot/notifykit/pkg/notifications/templates"
	"github.com/dmitrymomot/notifykit/pkg/push"
	"github.com/dmitrymomot/notifykit/pkg/retry"
)

func testMessage() notifications.Message {
	return notifications.Message{
		NotificationID: "notif-1",
		Type:           notifications.TypePaymentFailed,
		Priority:       notifications.PriorityHigh,
		Recipient:      notifications.User{ID: "user-1", Email: "jane@example.com", FullName: "Jane"},
		Content: templates.Content{
			Subject:     "Payment failed",
			Summary:     "Your payment of USD 20 failed.",
			HTML:        "<p>Your payment failed.</p>",
			Icon:        "credit-card-off",
			ActionLabel: "Retry payment",
		},
		Data:      notifications.Data{"amount": 20, "currency": "USD"},
		ActionURL: "https://app.example.com/billing",
	}
}

func liveConfig() email.Config {
	return email.Config{
		Provider:     email.ProviderSMTP,
		Mode:         email.ModeLive,
		SMTPHost:     "smtp.mailhost.test",
		SMTPPort:     587,
		SMTPUsername: "user",
		SMTPPassword: "secret",
		FromAddress:  "noreply@mailhost.test",
	}
}

func newTestMailer(t *testing.T, cfg email.Config, tr email.TransportFunc) *email.Mailer {
	t.Helper()
	policy := retry.DefaultPolicy()
	policy.Sleep = func(context.Context, time.Duration) error { return nil }
	m, err := email.New(cfg,
		email.WithTransport(tr),
		email.WithRetryPolicy(policy),
		email.WithMailerLogger(logger.Discard()),
	)
	require.NoError(t, err)
	return m
}

func TestEmailChannel_Send(t *testing.T) {
	t.Parallel()

	t.Run("delivers rendered content", func(t *testing.T) {
		t.Parallel()
		var got email.SendEmailParams
		m := newTestMailer(t, liveConfig(), func(_ context.Context, p email.SendEmailParams) (string, error) {
			got = p
			return "msg-1", nil
		})

		res := notifications.NewEmailChannel(m).Send(context.Background(), testMessage())

		require.True(t, res.Success, res.Error)
		assert.Equal(t, notifications.ChannelEmail, res.Channel)
		assert.Equal(t, "msg-1", res.MessageID)
		assert.Equal(t, 1, res.Attempts)
		assert.Equal(t, "jane@example.com", got.SendTo)
		assert.Equal(t, "Payment failed", got.Subject)
		assert.Equal(t, "<p>Your payment failed.</p>", got.BodyHTML)
		assert.Equal(t, "payment_failed", got.Tag)
	})

	t.Run("reports exhaustion with attempt count", func(t *testing.T) {
		t.Parallel()
		m := newTestMailer(t, liveConfig(), func(context.Context, email.SendEmailParams) (string, error) {
			return "", errors.New("connection refused")
		})

		res := notifications.NewEmailChannel(m).Send(context.Background(), testMessage())

		assert.False(t, res.Success)
		assert.Equal(t, 3, res.Attempts)
		assert.Contains(t, res.Error, "connection refused")
		assert.ErrorIs(t, res.Err, email.ErrFailedToSendEmail)
	})

	t.Run("unconfigured mailer", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		m := newTestMailer(t, email.Config{Mode: email.ModeLive, SMTPHost: email.DefaultSMTPHost},
			func(context.Context, email.SendEmailParams) (string, error) {
				calls.Add(1)
				return "x", nil
			})

		res := notifications.NewEmailChannel(m).Send(context.Background(), testMessage())

		assert.False(t, res.Success)
		assert.Equal(t, "SMTP not configured", res.Error)
		assert.ErrorIs(t, res.Err, email.ErrNotConfigured)
		assert.Zero(t, calls.Load())
	})

	t.Run("recipient without email", func(t *testing.T) {
		t.Parallel()
		m := newTestMailer(t, liveConfig(), func(context.Context, email.SendEmailParams) (string, error) {
			return "x", nil
		})
		msg := testMessage()
		msg.Recipient.Email = ""

		res := notifications.NewEmailChannel(m).Send(context.Background(), msg)

		assert.False(t, res.Success)
		assert.Equal(t, "recipient has no email address", res.Error)
		assert.Zero(t, res.Attempts)
	})

	t.Run("nil mailer", func(t *testing.T) {
		t.Parallel()
		res := notifications.NewEmailChannel(nil).Send(context.Background(), testMessage())
		assert.ErrorIs(t, res.Err, notifications.ErrChannelNotConfigured)
	})
}

type fakeProvider struct {
	id   string
	err  error
	last push.Message
	hits int
}

func (f *fakeProvider) Send(_ context.Context, msg push.Message) (string, error) {
	f.hits++
	f.last = msg
	return f.id, f.err
}

type failingRegistry struct{}

func (failingRegistry) GetUserPushToken(context.Context, string) (string, error) {
	return "", errors.New("redis down")
}

func TestPushChannel_Send(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("delivers with hints", func(t *testing.T) {
		t.Parallel()
		reg := push.NewMemoryRegistry()
		require.NoError(t, reg.SetUserPushToken(ctx, "user-1", "ExponentPushToken[abc]"))
		prov := &fakeProvider{id: "ticket-1"}
		msg := testMessage()

		res := notifications.NewPushChannel(prov, reg).Send(ctx, msg)

		require.True(t, res.Success, res.Error)
		assert.Equal(t, "ticket-1", res.MessageID)
		assert.Equal(t, 1, res.Attempts)
		assert.Equal(t, "ExponentPushToken[abc]", prov.last.To)
		assert.Equal(t, "Payment failed", prov.last.Title)
		assert.Equal(t, "Your payment of USD 20 failed.", prov.last.Body)
		assert.Equal(t, push.PriorityHigh, prov.last.Priority)
		assert.Equal(t, "payments", prov.last.ChannelID)
		assert.Equal(t, "notif-1", prov.last.Data["notificationId"])
		assert.Equal(t, "PAYMENT_FAILED", prov.last.Data["type"])
		assert.NotContains(t, msg.Data, "notificationId")
	})

	t.Run("default priority", func(t *testing.T) {
		t.Parallel()
		reg := push.NewMemoryRegistry()
		require.NoError(t, reg.SetUserPushToken(ctx, "user-1", "tok"))
		prov := &fakeProvider{id: "ticket-1"}
		msg := testMessage()
		msg.Priority = notifications.PriorityNormal

		notifications.NewPushChannel(prov, reg).Send(ctx, msg)
		assert.Equal(t, push.PriorityDefault, prov.last.Priority)
	})

	t.Run("no token", func(t *testing.T) {
		t.Parallel()
		prov := &fakeProvider{}
		res := notifications.NewPushChannel(prov, push.NewMemoryRegistry()).Send(ctx, testMessage())

		assert.False(t, res.Success)
		assert.Equal(t, "no push token registered", res.Error)
		assert.Zero(t, prov.hits)
	})

	t.Run("registry failure", func(t *testing.T) {
		t.Parallel()
		prov := &fakeProvider{}
		res := notifications.NewPushChannel(prov, failingRegistry{}).Send(ctx, testMessage())

		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, push.ErrRegistryFailed)
		assert.Zero(t, prov.hits)
	})

	t.Run("provider failure", func(t *testing.T) {
		t.Parallel()
		reg := push.NewMemoryRegistry()
		require.NoError(t, reg.SetUserPushToken(ctx, "user-1", "tok"))
		prov := &fakeProvider{err: push.ErrTokenInvalid}

		res := notifications.NewPushChannel(prov, reg).Send(ctx, testMessage())

		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, push.ErrTokenInvalid)
		assert.Equal(t, 1, prov.hits)
	})

	t.Run("no provider", func(t *testing.T) {
		t.Parallel()
		res := notifications.NewPushChannel(nil, push.NewMemoryRegistry()).Send(ctx, testMessage())
		assert.ErrorIs(t, res.Err, notifications.ErrChannelNotConfigured)
	})
}

func TestInAppChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ch := notifications.NewInAppChannel(notifications.NewMemoryStorage())
	msg := testMessage()

	res := ch.Send(ctx, msg)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, notifications.ChannelInApp, res.Channel)
	assert.Equal(t, "notif-1", res.MessageID)

	n, err := ch.Get(ctx, "user-1", "notif-1")
	require.NoError(t, err)
	assert.Equal(t, "Payment failed", n.Title)
	assert.Equal(t, "Your payment of USD 20 failed.", n.Body)
	assert.Equal(t, "https://app.example.com/billing", n.ActionURL)
	assert.Equal(t, "Retry payment", n.ActionLabel)
	assert.Equal(t, "credit-card-off", n.Icon)
	assert.Equal(t, notifications.PriorityHigh, n.Priority)
	assert.False(t, n.Read)

	count, err := ch.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, ch.MarkRead(ctx, "user-1", "notif-1"))
	page, err := ch.List(ctx, "user-1", notifications.ListOptions{OnlyUnread: true})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	msg.NotificationID = "notif-2"
	require.True(t, ch.Send(ctx, msg).Success)
	require.NoError(t, ch.MarkAllRead(ctx, "user-1"))
	count, err = ch.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, ch.Delete(ctx, "user-1", "notif-1", "notif-2"))
	page, err = ch.List(ctx, "user-1", notifications.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestInAppChannel_StorageFailure(t *testing.T) {
	t.Parallel()

	msg := testMessage()
	msg.NotificationID = ""

	res := notifications.NewInAppChannel(notifications.NewMemoryStorage()).Send(context.Background(), msg)

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, notifications.ErrInvalidNotification)
}
