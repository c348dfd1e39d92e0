package email_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/retry"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, params email.SendEmailParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

type recordingSleep struct {
	delays []time.Duration
}

func (r *recordingSleep) Sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func usableConfig() email.Config {
	return email.Config{
		Provider:     email.ProviderSMTP,
		Mode:         email.ModeLive,
		SMTPHost:     "smtp.mailhost.test",
		SMTPPort:     587,
		SMTPUsername: "user",
		SMTPPassword: "secret",
		FromName:     "Glow Salon",
		FromAddress:  "noreply@glow.test",
		SendTimeout:  time.Second,
	}
}

func validParams() email.SendEmailParams {
	return email.SendEmailParams{
		SendTo:   "amina@example.com",
		Subject:  "Appointment booked",
		BodyHTML: "<p>Booked</p>",
		Tag:      "appointment_booked",
	}
}

func newMailer(t *testing.T, cfg email.Config, tr email.Transport, sleeper *recordingSleep, opts ...email.MailerOption) *email.Mailer {
	t.Helper()
	policy := retry.DefaultPolicy()
	policy.Sleep = sleeper.Sleep
	opts = append([]email.MailerOption{
		email.WithTransport(tr),
		email.WithRetryPolicy(policy),
		email.WithMailerLogger(logger.Discard()),
	}, opts...)
	m, err := email.New(cfg, opts...)
	require.NoError(t, err)
	return m
}

func TestMailer_AlwaysFailingTransport(t *testing.T) {
	t.Parallel()

	tr := &MockTransport{}
	tr.On("Send", mock.Anything, validParams()).Return("", errors.New("dial tcp: i/o timeout"))

	sleeper := &recordingSleep{}
	res := newMailer(t, usableConfig(), tr, sleeper).Send(context.Background(), validParams())

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "i/o timeout")
	assert.ErrorIs(t, res.Err, email.ErrFailedToSendEmail)
	assert.ErrorIs(t, res.Err, retry.ErrExhausted)
	require.Len(t, res.Attempts, 3)
	tr.AssertNumberOfCalls(t, "Send", 3)

	require.Len(t, sleeper.delays, 2)
	assert.GreaterOrEqual(t, sleeper.delays[0], time.Second)
	assert.GreaterOrEqual(t, sleeper.delays[1], 2*time.Second)
}

func TestMailer_FailTwiceThenSucceed(t *testing.T) {
	t.Parallel()

	tr := &MockTransport{}
	tr.On("Send", mock.Anything, mock.Anything).Return("", errors.New("421 try later")).Twice()
	tr.On("Send", mock.Anything, mock.Anything).Return("msg-3", nil).Once()

	var observed []email.Attempt
	sleeper := &recordingSleep{}
	m := newMailer(t, usableConfig(), tr, sleeper, email.WithOnAttempt(func(a email.Attempt) {
		observed = append(observed, a)
	}))

	res := m.Send(context.Background(), validParams())

	require.True(t, res.Success)
	assert.Equal(t, "msg-3", res.MessageID)
	assert.Empty(t, res.Error)
	require.Len(t, res.Attempts, 3)
	assert.Equal(t, "msg-3", res.Attempts[2].MessageID)
	assert.Equal(t, 3, res.Attempts[2].Number)
	assert.False(t, res.Attempts[0].Success)
	assert.Equal(t, res.Attempts, observed)
	tr.AssertNumberOfCalls(t, "Send", 3)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
}

func TestMailer_PermanentErrorStopsRetrying(t *testing.T) {
	t.Parallel()

	tr := &MockTransport{}
	tr.On("Send", mock.Anything, mock.Anything).Return("", retry.Permanent(errors.New("inactive recipient")))

	sleeper := &recordingSleep{}
	res := newMailer(t, usableConfig(), tr, sleeper).Send(context.Background(), validParams())

	assert.False(t, res.Success)
	assert.Len(t, res.Attempts, 1)
	assert.Empty(t, sleeper.delays)
	tr.AssertNumberOfCalls(t, "Send", 1)
}

func TestMailer_UnconfiguredShortCircuits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  func(c *email.Config)
	}{
		{"empty username", func(c *email.Config) { c.SMTPUsername = "" }},
		{"empty password", func(c *email.Config) { c.SMTPPassword = "" }},
		{"empty credentials", func(c *email.Config) { c.SMTPUsername, c.SMTPPassword = "", "" }},
		{"placeholder host", func(c *email.Config) { c.SMTPHost = email.DefaultSMTPHost }},
		{"empty host", func(c *email.Config) { c.SMTPHost = "" }},
		{"postmark without token", func(c *email.Config) { c.Provider = email.ProviderPostmark }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := usableConfig()
			tt.cfg(&cfg)

			tr := &MockTransport{}
			sleeper := &recordingSleep{}
			res := newMailer(t, cfg, tr, sleeper).Send(context.Background(), validParams())

			assert.False(t, res.Success)
			assert.ErrorIs(t, res.Err, email.ErrNotConfigured)
			assert.Equal(t, "SMTP not configured", res.Error)
			assert.Empty(t, res.Attempts)
			assert.Empty(t, sleeper.delays)
			tr.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestMailer_NoRecipientAddress(t *testing.T) {
	t.Parallel()

	tr := &MockTransport{}
	params := validParams()
	params.SendTo = ""

	res := newMailer(t, usableConfig(), tr, &recordingSleep{}).Send(context.Background(), params)

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, email.ErrNoRecipient)
	assert.Equal(t, "recipient has no email address", res.Error)
	tr.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestMailer_DryRun(t *testing.T) {
	t.Parallel()

	cfg := email.Config{Mode: email.ModeDryRun}
	tr := &MockTransport{}
	res := newMailer(t, cfg, tr, &recordingSleep{}).Send(context.Background(), validParams())

	require.True(t, res.Success)
	assert.Regexp(t, `^dry-run-[0-9a-f-]{36}$`, res.MessageID)
	require.Len(t, res.Attempts, 1)
	tr.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestMailer_DryRunUsesCustomTransport(t *testing.T) {
	t.Parallel()

	dry := &MockTransport{}
	dry.On("Send", mock.Anything, validParams()).Return("preview-1", nil).Once()

	m, err := email.New(email.Config{Mode: email.ModeDryRun},
		email.WithDryRunTransport(dry),
		email.WithMailerLogger(logger.Discard()),
	)
	require.NoError(t, err)

	res := m.Send(context.Background(), validParams())
	assert.True(t, res.Success)
	assert.Equal(t, "preview-1", res.MessageID)
	dry.AssertExpectations(t)
}

func TestMailer_PerAttemptTimeout(t *testing.T) {
	t.Parallel()

	cfg := usableConfig()
	cfg.SendTimeout = 20 * time.Millisecond

	var deadlines []bool
	tr := email.TransportFunc(func(ctx context.Context, _ email.SendEmailParams) (string, error) {
		_, ok := ctx.Deadline()
		deadlines = append(deadlines, ok)
		<-ctx.Done()
		return "", ctx.Err()
	})

	res := newMailer(t, cfg, tr, &recordingSleep{}).Send(context.Background(), validParams())

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Equal(t, []bool{true, true, true}, deadlines)
}

func TestNew_BuildsTransportFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("unusable config is not an error", func(t *testing.T) {
		m, err := email.New(email.Config{}, email.WithMailerLogger(logger.Discard()))
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("smtp", func(t *testing.T) {
		m, err := email.New(usableConfig(), email.WithMailerLogger(logger.Discard()))
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := usableConfig()
		cfg.Provider = "carrier-pigeon"
		_, err := email.New(cfg)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	for _, mode := range []email.Mode{"dryrun", "test", "LIVE"} {
		t.Run("unknown mode "+string(mode), func(t *testing.T) {
			cfg := usableConfig()
			cfg.Mode = mode
			m, err := email.New(cfg, email.WithMailerLogger(logger.Discard()))
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Nil(t, m)
		})
	}
}
