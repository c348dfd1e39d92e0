package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/retry"
)

// Attempt is the record of one delivery try.
type Attempt struct {
	Number    int
	Success   bool
	MessageID string
	Error     string
	Duration  time.Duration
}

// Result is the terminal outcome of Mailer.Send.
type Result struct {
	Success   bool
	MessageID string
	Error     string
	Err       error
	Attempts  []Attempt
}

func failure(err error) Result {
	return Result{Error: err.Error(), Err: err}
}

// Mailer applies mode, configuration and retry rules around a Transport.
type Mailer struct {
	cfg       Config
	transport Transport
	dryRun    Transport
	policy    retry.Policy
	onAttempt func(Attempt)
	logger    *slog.Logger
}

// MailerOption configures a Mailer.
type MailerOption func(*Mailer)

// WithTransport overrides the live transport.
func WithTransport(t Transport) MailerOption {
	return func(m *Mailer) { m.transport = t }
}

// WithDryRunTransport overrides the transport used in dry-run mode.
func WithDryRunTransport(t Transport) MailerOption {
	return func(m *Mailer) {
		if t != nil {
			m.dryRun = t
		}
	}
}

// WithRetryPolicy replaces the default three-attempt exponential policy.
func WithRetryPolicy(p retry.Policy) MailerOption {
	return func(m *Mailer) { m.policy = p }
}

// WithOnAttempt registers an observer called after every attempt.
func WithOnAttempt(fn func(Attempt)) MailerOption {
	return func(m *Mailer) { m.onAttempt = fn }
}

// WithMailerLogger sets the logger.
func WithMailerLogger(l *slog.Logger) MailerOption {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Mailer. In live mode with a usable config the transport is
// built from cfg unless WithTransport supplied one. An unusable config is not
// an error here: Send reports it per call. An unknown mode is.
func New(cfg Config, opts ...MailerOption) (*Mailer, error) {
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("%w: unknown EMAIL_MODE %q", ErrInvalidConfig, cfg.Mode)
	}
	m := &Mailer{
		cfg:    cfg,
		policy: retry.DefaultPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	base := m.logger
	m.logger = base.With(logger.Component("email"))

	if m.dryRun == nil {
		m.dryRun = NewDryRunTransport(cfg.DryRunDir, base)
	}
	if m.transport == nil && !cfg.DryRun() && cfg.Usable() {
		t, err := NewTransport(cfg, base)
		if err != nil {
			return nil, err
		}
		m.transport = t
	}
	return m, nil
}

// Config returns the configuration the mailer was built with.
func (m *Mailer) Config() Config { return m.cfg }

// Send delivers params. It never returns an error; the outcome is in Result.
func (m *Mailer) Send(ctx context.Context, params SendEmailParams) Result {
	if m.cfg.DryRun() {
		if err := params.Validate(); err != nil {
			return failure(err)
		}
		id, err := m.dryRun.Send(ctx, params)
		if err != nil {
			return failure(err)
		}
		return Result{
			Success:   true,
			MessageID: id,
			Attempts:  []Attempt{{Number: 1, Success: true, MessageID: id}},
		}
	}

	if !m.cfg.Usable() || m.transport == nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "email skipped",
			logger.Error(ErrNotConfigured),
			slog.String("tag", params.Tag),
		)
		return failure(ErrNotConfigured)
	}

	if err := params.Validate(); err != nil {
		return failure(err)
	}

	var (
		attempts []Attempt
		sentID   string
	)
	policy := m.policy
	observe := policy.OnAttempt
	policy.OnAttempt = func(a retry.Attempt) {
		rec := Attempt{Number: a.Number, Success: a.Succeeded(), Duration: a.Duration}
		if a.Succeeded() {
			rec.MessageID = sentID
		} else {
			rec.Error = a.Err.Error()
			m.logger.LogAttrs(ctx, slog.LevelWarn, "email attempt failed",
				logger.Attempt(a.Number),
				logger.Duration(a.Duration),
				slog.Duration("retry_in", a.Delay),
				logger.Error(a.Err),
			)
		}
		attempts = append(attempts, rec)
		if m.onAttempt != nil {
			m.onAttempt(rec)
		}
		if observe != nil {
			observe(a)
		}
	}

	timeout := m.cfg.timeout()
	out := retry.Do(ctx, policy, func(ctx context.Context, _ int) (string, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		id, err := m.transport.Send(attemptCtx, params)
		if err == nil {
			sentID = id
		}
		return id, err
	})

	if !out.Succeeded() {
		res := failure(out.Err)
		res.Attempts = attempts
		if !errors.Is(out.Err, ErrFailedToSendEmail) {
			res.Err = errors.Join(ErrFailedToSendEmail, out.Err)
		}
		return res
	}

	m.logger.LogAttrs(ctx, slog.LevelDebug, "email sent",
		logger.MessageID(out.Value),
		logger.Attempt(len(attempts)),
	)
	return Result{Success: true, MessageID: out.Value, Attempts: attempts}
}
