package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notifications/templates"
	"github.com/dmitrymomot/notifykit/pkg/requestid"
)

// Renderer produces channel content from a template name and variables.
// *templates.Engine satisfies it.
type Renderer interface {
	Compose(name string, vars map[string]any) templates.Content
}

// Orchestrator turns a domain event into per-channel deliveries.
// It keeps no per-call state and is safe for concurrent use.
type Orchestrator struct {
	senders   map[Channel]ChannelSender
	policy    *Policy
	renderer  Renderer
	directory Directory
	newID     func() string
	logger    *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithChannel registers a sender for its channel, replacing any previous one.
func WithChannel(s ChannelSender) OrchestratorOption {
	return func(o *Orchestrator) {
		if s != nil {
			o.senders[s.Channel()] = s
		}
	}
}

// WithPolicy replaces the default delivery policy.
func WithPolicy(p *Policy) OrchestratorOption {
	return func(o *Orchestrator) {
		if p != nil {
			o.policy = p
		}
	}
}

// WithRenderer replaces the default template engine.
func WithRenderer(r Renderer) OrchestratorOption {
	return func(o *Orchestrator) {
		if r != nil {
			o.renderer = r
		}
	}
}

// WithDirectory sets the user directory used to resolve recipients.
func WithDirectory(d Directory) OrchestratorOption {
	return func(o *Orchestrator) { o.directory = d }
}

// WithIDGenerator overrides how notification ids are generated.
func WithIDGenerator(fn func() string) OrchestratorOption {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithOrchestratorLogger sets the logger.
func WithOrchestratorLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewOrchestrator creates an Orchestrator. Without options it uses the
// default policy and template catalog and has no channels registered.
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		senders: make(map[Channel]ChannelSender),
		newID:   uuid.NewString,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.policy == nil {
		o.policy = DefaultPolicy()
	}
	if o.renderer == nil {
		o.renderer = templates.New(templates.WithEngineLogger(o.logger))
	}
	o.logger = o.logger.With(logger.Component("notifications"))
	return o
}

// Channels returns the registered channels in dispatch order.
func (o *Orchestrator) Channels() []Channel {
	var out []Channel
	for _, ch := range Channels() {
		if _, ok := o.senders[ch]; ok {
			out = append(out, ch)
		}
	}
	return out
}

// Policy returns the delivery policy in use.
func (o *Orchestrator) Policy() *Policy { return o.policy }

// Notify delivers an event of type t to userID on every resolved channel.
// Channel failures are reported in the Report; an error is returned only
// when userID is empty.
func (o *Orchestrator) Notify(ctx context.Context, userID string, t Type, data Data, opts ...DeliveryOption) (*Report, error) {
	if userID == "" {
		return nil, ErrRecipientRequired
	}
	options := applyOptions(opts)

	report := &Report{
		NotificationID: o.newID(),
		UserID:         userID,
		Type:           t,
		Priority:       o.policy.ResolvePriority(t, options.Priority),
		Results:        []DeliveryResult{},
	}

	ctx, _ = requestid.Ensure(ctx, report.NotificationID)

	channels := o.policy.ResolveChannels(t, options.Channels)
	explicit := slices.ContainsFunc(options.Channels, Channel.Valid)
	if len(channels) == 0 {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "no channels resolved",
			logger.UserID(userID),
			logger.NotificationType(string(t)),
		)
		return report, nil
	}

	recipient := o.recipient(ctx, userID)
	channels = o.policy.ApplyPreferences(channels, recipient, explicit)

	vars := data.Clone()
	if _, ok := vars["customerName"]; !ok && recipient.FullName != "" {
		vars["customerName"] = recipient.FullName
	}
	if options.ActionURL != "" {
		vars["actionUrl"] = options.ActionURL
	}
	if options.ActionLabel != "" {
		vars["actionLabel"] = options.ActionLabel
	}
	if options.Icon != "" {
		vars["icon"] = options.Icon
	}
	content := o.compose(ctx, t, vars)

	actionURL := options.ActionURL
	if v, ok := templates.Lookup(vars, "actionUrl"); ok && actionURL == "" {
		actionURL = templates.Stringify(v)
	}

	msg := Message{
		NotificationID: report.NotificationID,
		Type:           t,
		Priority:       report.Priority,
		Recipient:      recipient,
		Content:        content,
		ActionURL:      actionURL,
		ExpiresAt:      options.ExpiresAt,
	}

	report.Results = make([]DeliveryResult, len(channels))
	var g errgroup.Group
	for i, ch := range channels {
		g.Go(func() error {
			m := msg
			m.Data = vars.Clone()
			report.Results[i] = o.dispatch(ctx, ch, m)
			return nil
		})
	}
	_ = g.Wait()

	o.logReport(ctx, report)
	return report, nil
}

// recipient looks userID up in the directory. Any failure, including a
// panicking directory, yields an ID-only recipient.
func (o *Orchestrator) recipient(ctx context.Context, userID string) (out User) {
	if o.directory == nil {
		return User{ID: userID}
	}
	defer func() {
		if r := recover(); r != nil {
			o.logger.LogAttrs(ctx, slog.LevelError, "recipient lookup panicked",
				logger.UserID(userID),
				slog.Any("panic", r),
			)
			out = User{ID: userID}
		}
	}()
	u, err := o.directory.FindUser(ctx, userID)
	if err != nil || u == nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "recipient lookup failed",
			logger.UserID(userID),
			logger.Error(err),
		)
		return User{ID: userID}
	}
	out = *u
	out.ID = userID
	return out
}

// compose renders content for t. A panicking renderer yields empty content
// so the channels still run.
func (o *Orchestrator) compose(ctx context.Context, t Type, vars Data) (content templates.Content) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.LogAttrs(ctx, slog.LevelError, "template rendering panicked",
				logger.NotificationType(string(t)),
				slog.Any("panic", r),
			)
			content = templates.Content{}
		}
	}()
	return o.renderer.Compose(t.TemplateName(), vars)
}

// dispatch runs one sender and converts a panic into a failed result.
func (o *Orchestrator) dispatch(ctx context.Context, ch Channel, msg Message) (res DeliveryResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Failure(ch, fmt.Errorf("%w: %v", ErrChannelPanicked, r))
		}
		res.Channel = ch
		res.Duration = time.Since(start)
	}()

	s, ok := o.senders[ch]
	if !ok {
		return Failure(ch, ErrChannelNotRegistered)
	}
	return s.Send(ctx, msg)
}

func (o *Orchestrator) logReport(ctx context.Context, r *Report) {
	for _, res := range r.Failed() {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "notification channel failed",
			logger.NotificationID(r.NotificationID),
			logger.UserID(r.UserID),
			logger.NotificationType(string(r.Type)),
			logger.Channel(string(res.Channel)),
			logger.Attempt(res.Attempts),
			slog.String("error", res.Error),
		)
	}

	channels := make([]Channel, len(r.Results))
	for i, res := range r.Results {
		channels[i] = res.Channel
	}
	o.logger.LogAttrs(ctx, slog.LevelInfo, "notification dispatched",
		logger.NotificationID(r.NotificationID),
		logger.UserID(r.UserID),
		logger.NotificationType(string(r.Type)),
		logger.Priority(string(r.Priority)),
		logger.Channels(channels),
		slog.Int("delivered", r.Delivered()),
		slog.Int("failed", len(r.Failed())),
	)
}
