package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/mongo"
	"github.com/dmitrymomot/notifykit/pkg/notifications"
	"github.com/dmitrymomot/notifykit/pkg/notifications/mongodir"
	"github.com/dmitrymomot/notifykit/pkg/notifications/pgstore"
	"github.com/dmitrymomot/notifykit/pkg/notifications/templates"
	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/push"
	"github.com/dmitrymomot/notifykit/pkg/redis"
	"github.com/dmitrymomot/notifykit/pkg/requestid"
)

// Service is a ready-to-use orchestrator together with the collaborators it
// was built from.
type Service struct {
	*notifications.Orchestrator

	Inbox    *notifications.InAppChannel
	Mailer   *email.Mailer
	Tokens   push.TokenRegistry
	Users    notifications.Directory
	Renderer *templates.Engine

	checks  map[string]func(context.Context) error
	closers []func(context.Context) error
	logger  *slog.Logger
}

// NewLogger builds the service logger from cfg.
func NewLogger(cfg Config) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Environment, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogFormat != "" {
		f := logger.Format(strings.ToLower(cfg.LogFormat))
		if f != logger.FormatJSON && f != logger.FormatText {
			return nil, fmt.Errorf("%w: log format %q", ErrSetupFailed, cfg.LogFormat)
		}
		opts = append(opts, logger.WithFormat(f))
	}
	if cfg.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, errors.Join(ErrSetupFailed, err)
		}
		opts = append(opts, logger.WithLevel(lvl))
	}
	return logger.New(opts...), nil
}

// New connects every backend cfg selects and assembles the orchestrator
// with all three channels. On error, anything already opened is closed.
func New(ctx context.Context, cfg Config, log *slog.Logger) (_ *Service, err error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		checks: make(map[string]func(context.Context) error),
		logger: log.With(logger.Component("notifier")),
	}
	defer func() {
		if err != nil {
			_ = s.Close(context.WithoutCancel(ctx))
		}
	}()

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, errors.Join(ErrInvalidLocale, err)
	}
	s.Renderer = templates.New(
		templates.WithLocale(tag),
		templates.WithBrand(cfg.Brand),
		templates.WithEngineLogger(log),
	)

	policy, err := loadPolicy(cfg)
	if err != nil {
		return nil, err
	}

	storage, err := s.storage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	s.Inbox = notifications.NewInAppChannel(storage)

	if s.Tokens, err = s.tokenRegistry(ctx, cfg, log); err != nil {
		return nil, err
	}
	provider, err := push.NewProvider(ctx, cfg.Push, log)
	if err != nil {
		return nil, errors.Join(ErrSetupFailed, err)
	}

	if s.Mailer, err = email.New(cfg.Email, email.WithMailerLogger(log)); err != nil {
		return nil, errors.Join(ErrSetupFailed, err)
	}
	if !cfg.Email.DryRun() && !cfg.Email.Usable() {
		s.logger.WarnContext(ctx, "email is not configured, the email channel will report failures",
			slog.String("provider", string(cfg.Email.Provider)))
	}

	if s.Users, err = s.directory(ctx, cfg, log); err != nil {
		return nil, err
	}

	s.Orchestrator = notifications.NewOrchestrator(
		notifications.WithPolicy(policy),
		notifications.WithRenderer(s.Renderer),
		notifications.WithDirectory(s.Users),
		notifications.WithChannel(s.Inbox),
		notifications.WithChannel(notifications.NewEmailChannel(s.Mailer, notifications.WithEmailChannelLogger(log))),
		notifications.WithChannel(notifications.NewPushChannel(provider, s.Tokens)),
		notifications.WithOrchestratorLogger(log),
	)

	s.logger.InfoContext(ctx, "notifier ready",
		slog.String("store", cfg.Store),
		slog.String("token_registry", cfg.TokenRegistry),
		slog.String("directory", cfg.Directory),
		slog.String("push_provider", cfg.Push.Provider),
		slog.String("email_mode", string(cfg.Email.Mode)),
	)
	return s, nil
}

func loadPolicy(cfg Config) (*notifications.Policy, error) {
	var opts []notifications.PolicyOption
	if cfg.HonorPreferences {
		opts = append(opts, notifications.WithUserPreferences())
	}
	if cfg.PolicyFile == "" {
		return notifications.DefaultPolicy(opts...), nil
	}
	f, err := os.Open(cfg.PolicyFile)
	if err != nil {
		return nil, errors.Join(ErrSetupFailed, err)
	}
	defer f.Close()
	return notifications.LoadPolicy(f, opts...)
}

func (s *Service) storage(ctx context.Context, cfg Config, log *slog.Logger) (notifications.Storage, error) {
	switch backend(cfg.Store) {
	case BackendMemory:
		return notifications.NewMemoryStorage(), nil
	case BackendPostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		s.addCloser(func(context.Context) error { pool.Close(); return nil })
		s.checks["postgres"] = pg.Healthcheck(pool)
		if err := pgstore.Migrate(ctx, pool, cfg.Postgres, log); err != nil {
			return nil, err
		}
		return pgstore.New(pool), nil
	}
	return nil, fmt.Errorf("%w: store %q", ErrUnknownBackend, cfg.Store)
}

func (s *Service) tokenRegistry(ctx context.Context, cfg Config, log *slog.Logger) (push.TokenRegistry, error) {
	switch backend(cfg.TokenRegistry) {
	case BackendMemory:
		return push.NewMemoryRegistry(), nil
	case BackendRedis:
		client, err := redis.Connect(ctx, cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		s.addCloser(func(context.Context) error { return client.Close() })
		s.checks["redis"] = redis.Healthcheck(client)
		return push.NewRedisRegistry(client, cfg.Push.TokenKeyPrefix), nil
	}
	return nil, fmt.Errorf("%w: token registry %q", ErrUnknownBackend, cfg.TokenRegistry)
}

func (s *Service) directory(ctx context.Context, cfg Config, log *slog.Logger) (notifications.Directory, error) {
	switch backend(cfg.Directory) {
	case BackendMemory:
		return notifications.NewMemoryDirectory(), nil
	case BackendMongo:
		db, err := mongo.NewWithDatabase(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		client := db.Client()
		s.addCloser(client.Disconnect)
		s.checks["mongo"] = mongo.Healthcheck(client)
		dir := notifications.Directory(mongodir.New(db, mongodir.WithCollection(cfg.UsersCollection)))
		if cfg.DirectoryCacheSize > 0 {
			dir = notifications.NewCachedDirectory(dir, cfg.DirectoryCacheSize, cfg.DirectoryCacheTTL)
		}
		return dir, nil
	}
	return nil, fmt.Errorf("%w: directory %q", ErrUnknownBackend, cfg.Directory)
}

func backend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "mem":
		return BackendMemory
	case "pg", "postgresql":
		return BackendPostgres
	case "mongodb":
		return BackendMongo
	}
	return name
}

func (s *Service) addCloser(fn func(context.Context) error) {
	s.closers = append(s.closers, fn)
}

// Healthcheck pings every connected backend.
func (s *Service) Healthcheck(ctx context.Context) error {
	var errs []error
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases backend connections in reverse order of opening.
func (s *Service) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
