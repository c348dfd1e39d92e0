// Package logger builds *slog.Logger instances for notifykit components and
// provides attribute helpers so every package logs the same keys.
//
// New assembles a text or JSON handler, applies static attributes and wraps the
// result with a handler that injects values pulled from context.Context on each
// record (see WithContextValue).
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "notifier"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.LogAttrs(ctx, slog.LevelWarn, "channel delivery failed",
//	    logger.Channel("EMAIL"),
//	    logger.NotificationType("PAYMENT_RECEIVED"),
//	    logger.Error(err),
//	)
//
// Helpers such as Error and UserID return an empty slog.Attr for nil input, so
// they can be passed unconditionally.
package logger
