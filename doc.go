// Package notifykit delivers typed domain notifications over email, push and
// in-app channels.
//
// The module is a set of small packages under pkg/:
//
//   - notifications: orchestrator, delivery policy, channel adapters, inbox
//   - notifications/templates: template catalog and rendering engine
//   - notifications/pgstore, notifications/mongodir: Postgres inbox storage and MongoDB user directory
//   - email: retrying mailer over SMTP or Postmark, with a dry-run mode
//   - push: Expo and SNS providers, memory and Redis token registries
//   - retry: bounded retry state machine with exponential backoff
//   - notifier: assembles all of the above from environment variables
//   - config, logger, requestid, cache, pg, redis, mongo: shared infrastructure
//
// A minimal in-process setup:
//
//	cfg, err := notifier.LoadConfig()
//	if err != nil {
//	    return err
//	}
//	svc, err := notifier.New(ctx, cfg, slog.Default())
//	if err != nil {
//	    return err
//	}
//	defer svc.Close(ctx)
//
//	report, err := svc.Notify(ctx, userID, notifications.TypePaymentReceived, notifications.Data{
//	    "amount":   "49.00",
//	    "currency": "USD",
//	})
package notifykit
