// Package email delivers transactional email with bounded retries.
//
// A Mailer wraps a Transport (SMTP via go-mail, or Postmark) and owns the
// retry budget: up to three attempts with 1s and 2s exponential delays, a
// per-attempt timeout, and early exit on permanent errors. Two situations
// never reach the transport:
//
//   - EMAIL_MODE=dry-run: the intent is logged (and optionally written to
//     EMAIL_DRY_RUN_DIR) and a synthetic message id is returned.
//   - an unusable configuration (no credentials, or the placeholder host):
//     Send fails immediately with ErrNotConfigured and consumes no retries.
//
// Failures are returned as data in Result, not as errors:
//
//	mailer, err := email.New(cfg, email.WithMailerLogger(log))
//	if err != nil {
//	    return err
//	}
//	res := mailer.Send(ctx, email.SendEmailParams{
//	    SendTo:   "amina@example.com",
//	    Subject:  "Appointment booked",
//	    BodyHTML: html,
//	    Tag:      "appointment_booked",
//	})
//	if !res.Success {
//	    log.Warn("email failed", "error", res.Error, "attempts", len(res.Attempts))
//	}
package email
