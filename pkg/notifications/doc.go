// Package notifications turns typed domain events into deliveries over email,
// push and in-app channels.
//
// The Orchestrator resolves the channel set and priority from a Policy,
// resolves the recipient through a Directory, renders content once with the
// template engine and dispatches every channel concurrently. A failing or
// panicking channel never affects the others; failures are reported in the
// returned Report instead of as errors.
//
// # Basic Usage
//
//	inbox := notifications.NewInAppChannel(notifications.NewMemoryStorage())
//	orch := notifications.NewOrchestrator(
//	    notifications.WithChannel(inbox),
//	    notifications.WithChannel(notifications.NewEmailChannel(mailer)),
//	    notifications.WithChannel(notifications.NewPushChannel(provider, tokens)),
//	    notifications.WithDirectory(users),
//	)
//
//	report, err := orch.Notify(ctx, userID, notifications.TypeAppointmentBooked, notifications.Data{
//	    "salonName":       "Glow Studio",
//	    "serviceName":     "Haircut",
//	    "appointmentDate": "2024-05-01",
//	    "appointmentTime": "14:00",
//	})
//
// # Delivery Policy
//
// Each type maps to default channels and a priority, loaded from an embedded
// YAML document. Callers override either with WithChannels and WithPriority.
// LoadPolicy reads an alternative document with the same shape:
//
//	types:
//	  PAYMENT_FAILED: { channels: [IN_APP, EMAIL, PUSH], priority: high }
//
// # Inbox
//
// InAppChannel persists notifications through a Storage and exposes the read
// side (List, Get, CountUnread, MarkRead, MarkAllRead, Delete). MemoryStorage
// serves development and tests; see the pgstore package for Postgres.
package notifications
