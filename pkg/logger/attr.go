package logger

import (
	"log/slog"
	"time"
)

// Error records err under the key "error".
// Returns an empty Attr when err is nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the recipient identifier under the key "user_id".
// Returns an empty Attr when id is nil.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// NotificationID records the notification identifier under "notification_id".
func NotificationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("notification_id", id)
}

// NotificationType records the domain event tag under "notification_type".
func NotificationType(t string) slog.Attr {
	return slog.String("notification_type", t)
}

// Channel records the delivery channel under "channel".
func Channel(ch string) slog.Attr {
	return slog.String("channel", ch)
}

// Channels records a set of delivery channels under "channels".
func Channels[S ~string](chs []S) slog.Attr {
	names := make([]string, len(chs))
	for i, ch := range chs {
		names[i] = string(ch)
	}
	return slog.Any("channels", names)
}

// Priority records the delivery priority under "priority".
func Priority(p string) slog.Attr {
	return slog.String("priority", p)
}

// Attempt records a 1-based delivery attempt number under "attempt".
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

// MessageID records a transport message identifier under "message_id".
func MessageID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("message_id", id)
}

// Duration records d under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Template records the template document name under "template".
func Template(name string) slog.Attr {
	return slog.String("template", name)
}
