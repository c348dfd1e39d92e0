package email

import (
	"strings"
	"time"
)

// DefaultSMTPHost is the placeholder host shipped in sample configs.
// A config still pointing at it is treated as unconfigured.
const DefaultSMTPHost = "smtp.example.com"

// Provider selects the live transport.
type Provider string

const (
	ProviderSMTP     Provider = "smtp"
	ProviderPostmark Provider = "postmark"
)

// Mode selects between real delivery and logging only.
type Mode string

const (
	ModeLive   Mode = "live"
	ModeDryRun Mode = "dry-run"
)

// Config holds email settings. Credentials are optional so that a service can
// start without them; Mailer reports ErrNotConfigured until they are set.
type Config struct {
	Provider Provider `env:"EMAIL_PROVIDER" envDefault:"smtp"`
	Mode     Mode     `env:"EMAIL_MODE" envDefault:"live"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.example.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPSecure   bool   `env:"SMTP_SECURE" envDefault:"false"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	FromName    string `env:"EMAIL_FROM_NAME" envDefault:"Notifications"`
	FromAddress string `env:"EMAIL_FROM_ADDRESS" envDefault:"noreply@example.com"`
	ReplyTo     string `env:"EMAIL_REPLY_TO"`

	SendTimeout time.Duration `env:"EMAIL_SEND_TIMEOUT" envDefault:"10s"`
	DryRunDir   string        `env:"EMAIL_DRY_RUN_DIR"`
}

// Valid reports whether m is a known mode. The zero value means live.
func (m Mode) Valid() bool {
	switch m {
	case "", ModeLive, ModeDryRun:
		return true
	}
	return false
}

// DryRun reports whether delivery is short-circuited.
func (c Config) DryRun() bool {
	return c.Mode == ModeDryRun
}

// Usable reports whether the live transport has what it needs to attempt a send.
func (c Config) Usable() bool {
	if c.Provider == ProviderPostmark {
		return c.PostmarkServerToken != ""
	}
	host := strings.TrimSpace(c.SMTPHost)
	return c.SMTPUsername != "" &&
		c.SMTPPassword != "" &&
		host != "" &&
		!strings.EqualFold(host, DefaultSMTPHost)
}

func (c Config) timeout() time.Duration {
	if c.SendTimeout <= 0 {
		return 10 * time.Second
	}
	return c.SendTimeout
}
