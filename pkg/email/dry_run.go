package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// DryRunTransport logs what would have been sent. When dir is set the HTML
// body and a JSON metadata file are written there for inspection.
type DryRunTransport struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewDryRunTransport returns a transport that never contacts a mail server.
func NewDryRunTransport(dir string, log *slog.Logger) *DryRunTransport {
	if log == nil {
		log = slog.Default()
	}
	return &DryRunTransport{
		dir:    dir,
		logger: log.With(logger.Component("email.dry_run")),
		now:    time.Now,
	}
}

type dryRunMetadata struct {
	MessageID string `json:"message_id"`
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

func (d *DryRunTransport) Send(ctx context.Context, params SendEmailParams) (string, error) {
	id := "dry-run-" + uuid.NewString()

	d.logger.LogAttrs(ctx, slog.LevelInfo, "email not sent: dry-run mode",
		logger.MessageID(id),
		slog.String("to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
	)

	if d.dir == "" {
		return id, nil
	}
	if err := d.write(id, params); err != nil {
		// Inspection files are a convenience; the dry run itself succeeded.
		d.logger.LogAttrs(ctx, slog.LevelWarn, "failed to write dry-run email", logger.Error(err))
	}
	return id, nil
}

func (d *DryRunTransport) write(id string, params SendEmailParams) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	now := d.now()
	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(identifier))

	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}

	meta, err := json.MarshalIndent(dryRunMetadata{
		MessageID: id,
		Timestamp: now.Format(time.RFC3339),
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		Tag:       params.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), meta, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
