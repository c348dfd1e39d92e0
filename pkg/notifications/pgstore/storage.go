package pgstore

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
	"github.com/dmitrymomot/notifykit/pkg/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate creates or upgrades the notifications table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, migrations, "migrations", cfg, log)
}

// DB is the subset of *pgxpool.Pool the storage needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Storage implements notifications.Storage on PostgreSQL.
type Storage struct {
	db  DB
	now func() time.Time
}

var _ notifications.Storage = (*Storage)(nil)

func New(db DB) *Storage {
	return &Storage{db: db, now: time.Now}
}

const columns = `id, user_id, type, priority, title, body, action_url, action_label, icon, data, read, read_at, created_at, expires_at`

func (s *Storage) Create(ctx context.Context, n notifications.Notification) error {
	if n.ID == "" || n.UserID == "" {
		return fmt.Errorf("%w: id and user id are required", notifications.ErrInvalidNotification)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	if n.Priority == "" {
		n.Priority = notifications.PriorityNormal
	}
	data := encodeData(n.Data)

	_, err := s.db.Exec(ctx,
		`INSERT INTO notifications (`+columns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		n.ID, n.UserID, string(n.Type), string(n.Priority), n.Title, n.Body,
		n.ActionURL, n.ActionLabel, n.Icon, data, n.Read, n.ReadAt, n.CreatedAt, n.ExpiresAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: duplicate id %q", notifications.ErrInvalidNotification, n.ID)
	}
	return err
}

func (s *Storage) Get(ctx context.Context, userID, id string) (*notifications.Notification, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+columns+` FROM notifications WHERE user_id = $1 AND id = $2`, userID, id)
	n, err := scan(row)
	if pg.IsNotFoundError(err) {
		return nil, notifications.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Storage) List(ctx context.Context, userID string, opts notifications.ListOptions) (notifications.Page, error) {
	page := notifications.Page{Items: []notifications.Notification{}}

	where, args := listFilter(userID, opts, s.now())
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE `+where, args...).Scan(&page.Total); err != nil {
		return page, err
	}

	query := `SELECT ` + columns + ` FROM notifications WHERE ` + where + ` ORDER BY created_at DESC, id`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return page, err
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scan(rows)
		if err != nil {
			return page, err
		}
		page.Items = append(page.Items, *n)
	}
	return page, rows.Err()
}

func (s *Storage) MarkRead(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE, read_at = $3
		 WHERE user_id = $1 AND id = ANY($2) AND NOT read`,
		userID, ids, s.now())
	return err
}

func (s *Storage) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE, read_at = $2 WHERE user_id = $1 AND NOT read`,
		userID, s.now())
	return err
}

func (s *Storage) Delete(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	return err
}

func (s *Storage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM notifications
		 WHERE user_id = $1 AND NOT read AND (expires_at IS NULL OR expires_at > $2)`,
		userID, s.now()).Scan(&count)
	return count, err
}

// listFilter builds the WHERE clause shared by the count and page queries.
// Expired records are always excluded.
func listFilter(userID string, opts notifications.ListOptions, now time.Time) (string, []any) {
	conds := []string{"user_id = $1", "(expires_at IS NULL OR expires_at > $2)"}
	args := []any{userID, now}

	if opts.OnlyUnread {
		conds = append(conds, "NOT read")
	}
	if len(opts.Types) > 0 {
		types := make([]string, len(opts.Types))
		for i, t := range opts.Types {
			types[i] = string(t)
		}
		args = append(args, types)
		conds = append(conds, fmt.Sprintf("type = ANY($%d)", len(args)))
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func scan(row pgx.Row) (*notifications.Notification, error) {
	var (
		n             notifications.Notification
		typ, priority string
		data          []byte
	)
	err := row.Scan(&n.ID, &n.UserID, &typ, &priority, &n.Title, &n.Body,
		&n.ActionURL, &n.ActionLabel, &n.Icon, &data, &n.Read, &n.ReadAt, &n.CreatedAt, &n.ExpiresAt)
	if err != nil {
		return nil, err
	}
	n.Type = notifications.Type(typ)
	n.Priority = notifications.Priority(priority)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("decode notification data: %w", err)
		}
	}
	return &n, nil
}

// encodeData marshals d for the JSONB column. Values JSON cannot represent
// (NaN, functions, channels) are dropped instead of failing the record.
func encodeData(d map[string]any) []byte {
	if b, err := json.Marshal(orEmpty(d)); err == nil {
		return b
	}
	clean, _ := encodable(orEmpty(d))
	b, err := json.Marshal(clean)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func encodable(v any) (any, bool) {
	switch t := v.(type) {
	case notifications.Data:
		return encodable(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			if c, ok := encodable(vv); ok {
				out[k] = c
			}
		}
		return out, true
	case []any:
		out := make([]any, 0, len(t))
		for _, vv := range t {
			if c, ok := encodable(vv); ok {
				out = append(out, c)
			}
		}
		return out, true
	default:
		_, err := json.Marshal(v)
		return v, err == nil
	}
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
