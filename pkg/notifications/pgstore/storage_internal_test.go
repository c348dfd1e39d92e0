package pgstore

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type fakeDB struct {
	execErr  error
	rowErr   error
	lastSQL  string
	lastArgs []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, f.rowErr
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	return errRow{err: f.rowErr}
}

func TestListFilter(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	since := now.Add(-time.Hour)

	tests := []struct {
		name      string
		opts      notifications.ListOptions
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "defaults",
			wantWhere: "user_id = $1 AND (expires_at IS NULL OR expires_at > $2)",
			wantArgs:  []any{"u1", now},
		},
		{
			name:      "unread only",
			opts:      notifications.ListOptions{OnlyUnread: true},
			wantWhere: "user_id = $1 AND (expires_at IS NULL OR expires_at > $2) AND NOT read",
			wantArgs:  []any{"u1", now},
		},
		{
			name: "types and since",
			opts: notifications.ListOptions{
				Types: []notifications.Type{notifications.TypeWelcome, notifications.TypeSystemAlert},
				Since: &since,
			},
			wantWhere: "user_id = $1 AND (expires_at IS NULL OR expires_at > $2) AND type = ANY($3) AND created_at >= $4",
			wantArgs:  []any{"u1", now, []string{"WELCOME", "SYSTEM_ALERT"}, since},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			where, args := listFilter("u1", tt.opts, now)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestStorage_Create(t *testing.T) {
	t.Parallel()

	t.Run("validates", func(t *testing.T) {
		t.Parallel()
		err := New(&fakeDB{}).Create(context.Background(), notifications.Notification{ID: "n1"})
		require.ErrorIs(t, err, notifications.ErrInvalidNotification)
	})

	t.Run("defaults and encodes data", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{}
		s := New(db)
		fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return fixed }

		require.NoError(t, s.Create(context.Background(), notifications.Notification{
			ID: "n1", UserID: "u1", Type: notifications.TypeWelcome,
		}))
		require.Len(t, db.lastArgs, 14)
		assert.Equal(t, "normal", db.lastArgs[3])
		assert.Equal(t, []byte("{}"), db.lastArgs[9])
		assert.Equal(t, fixed, db.lastArgs[12])
	})

	t.Run("drops values json cannot encode", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{}
		require.NoError(t, New(db).Create(context.Background(), notifications.Notification{
			ID: "n1", UserID: "u1", Type: notifications.TypePaymentReceived,
			Data: map[string]any{
				"amount":   20,
				"ratio":    math.NaN(),
				"callback": func() {},
				"meta":     map[string]any{"ok": true, "ch": make(chan int)},
				"tags":     []any{"a", math.Inf(1)},
			},
		}))
		require.Len(t, db.lastArgs, 14)
		assert.JSONEq(t, `{"amount":20,"meta":{"ok":true},"tags":["a"]}`, string(db.lastArgs[9].([]byte)))
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{execErr: &pgconn.PgError{Code: "23505"}}
		err := New(db).Create(context.Background(), notifications.Notification{ID: "n1", UserID: "u1"})
		require.ErrorIs(t, err, notifications.ErrInvalidNotification)
	})
}

func TestStorage_GetNotFound(t *testing.T) {
	t.Parallel()

	_, err := New(&fakeDB{rowErr: pgx.ErrNoRows}).Get(context.Background(), "u1", "n1")
	require.ErrorIs(t, err, notifications.ErrNotificationNotFound)
}

func TestStorage_EmptyIDsAreNoops(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	s := New(db)
	require.NoError(t, s.MarkRead(context.Background(), "u1"))
	require.NoError(t, s.Delete(context.Background(), "u1"))
	assert.Empty(t, db.lastSQL)
}
