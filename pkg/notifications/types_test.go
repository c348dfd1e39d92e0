package notifications_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

func TestType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ      notifications.Type
		valid    bool
		template string
		category notifications.Category
	}{
		{notifications.TypeAppointmentBooked, true, "appointment_booked", notifications.CategoryAppointments},
		{notifications.TypePaymentRefunded, true, "payment_refunded", notifications.CategoryPayments},
		{notifications.TypeCommissionPaid, true, "commission_paid", notifications.CategoryCommissions},
		{notifications.TypeLoyaltyPointsEarned, true, "loyalty_points_earned", notifications.CategoryLoyalty},
		{notifications.TypeOutOfStockAlert, true, "out_of_stock_alert", notifications.CategoryInventory},
		{notifications.TypeNewLoginDetected, true, "new_login_detected", notifications.CategoryAccount},
		{notifications.TypeSystemAlert, true, "system_alert", notifications.CategorySystem},
		{"SOMETHING_ELSE", false, "something_else", notifications.CategorySystem},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, tt.typ.Valid())
			assert.Equal(t, tt.template, tt.typ.TemplateName())
			assert.Equal(t, tt.category, tt.typ.Category())
		})
	}

	assert.Len(t, notifications.Types(), 21)
}

func TestChannelAndPriorityValid(t *testing.T) {
	t.Parallel()

	for _, ch := range notifications.Channels() {
		assert.True(t, ch.Valid(), ch)
	}
	assert.False(t, notifications.Channel("SMS").Valid())
	assert.False(t, notifications.Channel("email").Valid())

	assert.True(t, notifications.PriorityLow.Valid())
	assert.True(t, notifications.PriorityHigh.Valid())
	assert.False(t, notifications.Priority("").Valid())
}

func TestData_Clone(t *testing.T) {
	t.Parallel()

	orig := notifications.Data{
		"name":  "Jane",
		"items": []any{map[string]any{"name": "Shampoo"}},
		"meta":  map[string]any{"tags": []string{"a"}},
	}
	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone["name"] = "Sam"
	clone["items"].([]any)[0].(map[string]any)["name"] = "Conditioner"
	clone["meta"].(map[string]any)["tags"].([]string)[0] = "b"

	assert.Equal(t, "Jane", orig["name"])
	assert.Equal(t, "Shampoo", orig["items"].([]any)[0].(map[string]any)["name"])
	assert.Equal(t, "a", orig["meta"].(map[string]any)["tags"].([]string)[0])

	assert.NotNil(t, notifications.Data(nil).Clone())
}

func TestData_CloneCutsCycles(t *testing.T) {
	t.Parallel()

	inner := map[string]any{"name": "Glow Salon"}
	inner["self"] = inner
	list := []any{"a", nil}
	list[1] = list
	orig := notifications.Data{"salon": inner, "list": list}
	orig["root"] = map[string]any(orig)

	var clone notifications.Data
	require.NotPanics(t, func() { clone = orig.Clone() })

	salon := clone["salon"].(map[string]any)
	assert.Equal(t, "Glow Salon", salon["name"])
	assert.Nil(t, salon["self"])
	assert.Equal(t, []any{"a", nil}, clone["list"])
	assert.Nil(t, clone["root"])

	shared := map[string]any{"v": 1}
	twice := notifications.Data{"a": shared, "b": shared}.Clone()
	assert.Equal(t, shared, twice["a"])
	assert.Equal(t, shared, twice["b"])
}

func TestReport(t *testing.T) {
	t.Parallel()

	r := &notifications.Report{Results: []notifications.DeliveryResult{
		{Channel: notifications.ChannelInApp, Success: true, MessageID: "a"},
		notifications.Failure(notifications.ChannelEmail, notifications.ErrChannelNotConfigured),
	}}

	res, ok := r.Result(notifications.ChannelEmail)
	require.True(t, ok)
	assert.Equal(t, "channel not configured", res.Error)

	_, ok = r.Result(notifications.ChannelPush)
	assert.False(t, ok)

	assert.True(t, r.Succeeded(notifications.ChannelInApp))
	assert.False(t, r.Succeeded(notifications.ChannelEmail))
	assert.False(t, r.Succeeded(notifications.ChannelPush))
	assert.Len(t, r.Failed(), 1)
	assert.Equal(t, 1, r.Delivered())
}

func TestMemoryDirectory(t *testing.T) {
	t.Parallel()

	d := notifications.NewMemoryDirectory(notifications.User{ID: "u1", Email: "a@example.com"})
	d.Put(notifications.User{ID: "u2", FullName: "Sam"})

	u, err := d.FindUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)

	u, err = d.FindUser(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "Sam", u.FullName)

	_, err = d.FindUser(context.Background(), "u3")
	assert.ErrorIs(t, err, notifications.ErrUserNotFound)
}

type countingDirectory struct {
	notifications.Directory
	calls int
}

func (d *countingDirectory) FindUser(ctx context.Context, id string) (*notifications.User, error) {
	d.calls++
	return d.Directory.FindUser(ctx, id)
}

func TestCachedDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := notifications.NewMemoryDirectory(notifications.User{ID: "u1", Email: "a@example.com"})
	counter := &countingDirectory{Directory: mem}
	d := notifications.NewCachedDirectory(counter, 10, 0)

	for range 3 {
		u, err := d.FindUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", u.Email)
	}
	assert.Equal(t, 1, counter.calls)

	_, err := d.FindUser(ctx, "u2")
	require.ErrorIs(t, err, notifications.ErrUserNotFound)
	mem.Put(notifications.User{ID: "u2", FullName: "Sam"})
	u, err := d.FindUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Sam", u.FullName)

	mem.Put(notifications.User{ID: "u1", Email: "b@example.com"})
	d.Forget("u1")
	u, err = d.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", u.Email)
}

type emptyDirectory struct{}

func (emptyDirectory) FindUser(context.Context, string) (*notifications.User, error) { return nil, nil }

func TestCachedDirectory_NilUser(t *testing.T) {
	t.Parallel()

	d := notifications.NewCachedDirectory(emptyDirectory{}, 10, 0)
	u, err := d.FindUser(context.Background(), "u1")
	require.ErrorIs(t, err, notifications.ErrUserNotFound)
	assert.Nil(t, u)
}
