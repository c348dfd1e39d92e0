package templates_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifykit/pkg/notifications/templates"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	var nilPtr *string
	s := "x"
	tests := []struct {
		v    any
		want templates.Kind
	}{
		{nil, templates.KindNull},
		{nilPtr, templates.KindNull},
		{"a", templates.KindString},
		{&s, templates.KindString},
		{3, templates.KindNumber},
		{2.5, templates.KindNumber},
		{json.Number("7"), templates.KindNumber},
		{true, templates.KindBool},
		{[]any{1}, templates.KindList},
		{[]string{}, templates.KindList},
		{map[string]any{}, templates.KindObject},
		{struct{ A int }{1}, templates.KindObject},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, templates.KindOf(tt.v), "%#v", tt.v)
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "x", true},
		{"string zero", "0", true},
		{"zero int", 0, false},
		{"zero float", 0.0, false},
		{"nan", math.NaN(), false},
		{"negative", -1, true},
		{"json zero", json.Number("0"), false},
		{"empty list", []any{}, false},
		{"list", []int{0}, true},
		{"empty object", map[string]any{}, false},
		{"object", map[string]int{"a": 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, templates.Truthy(tt.v))
		})
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", templates.Stringify(nil))
	assert.Equal(t, "42", templates.Stringify(42))
	assert.Equal(t, "0.1", templates.Stringify(0.1))
	assert.Equal(t, "true", templates.Stringify(true))
	assert.Equal(t, "a, b", templates.Stringify([]string{"a", "b"}))
	assert.Equal(t, `{"a":1}`, templates.Stringify(map[string]any{"a": 1}))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	vars := map[string]any{
		"customer": map[string]any{"name": "Amina", "tags": []any{"vip"}},
		"a.b":      "flat",
		"typed":    map[string]string{"k": "v"},
	}

	v, ok := templates.Lookup(vars, "customer.name")
	assert.True(t, ok)
	assert.Equal(t, "Amina", v)

	v, ok = templates.Lookup(vars, "customer.tags.0")
	assert.True(t, ok)
	assert.Equal(t, "vip", v)

	v, _ = templates.Lookup(vars, "a.b")
	assert.Equal(t, "flat", v)

	v, _ = templates.Lookup(vars, "typed.k")
	assert.Equal(t, "v", v)

	_, ok = templates.Lookup(vars, "customer.missing")
	assert.False(t, ok)
	_, ok = templates.Lookup(nil, "x")
	assert.False(t, ok)
}
