package notifications

import (
	"reflect"
	"strings"
)

// Type identifies the domain event behind a notification. It doubles as the
// routing key for the delivery policy and, normalized, as the template name.
type Type string

const (
	TypeAppointmentBooked      Type = "APPOINTMENT_BOOKED"
	TypeAppointmentConfirmed   Type = "APPOINTMENT_CONFIRMED"
	TypeAppointmentCancelled   Type = "APPOINTMENT_CANCELLED"
	TypeAppointmentRescheduled Type = "APPOINTMENT_RESCHEDULED"
	TypeAppointmentReminder    Type = "APPOINTMENT_REMINDER"
	TypeAppointmentCompleted   Type = "APPOINTMENT_COMPLETED"

	TypePaymentReceived Type = "PAYMENT_RECEIVED"
	TypePaymentFailed   Type = "PAYMENT_FAILED"
	TypePaymentRefunded Type = "PAYMENT_REFUNDED"

	TypeCommissionEarned Type = "COMMISSION_EARNED"
	TypeCommissionPaid   Type = "COMMISSION_PAID"

	TypeLoyaltyPointsEarned   Type = "LOYALTY_POINTS_EARNED"
	TypeLoyaltyPointsRedeemed Type = "LOYALTY_POINTS_REDEEMED"

	TypeLowStockAlert   Type = "LOW_STOCK_ALERT"
	TypeOutOfStockAlert Type = "OUT_OF_STOCK_ALERT"

	TypeWelcome          Type = "WELCOME"
	TypePasswordReset    Type = "PASSWORD_RESET"
	TypePasswordChanged  Type = "PASSWORD_CHANGED"
	TypeNewLoginDetected Type = "NEW_LOGIN_DETECTED"
	TypeAccountLocked    Type = "ACCOUNT_LOCKED"

	TypeSystemAlert Type = "SYSTEM_ALERT"
)

// Category groups related types. Push providers use it as the channel hint.
type Category string

const (
	CategoryAppointments Category = "appointments"
	CategoryPayments     Category = "payments"
	CategoryCommissions  Category = "commissions"
	CategoryLoyalty      Category = "loyalty"
	CategoryInventory    Category = "inventory"
	CategoryAccount      Category = "account"
	CategorySystem       Category = "system"
)

var typeCategories = map[Type]Category{
	TypeAppointmentBooked:      CategoryAppointments,
	TypeAppointmentConfirmed:   CategoryAppointments,
	TypeAppointmentCancelled:   CategoryAppointments,
	TypeAppointmentRescheduled: CategoryAppointments,
	TypeAppointmentReminder:    CategoryAppointments,
	TypeAppointmentCompleted:   CategoryAppointments,
	TypePaymentReceived:        CategoryPayments,
	TypePaymentFailed:          CategoryPayments,
	TypePaymentRefunded:        CategoryPayments,
	TypeCommissionEarned:       CategoryCommissions,
	TypeCommissionPaid:         CategoryCommissions,
	TypeLoyaltyPointsEarned:    CategoryLoyalty,
	TypeLoyaltyPointsRedeemed:  CategoryLoyalty,
	TypeLowStockAlert:          CategoryInventory,
	TypeOutOfStockAlert:        CategoryInventory,
	TypeWelcome:                CategoryAccount,
	TypePasswordReset:          CategoryAccount,
	TypePasswordChanged:        CategoryAccount,
	TypeNewLoginDetected:       CategoryAccount,
	TypeAccountLocked:          CategoryAccount,
	TypeSystemAlert:            CategorySystem,
}

// Types lists every known type.
func Types() []Type {
	return []Type{
		TypeAppointmentBooked, TypeAppointmentConfirmed, TypeAppointmentCancelled,
		TypeAppointmentRescheduled, TypeAppointmentReminder, TypeAppointmentCompleted,
		TypePaymentReceived, TypePaymentFailed, TypePaymentRefunded,
		TypeCommissionEarned, TypeCommissionPaid,
		TypeLoyaltyPointsEarned, TypeLoyaltyPointsRedeemed,
		TypeLowStockAlert, TypeOutOfStockAlert,
		TypeWelcome, TypePasswordReset, TypePasswordChanged, TypeNewLoginDetected, TypeAccountLocked,
		TypeSystemAlert,
	}
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	_, ok := typeCategories[t]
	return ok
}

// TemplateName returns the catalog key, e.g. "appointment_booked".
func (t Type) TemplateName() string {
	return strings.ToLower(strings.TrimSpace(string(t)))
}

// Category returns the group of t, or CategorySystem for unknown types.
func (t Type) Category() Category {
	if c, ok := typeCategories[t]; ok {
		return c
	}
	return CategorySystem
}

// Channel is a delivery medium.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelPush  Channel = "PUSH"
	ChannelInApp Channel = "IN_APP"
)

// Channels lists every channel in dispatch order.
func Channels() []Channel {
	return []Channel{ChannelInApp, ChannelEmail, ChannelPush}
}

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelPush, ChannelInApp:
		return true
	}
	return false
}

// Priority is the delivery urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// Data is the open key/value context a notification is rendered from.
type Data map[string]any

// Clone returns a deep copy. Nested maps and slices of any are copied;
// other values are shared. A map or slice that contains itself is cut at
// the repeated reference, which becomes nil.
func (d Data) Clone() Data {
	if d == nil {
		return Data{}
	}
	return Data(cloneMap(d, map[uintptr]bool{}))
}

func cloneMap(m map[string]any, path map[uintptr]bool) map[string]any {
	p := reflect.ValueOf(m).Pointer()
	if path[p] {
		return nil
	}
	path[p] = true
	defer delete(path, p)

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v, path)
	}
	return out
}

func cloneValue(v any, path map[uintptr]bool) any {
	switch t := v.(type) {
	case map[string]any:
		if m := cloneMap(t, path); m != nil {
			return m
		}
		return nil
	case Data:
		if m := cloneMap(t, path); m != nil {
			return Data(m)
		}
		return nil
	case []any:
		if len(t) == 0 {
			return make([]any, 0)
		}
		p := reflect.ValueOf(t).Pointer()
		if path[p] {
			return nil
		}
		path[p] = true
		defer delete(path, p)
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv, path)
		}
		return s
	case []map[string]any:
		s := make([]map[string]any, len(t))
		for i, vv := range t {
			s[i] = cloneMap(vv, path)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

