package templates

import "strings"

// DefaultName is the document used for unknown template names.
const DefaultName = "default"

// Document is a compiled catalog entry. HTML is the base layout with the
// type fragment already inlined.
type Document struct {
	Name        string
	Subject     string
	Summary     string
	HTML        string
	Icon        string
	ActionLabel string
}

type fragment struct {
	subject     string
	summary     string
	body        string
	icon        string
	actionLabel string
}

const layout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{subject}}</title>
<style>
body{margin:0;padding:0;background:#f4f4f7;font-family:Helvetica,Arial,sans-serif;color:#333}
.wrapper{max-width:600px;margin:0 auto;padding:24px}
.card{background:#fff;border-radius:8px;padding:32px}
.button{display:inline-block;padding:12px 24px;background:#6b46c1;color:#fff;text-decoration:none;border-radius:4px}
.items{width:100%;border-collapse:collapse;margin:16px 0}
.items th,.items td{padding:8px;border-bottom:1px solid #eee;text-align:left}
.footer{font-size:12px;color:#999;text-align:center;padding-top:16px}
</style>
</head>
<body>
<div class="wrapper">
<div class="card">
<h1>{{subject}}</h1>
{{content}}
{{#if actionUrl}}<p><a class="button" href="{{actionUrl}}">{{#if actionLabel}}{{actionLabel}}{{else}}Open{{/if}}</a></p>{{/if}}
</div>
<div class="footer">{{#if brand}}{{brand}}{{else}}This is an automated message{{/if}}. Please do not reply to this email.</div>
</div>
</body>
</html>`

var fragments = map[string]fragment{
	DefaultName: {
		subject: `{{#if title}}{{title}}{{else}}You have a new notification{{/if}}`,
		summary: `{{#if message}}{{message}}{{else}}You have a new notification.{{/if}}`,
		body:    `<p>{{#if customerName}}Hi {{customerName}},{{else}}Hello,{{/if}}</p><p>{{#if message}}{{message}}{{else}}You have a new notification.{{/if}}</p>`,
		icon:    "bell",
	},

	"appointment_booked": {
		subject:     `Appointment booked at {{salonName}}`,
		summary:     `Your {{serviceName}} at {{salonName}} is booked for {{appointmentDate}} at {{appointmentTime}}.`,
		body:        `<p>Hi {{customerName}},</p><p>Your appointment for <strong>{{serviceName}}</strong> at {{salonName}} is booked for {{appointmentDate}} at {{appointmentTime}}.</p>{{#if staffName}}<p>Your stylist: {{staffName}}</p>{{/if}}{{#if price}}<p>Price: {{#if currency}}{{currency}} {{/if}}{{price}}</p>{{/if}}{{#if notes}}<p>Notes: {{notes}}</p>{{/if}}`,
		icon:        "calendar-plus",
		actionLabel: "View appointment",
	},
	"appointment_confirmed": {
		subject:     `Appointment confirmed at {{salonName}}`,
		summary:     `{{salonName}} confirmed your {{serviceName}} on {{appointmentDate}} at {{appointmentTime}}.`,
		body:        `<p>Hi {{customerName}},</p><p>Good news! {{salonName}} confirmed your <strong>{{serviceName}}</strong> on {{appointmentDate}} at {{appointmentTime}}.</p>{{#if staffName}}<p>{{staffName}} is looking forward to seeing you.</p>{{/if}}`,
		icon:        "calendar-check",
		actionLabel: "View appointment",
	},
	"appointment_cancelled": {
		subject:     `Appointment cancelled`,
		summary:     `Your {{serviceName}} on {{appointmentDate}} at {{appointmentTime}} was cancelled.`,
		body:        `<p>Hi {{customerName}},</p><p>Your <strong>{{serviceName}}</strong> at {{salonName}} on {{appointmentDate}} at {{appointmentTime}} was cancelled.</p>{{#if reason}}<p>Reason: {{reason}}</p>{{/if}}{{#if refundAmount}}<p>A refund of {{#if currency}}{{currency}} {{/if}}{{refundAmount}} is on its way.</p>{{else}}<p>No payment was taken for this appointment.</p>{{/if}}`,
		icon:        "calendar-x",
		actionLabel: "Book again",
	},
	"appointment_rescheduled": {
		subject:     `Appointment rescheduled`,
		summary:     `Your {{serviceName}} moved to {{appointmentDate}} at {{appointmentTime}}.`,
		body:        `<p>Hi {{customerName}},</p><p>Your <strong>{{serviceName}}</strong> at {{salonName}} has been moved{{#if previousDate}} from {{previousDate}}{{#if previousTime}} at {{previousTime}}{{/if}}{{/if}} to {{appointmentDate}} at {{appointmentTime}}.</p>`,
		icon:        "calendar-clock",
		actionLabel: "View appointment",
	},
	"appointment_reminder": {
		subject:     `Reminder: {{serviceName}} {{#if appointmentDate}}on {{appointmentDate}}{{else}}soon{{/if}}`,
		summary:     `Reminder: {{serviceName}} at {{salonName}} on {{appointmentDate}} at {{appointmentTime}}.`,
		body:        `<p>Hi {{customerName}},</p><p>This is a reminder of your <strong>{{serviceName}}</strong> at {{salonName}} on {{appointmentDate}} at {{appointmentTime}}.</p>{{#if salonAddress}}<p>Address: {{salonAddress}}</p>{{/if}}`,
		icon:        "alarm-clock",
		actionLabel: "View appointment",
	},
	"appointment_completed": {
		subject:     `Thanks for visiting {{salonName}}`,
		summary:     `Thanks for visiting {{salonName}}.{{#if pointsEarned}} You earned {{pointsEarned}} points.{{/if}}`,
		body:        `<p>Hi {{customerName}},</p><p>Thank you for your visit to {{salonName}}. We hope you enjoyed your {{serviceName}}.</p>{{#if pointsEarned}}<p>You earned <strong>{{pointsEarned}}</strong> loyalty points.</p>{{/if}}{{#if reviewUrl}}<p><a href="{{reviewUrl}}">Leave a review</a></p>{{/if}}`,
		icon:        "sparkles",
		actionLabel: "Book again",
	},

	"payment_received": {
		subject:     `Payment received`,
		summary:     `We received your payment of {{#if currency}}{{currency}} {{/if}}{{amount}}.`,
		body:        `<p>Hi {{customerName}},</p><p>We received your payment of <strong>{{#if currency}}{{currency}} {{/if}}{{amount}}</strong>{{#if paymentMethod}} via {{paymentMethod}}{{/if}}.</p>{{#if items}}{{itemsTable}}{{/if}}{{#if receiptUrl}}<p><a href="{{receiptUrl}}">Download receipt</a></p>{{/if}}`,
		icon:        "receipt",
		actionLabel: "View receipt",
	},
	"payment_failed": {
		subject:     `Payment failed`,
		summary:     `Your payment of {{#if currency}}{{currency}} {{/if}}{{amount}} failed.{{#if reason}} {{reason}}{{/if}}`,
		body:        `<p>Hi {{customerName}},</p><p>Your payment of <strong>{{#if currency}}{{currency}} {{/if}}{{amount}}</strong> could not be processed.</p>{{#if reason}}<p>Reason: {{reason}}</p>{{/if}}<p>Please update your payment details and try again.</p>`,
		icon:        "credit-card-off",
		actionLabel: "Retry payment",
	},
	"payment_refunded": {
		subject:     `Refund issued`,
		summary:     `A refund of {{#if currency}}{{currency}} {{/if}}{{amount}} has been issued.`,
		body:        `<p>Hi {{customerName}},</p><p>We issued a refund of <strong>{{#if currency}}{{currency}} {{/if}}{{amount}}</strong>.</p>{{#if reason}}<p>Reason: {{reason}}</p>{{/if}}<p>Refunds usually appear within 5-10 business days.</p>`,
		icon:        "rotate-ccw",
		actionLabel: "View details",
	},

	"commission_earned": {
		subject:     `Commission earned`,
		summary:     `You earned {{#if currency}}{{currency}} {{/if}}{{amount}} commission{{#if serviceName}} for {{serviceName}}{{/if}}.`,
		body:        `<p>Hi {{staffName}},</p><p>You earned <strong>{{#if currency}}{{currency}} {{/if}}{{amount}}</strong> commission{{#if serviceName}} for {{serviceName}}{{/if}}{{#if appointmentDate}} on {{appointmentDate}}{{/if}}.</p>`,
		icon:        "trending-up",
		actionLabel: "View earnings",
	},
	"commission_paid": {
		subject:     `Commission paid`,
		summary:     `Your commission of {{#if currency}}{{currency}} {{/if}}{{amount}} has been paid.`,
		body:        `<p>Hi {{staffName}},</p><p>Your commission payout of <strong>{{#if currency}}{{currency}} {{/if}}{{amount}}</strong>{{#if period}} for {{period}}{{/if}} has been sent{{#if payoutMethod}} via {{payoutMethod}}{{/if}}.</p>`,
		icon:        "wallet",
		actionLabel: "View payouts",
	},

	"loyalty_points_earned": {
		subject:     `You earned {{points}} points`,
		summary:     `You earned {{points}} points{{#if totalPoints}}. Balance: {{totalPoints}}{{/if}}.`,
		body:        `<p>Hi {{customerName}},</p><p>You earned <strong>{{points}}</strong> loyalty points{{#if salonName}} at {{salonName}}{{/if}}.</p>{{#if totalPoints}}<p>Your balance is now {{totalPoints}} points.</p>{{/if}}`,
		icon:        "star",
		actionLabel: "View rewards",
	},
	"loyalty_points_redeemed": {
		subject:     `Points redeemed`,
		summary:     `You redeemed {{points}} points{{#if reward}} for {{reward}}{{/if}}.`,
		body:        `<p>Hi {{customerName}},</p><p>You redeemed <strong>{{points}}</strong> points{{#if reward}} for {{reward}}{{/if}}.</p>{{#if remainingPoints}}<p>Remaining balance: {{remainingPoints}} points.</p>{{else}}<p>You have no points left.</p>{{/if}}`,
		icon:        "gift",
		actionLabel: "View rewards",
	},

	"low_stock_alert": {
		subject:     `Low stock: {{productName}}`,
		summary:     `{{productName}} is running low ({{currentStock}} left{{#if threshold}}, threshold {{threshold}}{{/if}}).`,
		body:        `<p>{{productName}} is running low{{#if salonName}} at {{salonName}}{{/if}}.</p><p>Current stock: <strong>{{currentStock}}</strong>{{#if threshold}} (threshold {{threshold}}){{/if}}</p>`,
		icon:        "package",
		actionLabel: "Reorder",
	},
	"out_of_stock_alert": {
		subject:     `Out of stock: {{productName}}`,
		summary:     `{{productName}} is out of stock{{#if salonName}} at {{salonName}}{{/if}}.`,
		body:        `<p><strong>{{productName}}</strong> is out of stock{{#if salonName}} at {{salonName}}{{/if}}.</p><p>Services that use this product may be affected.</p>`,
		icon:        "package-x",
		actionLabel: "Reorder",
	},

	"welcome": {
		subject:     `Welcome{{#if salonName}} to {{salonName}}{{/if}}`,
		summary:     `Welcome{{#if customerName}}, {{customerName}}{{/if}}! Your account is ready.`,
		body:        `<p>Hi {{customerName}},</p><p>Welcome{{#if salonName}} to {{salonName}}{{/if}}! Your account is ready and you can book your first appointment any time.</p>`,
		icon:        "hand-wave",
		actionLabel: "Get started",
	},
	"password_reset": {
		subject:     `Reset your password`,
		summary:     `A password reset was requested for your account.`,
		body:        `<p>Hi {{customerName}},</p><p>We received a request to reset your password.</p>{{#if resetUrl}}<p><a class="button" href="{{resetUrl}}">Reset password</a></p>{{/if}}{{#if expiresIn}}<p>This link expires in {{expiresIn}}.</p>{{/if}}<p>If you did not request this, you can ignore this email.</p>`,
		icon:        "key",
		actionLabel: "Reset password",
	},
	"password_changed": {
		subject:     `Your password was changed`,
		summary:     `Your password was changed{{#if changedAt}} on {{changedAt}}{{/if}}.`,
		body:        `<p>Hi {{customerName}},</p><p>Your password was changed{{#if changedAt}} on {{changedAt}}{{/if}}.</p><p>If this was not you, reset your password immediately and contact support.</p>`,
		icon:        "shield-check",
		actionLabel: "Review security",
	},
	"new_login_detected": {
		subject:     `New sign-in to your account`,
		summary:     `New sign-in{{#if device}} from {{device}}{{/if}}{{#if location}} in {{location}}{{/if}}.`,
		body:        `<p>Hi {{customerName}},</p><p>We noticed a new sign-in to your account.</p><ul>{{#if device}}<li>Device: {{device}}</li>{{/if}}{{#if location}}<li>Location: {{location}}</li>{{/if}}{{#if ipAddress}}<li>IP address: {{ipAddress}}</li>{{/if}}{{#if loginTime}}<li>Time: {{loginTime}}</li>{{/if}}</ul><p>If this was you, no action is needed.</p>`,
		icon:        "log-in",
		actionLabel: "Review activity",
	},
	"account_locked": {
		subject:     `Your account has been locked`,
		summary:     `Your account was locked{{#if reason}}: {{reason}}{{/if}}.`,
		body:        `<p>Hi {{customerName}},</p><p>Your account has been locked{{#if reason}} because {{reason}}{{else}} after too many failed sign-in attempts{{/if}}.</p>{{#if unlockUrl}}<p><a href="{{unlockUrl}}">Unlock your account</a></p>{{/if}}`,
		icon:        "lock",
		actionLabel: "Unlock account",
	},

	"system_alert": {
		subject:     `{{#if severity}}[{{severity}}] {{/if}}{{#if title}}{{title}}{{else}}System alert{{/if}}`,
		summary:     `{{#if message}}{{message}}{{else}}A system alert was raised.{{/if}}`,
		body:        `<p>{{#if message}}{{message}}{{else}}A system alert was raised.{{/if}}</p>{{#if details}}<pre>{{details}}</pre>{{/if}}`,
		icon:        "alert-triangle",
		actionLabel: "View details",
	},
}

// buildCatalog composes every fragment into the shared layout.
func buildCatalog() map[string]Document {
	docs := make(map[string]Document, len(fragments))
	for name, f := range fragments {
		docs[name] = Document{
			Name:        name,
			Subject:     f.subject,
			Summary:     f.summary,
			HTML:        strings.Replace(layout, "{{content}}", f.body, 1),
			Icon:        f.icon,
			ActionLabel: f.actionLabel,
		}
	}
	return docs
}

// NormalizeName maps a type tag to its catalog key: "APPOINTMENT_BOOKED" and
// "appointment-booked" both become "appointment_booked".
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(name)
}
