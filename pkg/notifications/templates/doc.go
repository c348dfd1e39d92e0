// Package templates renders notification content from a static catalog.
//
// Every notification type has a Document: a subject line, a plain-text
// summary, and an HTML body composed from a shared layout. Documents are
// looked up by normalized name ("APPOINTMENT_BOOKED" -> "appointment_booked")
// and unknown names fall back to a generic document.
//
// The template language is deliberately small:
//
//	{{name}}                      value of vars["name"]; dotted paths allowed
//	{{#if name}}A{{else}}B{{/if}} A when vars["name"] is truthy, otherwise B
//	{{itemsTable}}                vars["items"] rendered as an HTML table
//
// Conditionals nest and are resolved innermost first. Missing values render as
// empty strings, leftover tokens are stripped, and rendering never fails.
package templates
