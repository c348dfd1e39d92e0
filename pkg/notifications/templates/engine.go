package templates

import (
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Content is everything a channel may need for one notification.
type Content struct {
	Subject     string
	Summary     string
	HTML        string
	Icon        string
	ActionLabel string
}

// Engine renders catalog documents. It holds no mutable state after New and
// is safe for concurrent use.
type Engine struct {
	docs   map[string]Document
	locale language.Tag
	brand  string
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocale sets the locale used for number formatting in line items.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) { e.locale = tag }
}

// WithBrand sets the sender name shown in the email footer.
func WithBrand(name string) Option {
	return func(e *Engine) { e.brand = name }
}

// WithEngineLogger sets the logger used to report recovered render panics.
func WithEngineLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New builds the catalog.
func New(opts ...Option) *Engine {
	e := &Engine{
		docs:   buildCatalog(),
		locale: language.English,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lookup returns the document for name, falling back to the default document.
func (e *Engine) Lookup(name string) Document {
	if doc, ok := e.docs[NormalizeName(name)]; ok {
		return doc
	}
	return e.docs[DefaultName]
}

// Has reports whether name has its own document.
func (e *Engine) Has(name string) bool {
	_, ok := e.docs[NormalizeName(name)]
	return ok
}

// Names lists catalog entries in alphabetical order.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.docs))
	for n := range e.docs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render returns the full HTML document for name.
func (e *Engine) Render(name string, vars map[string]any) string {
	doc := e.Lookup(name)
	return e.render(doc, doc.HTML, vars, true)
}

// Subject returns the plain-text subject line for name.
func (e *Engine) Subject(name string, vars map[string]any) string {
	doc := e.Lookup(name)
	return strings.TrimSpace(e.render(doc, doc.Subject, vars, false))
}

// Summary returns the plain-text body used by push and in-app channels.
func (e *Engine) Summary(name string, vars map[string]any) string {
	doc := e.Lookup(name)
	return strings.TrimSpace(e.render(doc, doc.Summary, vars, false))
}

// Compose renders every part of the document for name.
func (e *Engine) Compose(name string, vars map[string]any) Content {
	doc := e.Lookup(name)
	subject := strings.TrimSpace(e.render(doc, doc.Subject, vars, false))

	label := doc.ActionLabel
	if v, ok := Lookup(vars, "actionLabel"); ok && Truthy(v) {
		label = Stringify(v)
	}
	icon := doc.Icon
	if v, ok := Lookup(vars, "icon"); ok && Truthy(v) {
		icon = Stringify(v)
	}

	return Content{
		Subject:     subject,
		Summary:     strings.TrimSpace(e.render(doc, doc.Summary, vars, false)),
		HTML:        e.render(doc, doc.HTML, withDefault(vars, "subject", subject), true),
		Icon:        icon,
		ActionLabel: label,
	}
}

func (e *Engine) render(doc Document, tpl string, vars map[string]any, html bool) (out string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("template render panicked",
				logger.Template(doc.Name),
				slog.Any("panic", r),
			)
			out = cleanup(tpl)
		}
	}()

	lookup := e.resolver(doc, vars)

	if strings.Contains(tpl, itemsPlaceholder) {
		items := collectItems(vars, e.locale)
		rendered := itemsText(items)
		if html {
			rendered = itemsTable(items)
		}
		tpl = strings.ReplaceAll(tpl, itemsPlaceholder, rendered)
	}

	tpl = resolveConditionals(tpl, lookup)
	tpl = substitute(tpl, lookup, html)
	return cleanup(tpl)
}

// resolver layers caller vars over per-document defaults.
func (e *Engine) resolver(doc Document, vars map[string]any) resolver {
	return func(name string) (any, bool) {
		if v, ok := Lookup(vars, name); ok {
			return v, true
		}
		switch name {
		case "actionLabel":
			return doc.ActionLabel, doc.ActionLabel != ""
		case "icon":
			return doc.Icon, doc.Icon != ""
		case "brand":
			return e.brand, e.brand != ""
		case "subject":
			return e.render(doc, doc.Subject, vars, false), true
		}
		return nil, false
	}
}

// withDefault returns vars with key set to value unless already present.
// vars itself is never modified.
func withDefault(vars map[string]any, key string, value any) map[string]any {
	if _, ok := vars[key]; ok {
		return vars
	}
	out := make(map[string]any, len(vars)+1)
	for k, v := range vars {
		out[k] = v
	}
	out[key] = value
	return out
}
