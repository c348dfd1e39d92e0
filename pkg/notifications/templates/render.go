package templates

import (
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

const (
	ifOpen    = "{{#if"
	ifClose   = "{{/if}}"
	elseToken = "{{else}}"
	tagEnd    = "}}"
)

var (
	placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}`)
	leftoverRe    = regexp.MustCompile(`\{\{[^{}]*\}\}`)
)

// resolver looks a name up for the current render call.
type resolver func(name string) (any, bool)

// resolveConditionals rewrites {{#if NAME}}A{{else}}B{{/if}} blocks from the
// innermost outward. Each pass takes the first closing marker and pairs it with
// the nearest opening marker before it, so that block contains no other block.
// The number of passes is bounded by the closing markers present on entry.
func resolveConditionals(s string, lookup resolver) string {
	passes := strings.Count(s, ifClose)
	for range passes {
		end := strings.Index(s, ifClose)
		if end < 0 {
			break
		}
		after := end + len(ifClose)

		start := strings.LastIndex(s[:end], ifOpen)
		if start < 0 {
			// Orphan closing marker.
			s = s[:end] + s[after:]
			continue
		}

		headLen := strings.Index(s[start:end], tagEnd)
		if headLen < 0 {
			// Opening tag never closes before the block ends; drop the marker.
			s = s[:start] + s[start+len(ifOpen):end] + s[after:]
			continue
		}

		name := strings.TrimSpace(s[start+len(ifOpen) : start+headLen])
		body := s[start+headLen+len(tagEnd) : end]

		then, otherwise := body, ""
		if i := strings.Index(body, elseToken); i >= 0 {
			then, otherwise = body[:i], body[i+len(elseToken):]
		}

		v, _ := lookup(name)
		chosen := otherwise
		if Truthy(v) {
			chosen = then
		}
		s = s[:start] + chosen + s[after:]
	}
	return s
}

// substitute replaces {{name}} placeholders in one pass, so substituted values
// are never scanned again.
func substitute(s string, lookup resolver, html bool) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(tok string) string {
		m := placeholderRe.FindStringSubmatch(tok)
		v, ok := lookup(m[1])
		if !ok {
			return ""
		}
		return sanitize(Stringify(v), html)
	})
}

// sanitize escapes a substituted value and neutralises braces so it cannot
// introduce template syntax.
func sanitize(v string, html bool) string {
	if html {
		v = templ.EscapeString(v)
		return strings.NewReplacer("{", "&#123;", "}", "&#125;").Replace(v)
	}
	for strings.Contains(v, "{{") || strings.Contains(v, "}}") {
		v = strings.ReplaceAll(v, "{{", "{")
		v = strings.ReplaceAll(v, "}}", "}")
	}
	return v
}

// cleanup strips unresolved tokens and then any stray braces left behind.
func cleanup(s string) string {
	s = leftoverRe.ReplaceAllString(s, "")
	for strings.Contains(s, "{{") || strings.Contains(s, "}}") {
		s = strings.ReplaceAll(s, "{{", "")
		s = strings.ReplaceAll(s, "}}", "")
	}
	return s
}
