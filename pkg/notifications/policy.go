package notifications

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicyYAML []byte

// Rule is the default routing for one type.
type Rule struct {
	Channels []Channel `yaml:"channels"`
	Priority Priority  `yaml:"priority"`
}

type policyDocument struct {
	Types map[Type]Rule `yaml:"types"`
}

// Policy maps a type to its default channels and priority.
// It is immutable after construction and safe for concurrent use.
type Policy struct {
	rules      map[Type]Rule
	honorPrefs bool
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithUserPreferences narrows default channel sets to the recipient's
// preferred channels. IN_APP is always kept; explicit channels are never
// narrowed.
func WithUserPreferences() PolicyOption {
	return func(p *Policy) { p.honorPrefs = true }
}

// NewPolicy validates rules and builds a Policy from them.
func NewPolicy(rules map[Type]Rule, opts ...PolicyOption) (*Policy, error) {
	p := &Policy{rules: make(map[Type]Rule, len(rules))}
	for t, r := range rules {
		if t == "" {
			return nil, fmt.Errorf("%w: empty type", ErrInvalidPolicy)
		}
		if len(r.Channels) == 0 {
			return nil, fmt.Errorf("%w: %s has no channels", ErrInvalidPolicy, t)
		}
		chs := make([]Channel, 0, len(r.Channels))
		for _, ch := range r.Channels {
			if !ch.Valid() {
				return nil, fmt.Errorf("%w: %s has unknown channel %q", ErrInvalidPolicy, t, ch)
			}
			if !slices.Contains(chs, ch) {
				chs = append(chs, ch)
			}
		}
		prio := r.Priority
		if prio == "" {
			prio = PriorityNormal
		}
		if !prio.Valid() {
			return nil, fmt.Errorf("%w: %s has unknown priority %q", ErrInvalidPolicy, t, r.Priority)
		}
		p.rules[t] = Rule{Channels: chs, Priority: prio}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// LoadPolicy reads a YAML document with a top-level "types" mapping.
func LoadPolicy(r io.Reader, opts ...PolicyOption) (*Policy, error) {
	var doc policyDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidPolicy, err)
	}
	return NewPolicy(doc.Types, opts...)
}

// DefaultPolicy returns the built-in policy. It panics if the embedded
// document is invalid.
func DefaultPolicy(opts ...PolicyOption) *Policy {
	p, err := LoadPolicy(bytes.NewReader(defaultPolicyYAML), opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Rule returns the rule for t.
func (p *Policy) Rule(t Type) (Rule, bool) {
	r, ok := p.rules[t]
	if !ok {
		return Rule{}, false
	}
	return Rule{Channels: slices.Clone(r.Channels), Priority: r.Priority}, true
}

// ResolveChannels returns the ordered, de-duplicated channel set for t.
// Valid explicit channels win; when none remain the type default applies.
// Unknown types without explicit channels resolve to an empty set.
func (p *Policy) ResolveChannels(t Type, explicit []Channel) []Channel {
	out := make([]Channel, 0, len(explicit))
	for _, ch := range explicit {
		if ch.Valid() && !slices.Contains(out, ch) {
			out = append(out, ch)
		}
	}
	if len(out) > 0 {
		return out
	}
	if r, ok := p.rules[t]; ok {
		return slices.Clone(r.Channels)
	}
	return out
}

// ResolvePriority returns explicit when valid, else the type default,
// else PriorityNormal.
func (p *Policy) ResolvePriority(t Type, explicit Priority) Priority {
	if explicit.Valid() {
		return explicit
	}
	if r, ok := p.rules[t]; ok {
		return r.Priority
	}
	return PriorityNormal
}

// ApplyPreferences narrows channels to u.PreferredChannels when the policy
// honors preferences. explicit reports whether channels came from the caller.
func (p *Policy) ApplyPreferences(channels []Channel, u User, explicit bool) []Channel {
	if !p.honorPrefs || explicit || len(u.PreferredChannels) == 0 {
		return channels
	}
	out := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch == ChannelInApp || slices.Contains(u.PreferredChannels, ch) {
			out = append(out, ch)
		}
	}
	return out
}
