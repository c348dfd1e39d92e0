package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultMaxAttempts is the total number of attempts, first try included.
const DefaultMaxAttempts = 3

// State is a node of the retry state machine.
type State string

const (
	StateIdle       State = "idle"
	StateAttempting State = "attempting"
	StateDelaying   State = "delaying"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Attempt records a single try.
type Attempt struct {
	Number   int
	Err      error
	Duration time.Duration
	// Delay is the wait scheduled after this attempt; zero for the last one.
	Delay time.Duration
}

// Succeeded reports whether the attempt returned no error.
func (a Attempt) Succeeded() bool { return a.Err == nil }

// Policy bounds a retry loop. The zero value is usable.
type Policy struct {
	MaxAttempts int
	Backoff     Strategy
	Sleep       SleepFunc
	// OnAttempt, when set, observes every finished attempt.
	OnAttempt func(Attempt)
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State, attempt int)
}

// DefaultPolicy returns three attempts with 1s, 2s exponential delays.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     Exponential{Initial: time.Second, Multiplier: 2},
		Sleep:       Sleep,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Backoff == nil {
		p.Backoff = Exponential{}
	}
	if p.Sleep == nil {
		p.Sleep = Sleep
	}
	return p
}

// Outcome is the terminal result of Do.
type Outcome[T any] struct {
	Value    T
	State    State
	Attempts []Attempt
	Err      error
}

// Succeeded reports whether the machine ended in StateSucceeded.
func (o Outcome[T]) Succeeded() bool { return o.State == StateSucceeded }

// Op is the unit of work. attempt is 1-based.
type Op[T any] func(ctx context.Context, attempt int) (T, error)

// Do runs op until it succeeds, fails permanently, the budget runs out or
// ctx is cancelled during a delay.
func Do[T any](ctx context.Context, p Policy, op Op[T]) Outcome[T] {
	p = p.normalized()

	m := machine[T]{policy: p, state: StateIdle}
	m.out.Attempts = make([]Attempt, 0, p.MaxAttempts)

	for !m.state.Terminal() {
		switch m.state {
		case StateIdle:
			m.moveTo(StateAttempting)
		case StateAttempting:
			m.attempt(ctx, op)
		case StateDelaying:
			m.delay(ctx)
		}
	}

	m.out.State = m.state
	return m.out
}

type machine[T any] struct {
	policy  Policy
	state   State
	n       int
	lastErr error
	out     Outcome[T]
}

func (m *machine[T]) moveTo(next State) {
	if m.policy.OnTransition != nil {
		m.policy.OnTransition(m.state, next, m.n)
	}
	m.state = next
}

func (m *machine[T]) attempt(ctx context.Context, op Op[T]) {
	m.n++
	start := time.Now()
	value, err := op(ctx, m.n)
	rec := Attempt{Number: m.n, Err: unwrapPermanent(err), Duration: time.Since(start)}

	switch {
	case err == nil:
		m.out.Value = value
		m.record(rec)
		m.moveTo(StateSucceeded)
		return
	case IsPermanent(err):
		m.out.Err = rec.Err
	case m.n >= m.policy.MaxAttempts:
		m.out.Err = fmt.Errorf("%w after %d attempts: %w", ErrExhausted, m.n, rec.Err)
	case ctx.Err() != nil:
		m.out.Err = errors.Join(rec.Err, ctx.Err())
	default:
		m.lastErr = rec.Err
		rec.Delay = m.policy.Backoff.NextInterval(m.n)
		m.record(rec)
		m.moveTo(StateDelaying)
		return
	}

	m.record(rec)
	m.moveTo(StateFailed)
}

func (m *machine[T]) delay(ctx context.Context) {
	d := m.out.Attempts[len(m.out.Attempts)-1].Delay
	if err := m.policy.Sleep(ctx, d); err != nil {
		m.out.Err = errors.Join(m.lastErr, err)
		m.moveTo(StateFailed)
		return
	}
	m.moveTo(StateAttempting)
}

func (m *machine[T]) record(a Attempt) {
	m.out.Attempts = append(m.out.Attempts, a)
	if m.policy.OnAttempt != nil {
		m.policy.OnAttempt(a)
	}
}
