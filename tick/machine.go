// Package tick is a dirty-checking reactive engine.
//
// Signals watch storage owned by the caller (or act as bare event markers),
// bindings pair a callback with one signal, and nothing happens until the
// caller drives the machine with Advance. Each Advance runs a dispatch pass
// over the bindings, calling those whose signal changed since the previous
// Advance, followed by a reset pass that captures a new baseline for every
// signal.
//
//	m := tick.New()
//	x := 5
//	s, _ := tick.Observe(m, &x)
//	m.Bind(s, func(s *tick.Signal) error {
//		v, _ := tick.ValueOf[int](s)
//		fmt.Println("x changed to", v)
//		return nil
//	})
//	x = 35
//	m.Advance() // x changed to 35
//	m.Advance() // nothing
//
// A Machine is not safe for concurrent use.
package tick

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/delaneyj/ticksignals/registry"
)

// ErrorHandler receives errors returned by binding callbacks.
type ErrorHandler func(b *Binding, err error)

type Option func(*config)

type config struct {
	logger  *slog.Logger
	onError ErrorHandler
	limit   int
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithErrorHandler replaces the default handler, which logs callback errors
// at warn level.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithRegistryLimit caps the slots each of the signal and binding registries
// may allocate. Registration past the cap fails with registry.ErrFull.
func WithRegistryLimit(slots int) Option {
	return func(c *config) {
		c.limit = slots
	}
}

type Stats struct {
	Signals        int
	Bindings       int
	Advances       uint64
	Dispatches     uint64
	CallbackErrors uint64
}

type Machine struct {
	signals  *registry.Registry[*Signal]
	bindings *registry.Registry[*Binding]
	logger   *slog.Logger
	onError  ErrorHandler

	dispatching bool
	staged      []*Signal
	stale       []*Binding

	advances       uint64
	dispatches     uint64
	callbackErrors uint64
}

func New(opts ...Option) *Machine {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := &Machine{
		signals:  registry.New[*Signal](registry.WithLimit(c.limit)),
		bindings: registry.New[*Binding](registry.WithLimit(c.limit)),
		logger:   c.logger,
		onError:  c.onError,
	}
	if m.onError == nil {
		m.onError = m.logCallbackError
	}
	return m
}

func (m *Machine) logCallbackError(b *Binding, err error) {
	m.logger.Warn("binding callback failed", "kind", b.signal.kind, "error", err)
}

func (m *Machine) Signals() int {
	return m.signals.Len()
}

func (m *Machine) Bindings() int {
	return m.bindings.Len()
}

func (m *Machine) Stats() Stats {
	return Stats{
		Signals:        m.signals.Len(),
		Bindings:       m.bindings.Len(),
		Advances:       m.advances,
		Dispatches:     m.dispatches,
		CallbackErrors: m.callbackErrors,
	}
}

func (m *Machine) addSignal(kind Kind, w watcher) (*Signal, error) {
	if m == nil {
		panic("tick: nil machine")
	}
	s := &Signal{m: m, kind: kind, watch: w}
	if _, err := m.signals.Add(s); err != nil {
		return nil, fmt.Errorf("tick: add %s signal: %w", kind, err)
	}
	m.logger.Debug("signal added", "kind", kind, "signals", m.signals.Len())
	return s, nil
}

// Bind registers fn to be called whenever s has changed at the start of an
// Advance. Several bindings may watch the same signal; a binding never owns
// its signal.
func (m *Machine) Bind(s *Signal, fn Callback) (*Binding, error) {
	switch {
	case s == nil:
		panic("tick: nil signal")
	case fn == nil:
		panic("tick: nil callback")
	case s.m != m:
		panic("tick: signal belongs to another machine")
	}

	b := &Binding{m: m, fn: fn, signal: s}
	if _, err := m.bindings.Add(b); err != nil {
		return nil, fmt.Errorf("tick: bind %s signal: %w", s.kind, err)
	}
	m.logger.Debug("binding added", "kind", s.kind, "bindings", m.bindings.Len())
	return b, nil
}

// Advance runs one evaluation cycle: every binding whose signal changed is
// called in registration order, then every signal captures a new baseline.
// Emits issued from callbacks are applied after the reset, so they are seen
// by the next Advance.
func (m *Machine) Advance() {
	if m.dispatching {
		panic("tick: Advance called from a binding callback")
	}

	m.dispatch()

	for s := range m.signals.All() {
		s.Reset()
	}

	for _, s := range m.staged {
		if s.hasStaged {
			s.apply(s.staged)
		}
	}
	clear(m.staged)
	m.staged = m.staged[:0]

	m.advances++
}

func (m *Machine) dispatch() {
	m.dispatching = true
	defer func() {
		m.dispatching = false
		for _, b := range m.stale {
			m.bindings.Remove(b)
		}
		clear(m.stale)
		m.stale = m.stale[:0]
	}()

	for cursor := 0; ; {
		b, ok := m.bindings.Next(&cursor)
		if !ok {
			return
		}
		if b.detached || !b.signal.ShouldEmit() {
			continue
		}
		m.dispatches++
		b.Call()
	}
}

func (m *Machine) removeBinding(b *Binding) {
	if m.dispatching {
		m.stale = append(m.stale, b)
		return
	}
	m.bindings.Remove(b)
}

// Flush detaches every signal and binding and empties the machine. Handles
// held by the caller stay valid Go values but no longer take part in
// Advance.
func (m *Machine) Flush() {
	for b := range m.bindings.All() {
		b.detached = true
	}
	for s := range m.signals.All() {
		s.detached = true
		s.hasStaged, s.staged = false, nil
	}
	m.bindings.Flush()
	m.signals.Flush()

	clear(m.stale)
	m.stale = m.stale[:0]
	clear(m.staged)
	m.staged = m.staged[:0]

	m.logger.Debug("machine flushed")
}
