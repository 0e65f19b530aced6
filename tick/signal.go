package tick

type Kind uint8

const (
	// KindEvent signals have no storage and only change through Emit.
	KindEvent Kind = iota
	// KindValue signals compare the watched value against a copy.
	KindValue
	// KindPointer signals compare pointer identity only, never the pointee.
	KindPointer
	// KindBytes signals compare the contents of a watched byte slice.
	KindBytes
	// KindDigest signals compare a 64-bit digest of a watched byte slice
	// instead of keeping a copy of it.
	KindDigest
)

func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindValue:
		return "value"
	case KindPointer:
		return "pointer"
	case KindBytes:
		return "bytes"
	case KindDigest:
		return "digest"
	default:
		return "unknown"
	}
}

type State uint8

const (
	StateEvent State = iota
	StateObserving
	StateEmitted
)

func (s State) String() string {
	switch s {
	case StateEvent:
		return "event"
	case StateObserving:
		return "observing"
	case StateEmitted:
		return "emitted"
	default:
		return "unknown"
	}
}

// Signal is a tracked value slot owned by a Machine.
type Signal struct {
	m     *Machine
	kind  Kind
	watch watcher

	fired   bool
	emitted any

	// emit issued from a callback, applied after the reset pass
	hasStaged bool
	staged    any

	detached bool
}

// NewEvent registers a signal with no storage. It changes only when Emit is
// called and is consumed by the following Advance.
func NewEvent(m *Machine) (*Signal, error) {
	return m.addSignal(KindEvent, nil)
}

// Observe registers a signal watching *ptr by value. The current value is
// the initial baseline.
func Observe[T comparable](m *Machine, ptr *T) (*Signal, error) {
	if ptr == nil {
		panic("tick: Observe of nil pointer")
	}
	return m.addSignal(KindValue, newValueWatch(ptr))
}

// ObservePointer registers a signal that changes when *ptr points somewhere
// else. Mutating the pointee does not count as a change.
func ObservePointer[T any](m *Machine, ptr **T) (*Signal, error) {
	if ptr == nil {
		panic("tick: ObservePointer of nil pointer")
	}
	return m.addSignal(KindPointer, newPointerWatch(ptr))
}

// ObserveBytes registers a signal that changes when the contents of *buf
// differ from the last baseline.
func ObserveBytes(m *Machine, buf *[]byte) (*Signal, error) {
	if buf == nil {
		panic("tick: ObserveBytes of nil pointer")
	}
	return m.addSignal(KindBytes, newBytesWatch(buf))
}

// ObserveDigest is ObserveBytes for buffers too large to copy every cycle. The
// baseline is an xxhash digest, so memory per signal is constant, at the cost
// of missing a change whose digest collides with the baseline (odds of about
// 2^-64 per check).
func ObserveDigest(m *Machine, buf *[]byte) (*Signal, error) {
	if buf == nil {
		panic("tick: ObserveDigest of nil pointer")
	}
	return m.addSignal(KindDigest, newDigestWatch(buf))
}

func (s *Signal) Kind() Kind {
	return s.kind
}

func (s *Signal) State() State {
	switch {
	case s.fired:
		return StateEmitted
	case s.watch == nil:
		return StateEvent
	default:
		return StateObserving
	}
}

// ShouldEmit reports whether the signal changed since the last Reset.
func (s *Signal) ShouldEmit() bool {
	if s.fired {
		return true
	}
	if s.watch == nil {
		return false
	}
	return s.watch.changed()
}

// Reset captures a new baseline and consumes any outstanding emit.
func (s *Signal) Reset() {
	s.fired = false
	s.emitted = nil
	if s.watch != nil {
		s.watch.snapshot()
	}
}

// Emit injects v as a one-shot value. The signal reports a change on the next
// dispatch pass regardless of its watched storage, and Value returns v until
// the following reset. A later Emit in the same cycle replaces v.
//
// Called from a binding callback, the emit is held back until the running
// Advance has reset every signal. Emitting on a removed signal does nothing.
func (s *Signal) Emit(v any) {
	if s.detached {
		return
	}
	if s.m.dispatching {
		if !s.hasStaged {
			s.m.staged = append(s.m.staged, s)
		}
		s.hasStaged, s.staged = true, v
		return
	}
	s.apply(v)
}

func (s *Signal) apply(v any) {
	s.hasStaged, s.staged = false, nil
	s.fired, s.emitted = true, v
}

// Value returns the emitted value while an emit is outstanding, otherwise the
// watched value: the T for Observe, the current *T for ObservePointer, the
// current slice for ObserveBytes and ObserveDigest. Events with nothing
// emitted return nil.
func (s *Signal) Value() any {
	if s.fired {
		return s.emitted
	}
	if s.watch == nil {
		return nil
	}
	return s.watch.value()
}

// ValueOf is Value with a type assertion.
func ValueOf[T any](s *Signal) (T, bool) {
	v, ok := s.Value().(T)
	return v, ok
}

// Remove detaches the signal from its machine. Bindings still watching it are
// the caller's problem: the signal is never reset again, and later emits on it
// are dropped.
func (s *Signal) Remove() {
	if s.detached {
		return
	}
	s.detached = true
	s.hasStaged, s.staged = false, nil
	s.fired, s.emitted = false, nil
	s.m.signals.Remove(s)
	s.m.logger.Debug("signal removed", "kind", s.kind, "signals", s.m.signals.Len())
}
