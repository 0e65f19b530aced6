package tick

// Callback is run by Advance when the bound signal changed. A returned error
// goes to the machine's ErrorHandler and does not stop the dispatch pass.
//
// Emits issued from a callback land one cycle later: the running Advance
// resets every signal first, so bindings on the emitted signal fire on the
// next Advance whatever their registration order.
type Callback func(s *Signal) error

type Binding struct {
	m        *Machine
	fn       Callback
	signal   *Signal
	detached bool
}

func (b *Binding) Signal() *Signal {
	return b.signal
}

// Call runs the callback with the bound signal, whether or not it changed.
func (b *Binding) Call() {
	if err := b.fn(b.signal); err != nil {
		b.m.callbackErrors++
		b.m.onError(b, err)
	}
}

// Remove detaches the binding. The signal is left alone. Removing a binding
// from inside a callback stops it from firing for the rest of that Advance.
func (b *Binding) Remove() {
	if b.detached {
		return
	}
	b.detached = true
	b.m.removeBinding(b)
	b.m.logger.Debug("binding removed", "kind", b.signal.kind, "bindings", b.m.bindings.Len())
}
