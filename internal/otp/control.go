package otp

// Config holds the options recognised by a Control.
type Config struct {
	// Length is the number of slots. Zero means DefaultLength.
	Length int
	// Disabled turns every mutating and navigating operation into a no-op.
	Disabled bool
	// ErrorState only affects rendering.
	ErrorState bool
	// AutoFocusFirst requests focus on slot 0 when the control is mounted.
	AutoFocusFirst bool
}

// FocusHandle is whatever the host uses to give one slot input focus.
type FocusHandle interface {
	Focus()
}

// FocusFunc adapts a plain function to FocusHandle.
type FocusFunc func()

// Focus calls f.
func (f FocusFunc) Focus() { f() }

// Control owns one code buffer and applies input events to it. It is not
// safe for concurrent use; events are expected to arrive serially from the
// host's input dispatch.
type Control struct {
	cfg     Config
	buf     Buffer
	handles map[int]FocusHandle

	initial   string
	hasSynced bool

	// OnChange receives the full concatenation after every accepted edit.
	OnChange func(value string)
	// OnComplete receives the code on each transition into the filled state.
	OnComplete func(code string)
}

// New returns a Control with an empty buffer.
func New(cfg Config) *Control {
	if cfg.Length <= 0 {
		cfg.Length = DefaultLength
	}
	return &Control{
		cfg:     cfg,
		buf:     NewBuffer(cfg.Length, ""),
		handles: make(map[int]FocusHandle, cfg.Length),
	}
}

// Len returns the number of slots.
func (c *Control) Len() int { return c.cfg.Length }

// Config returns the current configuration.
func (c *Control) Config() Config { return c.cfg }

// Value returns the concatenation of all slots. It may be partial.
func (c *Control) Value() string { return c.buf.String() }

// Buffer returns a copy of the slots.
func (c *Control) Buffer() Buffer { return c.buf.Clone() }

// Complete reports whether every slot is filled.
func (c *Control) Complete() bool { return c.buf.Complete() }

// Disabled reports whether input is currently ignored.
func (c *Control) Disabled() bool { return c.cfg.Disabled }

// SetDisabled toggles the disabled flag.
func (c *Control) SetDisabled(v bool) { c.cfg.Disabled = v }

// SetErrorState toggles the presentational error flag.
func (c *Control) SetErrorState(v bool) { c.cfg.ErrorState = v }

// Register associates a focus handle with slot i. Out-of-range indexes are
// ignored; a nil handle removes the slot's entry.
func (c *Control) Register(i int, h FocusHandle) {
	if i < 0 || i >= c.cfg.Length {
		return
	}
	if h == nil {
		delete(c.handles, i)
		return
	}
	c.handles[i] = h
}

// Mount performs the first resync from the initial value and honours
// AutoFocusFirst.
func (c *Control) Mount(initial string) {
	c.SetInitialValue(initial)
	if c.cfg.AutoFocusFirst && !c.cfg.Disabled {
		c.focus(0)
	}
}

// SetInitialValue rebuilds the buffer from v when v differs from the value
// last seen. The last write wins; no notification fires.
func (c *Control) SetInitialValue(v string) {
	if c.hasSynced && v == c.initial {
		return
	}
	c.hasSynced = true
	c.initial = v
	c.buf = NewBuffer(c.cfg.Length, v)
}

// Reset empties the buffer and forgets the last initial value, so the next
// SetInitialValue always resyncs. No notification fires.
func (c *Control) Reset() {
	c.buf = NewBuffer(c.cfg.Length, "")
	c.initial = ""
	c.hasSynced = false
}

// Input sets slot i to ch. It reports whether the event was accepted.
func (c *Control) Input(i int, ch string) bool {
	return c.apply(Input{Slot: i, Char: ch})
}

// Backspace handles the backspace key on slot i.
func (c *Control) Backspace(i int) bool {
	return c.apply(Backspace{Slot: i})
}

// Paste distributes the digits in text from slot 0. The returned value tells
// the host to suppress its own paste handling and is always true.
func (c *Control) Paste(i int, text string) bool {
	c.apply(Paste{Slot: i, Text: text})
	return true
}

// Left moves focus from slot i to i-1.
func (c *Control) Left(i int) bool {
	return c.apply(Left{Slot: i})
}

// Right moves focus from slot i to i+1.
func (c *Control) Right(i int) bool {
	return c.apply(Right{Slot: i})
}

// apply runs one event through Step and fires the resulting side effects.
// It reports whether anything observable happened.
func (c *Control) apply(ev Event) bool {
	out := Step(c.buf, ev, c.cfg.Disabled)
	c.buf = out.Buffer
	if out.Focus != NoFocus {
		c.focus(out.Focus)
	}
	if out.Changed && c.OnChange != nil {
		c.OnChange(c.buf.String())
	}
	if out.Completed && c.OnComplete != nil {
		c.OnComplete(c.buf.String())
	}
	return out.Changed || out.Focus != NoFocus
}

func (c *Control) focus(i int) {
	if h, ok := c.handles[i]; ok {
		h.Focus()
	}
}
