package otp

import "unicode/utf8"

// NoFocus is the Outcome focus target when focus must not move.
const NoFocus = -1

// Event is one user input delivered to a slot.
type Event interface {
	slot() int
}

// Input sets a slot to Char. An empty Char clears the slot.
type Input struct {
	Slot int
	Char string
}

// Backspace clears a slot, or moves focus back when the slot is already empty.
type Backspace struct {
	Slot int
}

// Paste distributes the digits of Text across the buffer from slot 0,
// whichever slot received it.
type Paste struct {
	Slot int
	Text string
}

// Left moves focus to the previous slot.
type Left struct {
	Slot int
}

// Right moves focus to the next slot.
type Right struct {
	Slot int
}

func (e Input) slot() int     { return e.Slot }
func (e Backspace) slot() int { return e.Slot }
func (e Paste) slot() int     { return e.Slot }
func (e Left) slot() int      { return e.Slot }
func (e Right) slot() int     { return e.Slot }

// Outcome is the result of applying one Event to a Buffer.
type Outcome struct {
	Buffer Buffer
	// Focus is the slot that should receive focus, or NoFocus.
	Focus int
	// Changed is set when the value-changed notification must fire.
	Changed bool
	// Completed is set when the completion notification must fire.
	Completed bool
	// PreventDefault is set for every paste, accepted or not.
	PreventDefault bool
}

// Step applies ev to buf and returns what changed. buf is never modified;
// a rejected event returns buf itself with Focus set to NoFocus.
func Step(buf Buffer, ev Event, disabled bool) Outcome {
	unchanged := Outcome{Buffer: buf, Focus: NoFocus}
	if _, ok := ev.(Paste); ok {
		unchanged.PreventDefault = true
	}
	if disabled || ev == nil {
		return unchanged
	}

	n := len(buf)
	if _, ok := ev.(Paste); !ok {
		if i := ev.slot(); i < 0 || i >= n {
			return unchanged
		}
	}

	switch e := ev.(type) {
	case Input:
		if e.Char != "" && !isSingleDigit(e.Char) {
			return unchanged
		}
		next := buf.Clone()
		next[e.Slot] = e.Char
		out := Outcome{
			Buffer:    next,
			Focus:     NoFocus,
			Changed:   true,
			Completed: !buf.Complete() && next.Complete(),
		}
		if e.Char != "" && e.Slot < n-1 {
			out.Focus = e.Slot + 1
		}
		return out

	case Backspace:
		if buf[e.Slot] == "" && e.Slot > 0 {
			return Outcome{Buffer: buf, Focus: e.Slot - 1}
		}
		next := buf.Clone()
		next[e.Slot] = ""
		return Outcome{Buffer: next, Focus: NoFocus, Changed: true}

	case Paste:
		digits := digitsOnly(e.Text, n)
		if digits == "" {
			return unchanged
		}
		next := make(Buffer, n)
		for i, r := range digits {
			next[i] = string(r)
		}
		focus := next.FirstEmpty()
		if focus < 0 {
			focus = n - 1
		}
		return Outcome{
			Buffer:         next,
			Focus:          focus,
			Changed:        true,
			Completed:      len(digits) == n,
			PreventDefault: true,
		}

	case Left:
		if e.Slot > 0 {
			return Outcome{Buffer: buf, Focus: e.Slot - 1}
		}
	case Right:
		if e.Slot < n-1 {
			return Outcome{Buffer: buf, Focus: e.Slot + 1}
		}
	}
	return unchanged
}

func isSingleDigit(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size == len(s) && isDigit(r)
}
