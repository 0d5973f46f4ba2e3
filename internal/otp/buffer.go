// Package otp implements a segmented code entry control: a fixed number of
// single-digit cells that together hold one numeric code, with automatic
// focus movement between cells, backspace cascade, paste distribution and a
// completion notification.
package otp

import "strings"

// DefaultLength is the number of slots used when none is configured.
const DefaultLength = 6

// Buffer is the ordered sequence of slots. Each slot is either "" or a
// single ASCII decimal digit. Its length never changes after construction.
type Buffer []string

// NewBuffer returns a buffer of n slots seeded from the first n runes of
// initial. A rune that is not a decimal digit leaves its slot empty.
func NewBuffer(n int, initial string) Buffer {
	if n <= 0 {
		n = DefaultLength
	}
	buf := make(Buffer, n)
	i := 0
	for _, r := range initial {
		if i >= n {
			break
		}
		if isDigit(r) {
			buf[i] = string(r)
		}
		i++
	}
	return buf
}

// String returns the concatenation of all slots.
func (b Buffer) String() string {
	return strings.Join(b, "")
}

// Complete reports whether every slot holds a digit.
func (b Buffer) Complete() bool {
	for _, s := range b {
		if s == "" {
			return false
		}
	}
	return len(b) > 0
}

// FirstEmpty returns the index of the first empty slot, or -1.
func (b Buffer) FirstEmpty() int {
	for i, s := range b {
		if s == "" {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy.
func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}

// Equal reports whether both buffers hold the same slots.
func (b Buffer) Equal(o Buffer) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// digitsOnly strips everything but decimal digits, keeping order, and
// truncates the result to max characters.
func digitsOnly(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() >= max {
			break
		}
		if isDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
