package session

import (
	"strings"
	"unicode/utf8"
)

// InputBuffer manages single-line text input state for the TUI forms.
type InputBuffer struct {
	Value string
}

// Append adds runes to the buffer. Control characters are dropped.
func (b *InputBuffer) Append(runes []rune) {
	for _, r := range runes {
		if r < ' ' || r == 0x7f {
			continue
		}
		b.Value += string(r)
	}
}

// Backspace removes the last character.
func (b *InputBuffer) Backspace() {
	if len(b.Value) > 0 {
		_, size := utf8.DecodeLastRuneInString(b.Value)
		b.Value = b.Value[:len(b.Value)-size]
	}
}

// Clear resets the buffer.
func (b *InputBuffer) Clear() {
	b.Value = ""
}

// Masked returns one bullet per character, for password fields.
func (b *InputBuffer) Masked() string {
	return strings.Repeat("•", utf8.RuneCountInString(b.Value))
}
