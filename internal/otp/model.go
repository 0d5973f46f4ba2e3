package otp

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChangedMsg is emitted after every accepted edit.
type ChangedMsg struct {
	Value string
}

// CompletedMsg is emitted when the code becomes fully filled.
type CompletedMsg struct {
	Code string
}

type pasteMsg struct {
	text string
	err  error
}

// Styles controls how slots are drawn.
type Styles struct {
	Cell     lipgloss.Style
	Focused  lipgloss.Style
	Error    lipgloss.Style
	Disabled lipgloss.Style
	Gap      int
}

// DefaultStyles returns rounded single-character boxes.
func DefaultStyles() Styles {
	cell := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Width(3).
		Align(lipgloss.Center)
	return Styles{
		Cell:     cell,
		Focused:  cell.BorderForeground(lipgloss.Color("6")).Bold(true),
		Error:    cell.BorderForeground(lipgloss.Color("1")),
		Disabled: cell.Foreground(lipgloss.Color("8")).BorderForeground(lipgloss.Color("0")),
		Gap:      1,
	}
}

// field is shared between copies of a Model so focus handles registered
// with the Control stay valid after bubbletea copies the value.
type field struct {
	cursor  int
	pending []tea.Msg
}

// Model is a bubbletea component wrapping a Control.
type Model struct {
	Styles Styles
	// Clipboard reads the system clipboard for ctrl+v.
	Clipboard func() (string, error)

	ctrl    *Control
	f       *field
	focused bool
}

// NewModel builds a component for cfg and mounts it with an empty value.
func NewModel(cfg Config) Model {
	ctrl := New(cfg)
	f := &field{}
	for i := 0; i < ctrl.Len(); i++ {
		i := i
		ctrl.Register(i, FocusFunc(func() { f.cursor = i }))
	}
	ctrl.OnChange = func(v string) {
		f.pending = append(f.pending, ChangedMsg{Value: v})
	}
	ctrl.OnComplete = func(code string) {
		f.pending = append(f.pending, CompletedMsg{Code: code})
	}
	ctrl.Mount("")

	return Model{
		Styles:    DefaultStyles(),
		Clipboard: clipboard.ReadAll,
		ctrl:      ctrl,
		f:         f,
		focused:   cfg.AutoFocusFirst && !cfg.Disabled,
	}
}

// Control exposes the underlying control.
func (m Model) Control() *Control { return m.ctrl }

// Value returns the current, possibly partial, code.
func (m Model) Value() string { return m.ctrl.Value() }

// Cursor returns the focused slot.
func (m Model) Cursor() int { return m.f.cursor }

// Focused reports whether the component receives key events.
func (m Model) Focused() bool { return m.focused }

// Focus makes the component receive key events.
func (m *Model) Focus() { m.focused = true }

// Blur stops the component from receiving key events.
func (m *Model) Blur() { m.focused = false }

// SetValue resyncs the buffer from an externally supplied value.
func (m *Model) SetValue(v string) { m.ctrl.SetInitialValue(v) }

// SetDisabled toggles input handling.
func (m *Model) SetDisabled(v bool) { m.ctrl.SetDisabled(v) }

// SetErrorState toggles the error border.
func (m *Model) SetErrorState(v bool) { m.ctrl.SetErrorState(v) }

// Reset empties every slot and moves the cursor to slot 0 without notifying.
func (m *Model) Reset() {
	m.ctrl.Reset()
	m.f.cursor = 0
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pasteMsg:
		if msg.err == nil && m.focused {
			m.ctrl.Paste(m.f.cursor, msg.text)
		}
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	}
	return m, m.flush()
}

func (m Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	i := m.f.cursor
	if msg.Paste {
		m.ctrl.Paste(i, string(msg.Runes))
		return nil
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			m.ctrl.Input(i, string(msg.Runes))
		} else {
			// Terminals without bracketed paste deliver pasted text as one
			// multi-rune key event.
			m.ctrl.Paste(i, string(msg.Runes))
		}
	case tea.KeyBackspace:
		m.ctrl.Backspace(i)
	case tea.KeyDelete:
		m.ctrl.Input(i, "")
	case tea.KeyLeft:
		m.ctrl.Left(i)
	case tea.KeyRight:
		m.ctrl.Right(i)
	case tea.KeyCtrlV:
		if m.ctrl.Disabled() || m.Clipboard == nil {
			return nil
		}
		read := m.Clipboard
		return func() tea.Msg {
			s, err := read()
			return pasteMsg{text: s, err: err}
		}
	}
	return nil
}

// flush turns queued notifications into commands, preserving order.
func (m Model) flush() tea.Cmd {
	if len(m.f.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.f.pending))
	for _, msg := range m.f.pending {
		msg := msg
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	m.f.pending = m.f.pending[:0]
	return tea.Sequence(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	cfg := m.ctrl.Config()
	buf := m.ctrl.Buffer()
	cells := make([]string, 0, len(buf)*2)
	gap := lipgloss.NewStyle().Width(m.Styles.Gap).Render("")
	for i, s := range buf {
		style := m.Styles.Cell
		switch {
		case cfg.Disabled:
			style = m.Styles.Disabled
		case cfg.ErrorState:
			style = m.Styles.Error
		case m.focused && i == m.f.cursor:
			style = m.Styles.Focused
		}
		if s == "" {
			s = " "
			if m.focused && i == m.f.cursor && !cfg.Disabled {
				s = "_"
			}
		}
		if i > 0 && m.Styles.Gap > 0 {
			cells = append(cells, gap)
		}
		cells = append(cells, style.Render(s))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
