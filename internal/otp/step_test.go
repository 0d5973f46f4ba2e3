package otp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewBuffer(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		initial string
		want    Buffer
	}{
		{"empty", 6, "", Buffer{"", "", "", "", "", ""}},
		{"partial", 6, "4321", Buffer{"4", "3", "2", "1", "", ""}},
		{"truncated", 4, "123456", Buffer{"1", "2", "3", "4"}},
		{"default length", 0, "12", Buffer{"1", "2", "", "", "", ""}},
		{"non-digit keeps position", 4, "1a3", Buffer{"1", "", "3", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, NewBuffer(tt.n, tt.initial)); diff != "" {
				t.Errorf("NewBuffer(%d, %q) mismatch (-want +got):\n%s", tt.n, tt.initial, diff)
			}
		})
	}
}

func TestBufferViews(t *testing.T) {
	b := Buffer{"1", "2", "", "4"}
	if b.String() != "124" {
		t.Fatalf("expected '124', got %q", b.String())
	}
	if b.Complete() {
		t.Fatal("expected incomplete buffer")
	}
	if b.FirstEmpty() != 2 {
		t.Fatalf("expected first empty 2, got %d", b.FirstEmpty())
	}
	full := Buffer{"1", "2", "3"}
	if !full.Complete() || full.FirstEmpty() != -1 {
		t.Fatalf("expected complete buffer, got %v", full)
	}
}

func TestStepInputMovesFocusForward(t *testing.T) {
	for i := 0; i < 5; i++ {
		out := Step(NewBuffer(6, ""), Input{Slot: i, Char: "7"}, false)
		if out.Focus != i+1 {
			t.Errorf("slot %d: expected focus %d, got %d", i, i+1, out.Focus)
		}
		if !out.Changed {
			t.Errorf("slot %d: expected change", i)
		}
		if out.Buffer[i] != "7" {
			t.Errorf("slot %d: expected '7', got %q", i, out.Buffer[i])
		}
	}
}

func TestStepInputLastSlotKeepsFocus(t *testing.T) {
	out := Step(NewBuffer(6, ""), Input{Slot: 5, Char: "3"}, false)
	if out.Focus != NoFocus {
		t.Fatalf("expected no focus move, got %d", out.Focus)
	}
}

func TestStepInputRejects(t *testing.T) {
	buf := NewBuffer(6, "12")
	for _, ch := range []string{"a", "12", " ", "٣", "-"} {
		out := Step(buf, Input{Slot: 2, Char: ch}, false)
		if out.Changed || out.Completed || out.Focus != NoFocus {
			t.Errorf("%q: expected rejection, got %+v", ch, out)
		}
		if diff := cmp.Diff(buf, out.Buffer); diff != "" {
			t.Errorf("%q: buffer changed (-want +got):\n%s", ch, diff)
		}
	}
}

func TestStepInputOutOfRange(t *testing.T) {
	buf := NewBuffer(6, "")
	for _, i := range []int{-1, 6, 100} {
		out := Step(buf, Input{Slot: i, Char: "1"}, false)
		if out.Changed {
			t.Errorf("slot %d: expected rejection", i)
		}
	}
}

func TestStepInputEmptyClears(t *testing.T) {
	out := Step(NewBuffer(6, "123"), Input{Slot: 1, Char: ""}, false)
	want := Buffer{"1", "", "3", "", "", ""}
	if diff := cmp.Diff(want, out.Buffer); diff != "" {
		t.Fatalf("buffer mismatch (-want +got):\n%s", diff)
	}
	if !out.Changed {
		t.Fatal("expected change notification")
	}
	if out.Focus != NoFocus {
		t.Fatalf("expected focus to stay, got %d", out.Focus)
	}
}

func TestStepInputDoesNotMutateArgument(t *testing.T) {
	buf := NewBuffer(6, "")
	Step(buf, Input{Slot: 0, Char: "1"}, false)
	if buf[0] != "" {
		t.Fatalf("input buffer was modified: %v", buf)
	}
}

func TestStepCompletionOnTransitionOnly(t *testing.T) {
	out := Step(NewBuffer(4, "123"), Input{Slot: 3, Char: "4"}, false)
	if !out.Completed {
		t.Fatal("expected completion when last slot filled")
	}
	out = Step(NewBuffer(4, "1234"), Input{Slot: 2, Char: "0"}, false)
	if out.Completed {
		t.Fatal("overwriting a slot of a complete code must not complete again")
	}
	if out.Buffer.String() != "1204" {
		t.Fatalf("expected '1204', got %q", out.Buffer.String())
	}
}

func TestStepBackspace(t *testing.T) {
	t.Run("empty slot moves back", func(t *testing.T) {
		buf := NewBuffer(6, "12")
		out := Step(buf, Backspace{Slot: 2}, false)
		if out.Focus != 1 {
			t.Fatalf("expected focus 1, got %d", out.Focus)
		}
		if out.Changed {
			t.Fatal("expected no change notification")
		}
		if diff := cmp.Diff(buf, out.Buffer); diff != "" {
			t.Fatalf("buffer changed (-want +got):\n%s", diff)
		}
	})
	t.Run("filled slot clears in place", func(t *testing.T) {
		out := Step(NewBuffer(6, "12"), Backspace{Slot: 1}, false)
		if out.Focus != NoFocus {
			t.Fatalf("expected no focus move, got %d", out.Focus)
		}
		if !out.Changed {
			t.Fatal("expected change notification")
		}
		if out.Buffer.String() != "1" {
			t.Fatalf("expected '1', got %q", out.Buffer.String())
		}
	})
	t.Run("empty first slot clears", func(t *testing.T) {
		out := Step(NewBuffer(6, ""), Backspace{Slot: 0}, false)
		if out.Focus != NoFocus || !out.Changed {
			t.Fatalf("expected in-place clear, got %+v", out)
		}
	})
}

func TestStepPaste(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		text      string
		want      Buffer
		focus     int
		completed bool
	}{
		{"mixed full", "", "12-34X56", Buffer{"1", "2", "3", "4", "5", "6"}, 5, true},
		{"short", "", "12", Buffer{"1", "2", "", "", "", ""}, 2, false},
		{"too long", "", "1234567890", Buffer{"1", "2", "3", "4", "5", "6"}, 5, true},
		{"replaces prior contents", "987654", "11", Buffer{"1", "1", "", "", "", ""}, 2, false},
		{"unicode noise", "", "código: 4 2 ✓", Buffer{"4", "2", "", "", "", ""}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for slot := 0; slot < 6; slot++ {
				out := Step(NewBuffer(6, tt.start), Paste{Slot: slot, Text: tt.text}, false)
				if diff := cmp.Diff(tt.want, out.Buffer); diff != "" {
					t.Fatalf("slot %d: buffer mismatch (-want +got):\n%s", slot, diff)
				}
				if out.Focus != tt.focus {
					t.Errorf("slot %d: expected focus %d, got %d", slot, tt.focus, out.Focus)
				}
				if out.Completed != tt.completed {
					t.Errorf("slot %d: expected completed=%v", slot, tt.completed)
				}
				if !out.PreventDefault || !out.Changed {
					t.Errorf("slot %d: expected change with default prevented, got %+v", slot, out)
				}
			}
		})
	}
}

func TestStepPasteWithoutDigitsIsNoop(t *testing.T) {
	buf := NewBuffer(6, "12")
	out := Step(buf, Paste{Slot: 3, Text: "abcdef"}, false)
	if out.Changed || out.Completed || out.Focus != NoFocus {
		t.Fatalf("expected no-op, got %+v", out)
	}
	if !out.PreventDefault {
		t.Fatal("default paste must be prevented")
	}
	if diff := cmp.Diff(buf, out.Buffer); diff != "" {
		t.Fatalf("buffer changed (-want +got):\n%s", diff)
	}
}

func TestStepNavigation(t *testing.T) {
	buf := NewBuffer(6, "")
	tests := []struct {
		name string
		ev   Event
		want int
	}{
		{"left", Left{Slot: 3}, 2},
		{"left boundary", Left{Slot: 0}, NoFocus},
		{"right", Right{Slot: 3}, 4},
		{"right boundary", Right{Slot: 5}, NoFocus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Step(buf, tt.ev, false)
			if out.Focus != tt.want {
				t.Fatalf("expected focus %d, got %d", tt.want, out.Focus)
			}
			if out.Changed {
				t.Fatal("navigation must not change the buffer")
			}
		})
	}
}

func TestStepDisabled(t *testing.T) {
	buf := NewBuffer(6, "12345")
	events := []Event{
		Input{Slot: 5, Char: "6"},
		Input{Slot: 0, Char: ""},
		Backspace{Slot: 2},
		Backspace{Slot: 5},
		Paste{Slot: 0, Text: "654321"},
		Left{Slot: 3},
		Right{Slot: 3},
	}
	for _, ev := range events {
		out := Step(buf, ev, true)
		if out.Changed || out.Completed || out.Focus != NoFocus {
			t.Errorf("%#v: expected no-op while disabled, got %+v", ev, out)
		}
		if diff := cmp.Diff(buf, out.Buffer); diff != "" {
			t.Errorf("%#v: buffer changed (-want +got):\n%s", ev, diff)
		}
		_, isPaste := ev.(Paste)
		if out.PreventDefault != isPaste {
			t.Errorf("%#v: unexpected PreventDefault=%v", ev, out.PreventDefault)
		}
	}
}
