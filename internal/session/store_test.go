package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	s := NewStore(path)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if err := s.Save("tok-1", "ada@example.com", "Ada"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Token != "tok-1" || got.Email != "ada@example.com" || got.Name != "Ada" {
		t.Fatalf("unexpected session %+v", got)
	}
	if !got.SavedAt.Equal(fixed) {
		t.Fatalf("expected saved_at %v, got %v", fixed, got.SavedAt)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected mode 0600, got %o", perm)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.yaml"))
	if _, err := s.Load(); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestStoreLoadEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("email: ada@example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Load(); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("token: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewStore(path).Load()
	if err == nil || err == ErrNoSession {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestStoreSaveRejectsEmptyToken(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.yaml"))
	if err := s.Save("", "ada@example.com", ""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.yaml"))
	if err := s.Clear(); err != nil {
		t.Fatalf("clear on empty store: %v", err)
	}
	if err := s.Save("tok", "a@b.c", ""); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.Load(); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}
