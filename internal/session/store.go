package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoSession is returned by Load when nothing has been saved.
var ErrNoSession = errors.New("no saved session")

// Saved is what survives between launches.
type Saved struct {
	Token   string    `yaml:"token"`
	Email   string    `yaml:"email"`
	Name    string    `yaml:"name,omitempty"`
	SavedAt time.Time `yaml:"saved_at"`
}

// Store keeps the session token in a YAML file readable only by the owner.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved session.
func (s *Store) Load() (*Saved, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var out Saved
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if out.Token == "" {
		return nil, ErrNoSession
	}
	return &out, nil
}

// Save writes token and the owner's identity, replacing any earlier session.
func (s *Store) Save(token, email, name string) error {
	if token == "" {
		return errors.New("refusing to save empty token")
	}
	data, err := yaml.Marshal(Saved{Token: token, Email: email, Name: name, SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the saved session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
