package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dictdoy/pkg/config"
	"dictdoy/pkg/dictionary"
	"dictdoy/pkg/logger"
	"dictdoy/pkg/lookup"

	"github.com/pelletier/go-toml/v2"
)

const FileName = "state.toml"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// AppState is what the window remembers between runs.
type AppState struct {
	Query   string             `toml:"query"`
	Results []dictionary.Entry `toml:"results,omitempty"`
	Theme   string             `toml:"theme"`
}

// Default returns the state of a first run.
func Default() AppState {
	return AppState{Theme: ThemeLight}
}

// Decode reads a state blob on top of the defaults, so fields missing from
// older blobs keep their default values.
func Decode(data []byte) (AppState, error) {
	st := Default()
	if err := toml.Unmarshal(data, &st); err != nil {
		return Default(), fmt.Errorf("failed to decode state: %w", err)
	}
	if st.Theme != ThemeLight && st.Theme != ThemeDark {
		st.Theme = ThemeLight
	}
	return st, nil
}

// Snapshot captures the displayed result. The query saved is the one the
// entries answer, not whatever the editor holds.
func Snapshot(res lookup.Result, theme string) AppState {
	st := AppState{Query: res.Query, Theme: theme}
	if res.Kind == lookup.HasMatches {
		st.Results = res.Entries
	}
	return st
}

// Result rebuilds the displayed result without querying again.
func (st AppState) Result() lookup.Result {
	return lookup.NewResult(strings.TrimSpace(st.Query), st.Results)
}

// Encode serializes the state.
func Encode(st AppState) ([]byte, error) {
	data, err := toml.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// Store keeps the state blob in a file.
type Store struct {
	path   string
	logger *logger.Logger
}

// NewStore creates a Store backed by path.
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{path: path, logger: log}
}

// DefaultPath returns the state file next to config.toml.
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved state. A missing or unreadable blob gives the
// defaults; the problem is logged at debug level only and never reaches the
// user.
func (s *Store) Load() AppState {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	if err != nil {
		s.logger.Debugf("Failed to read state file %s: %v", s.path, err)
		return Default()
	}

	st, err := Decode(data)
	if err != nil {
		s.logger.Debugf("Ignoring state file %s: %v", s.path, err)
		return Default()
	}
	s.logger.Debugf("Restored state: query %q, %d results", st.Query, len(st.Results))
	return st
}

// Save writes the state through a temporary file so a crash never leaves a
// half-written blob behind.
func (s *Store) Save(st AppState) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
