package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// State is the single "last seen" marker kept between runs.
type State struct {
	LastGUID  string    `json:"last_guid"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrNoState is returned by Load when no usable marker exists.
var ErrNoState = errors.New("no saved state")

type StateIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *StateIOError) Error() string {
	return fmt.Sprintf("%s state %s: %v", e.Op, e.Path, e.Err)
}

func (e *StateIOError) Unwrap() error {
	return e.Err
}

type StateStore struct {
	path  string
	nowFn func() time.Time
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path, nowFn: time.Now}
}

func (s *StateStore) Path() string {
	return s.path
}

// Load reads the saved marker. A missing file, an unreadable one or one
// without a guid all come back as a StateIOError wrapping the cause.
func (s *StateStore) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = errors.Join(ErrNoState, err)
		}
		return State{}, &StateIOError{Op: "load", Path: s.path, Err: err}
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, &StateIOError{Op: "load", Path: s.path, Err: fmt.Errorf("decode: %w", err)}
	}
	st.LastGUID = strings.TrimSpace(st.LastGUID)
	if st.LastGUID == "" {
		return State{}, &StateIOError{Op: "load", Path: s.path, Err: ErrNoState}
	}
	return st, nil
}

// LastGUID is Load for callers that only care whether a marker exists.
func (s *StateStore) LastGUID() (string, bool) {
	st, err := s.Load()
	if err != nil {
		return "", false
	}
	return st.LastGUID, true
}

// Save replaces the marker. The file is written next to the target and
// renamed into place so a crash never leaves half a file behind.
func (s *StateStore) Save(guid string) error {
	st := State{LastGUID: guid, UpdatedAt: s.nowFn().UTC()}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return &StateIOError{Op: "save", Path: s.path, Err: fmt.Errorf("encode: %w", err)}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return &StateIOError{Op: "save", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &StateIOError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StateIOError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &StateIOError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &StateIOError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}
