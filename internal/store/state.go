// Package store persists the pet state as a pretty-printed JSON file.
package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/naka-gawa/wuwu/internal/domain"
	"github.com/naka-gawa/wuwu/internal/filelock"
)

// StateFile reads and rewrites the pet state at a fixed path.
type StateFile struct {
	path string
	lock *filelock.FileLock
}

// NewStateFile creates a StateFile for path.
func NewStateFile(path string) *StateFile {
	return &StateFile{
		path: path,
		lock: filelock.New(path),
	}
}

// Lock blocks until no other run holds the state file.
// The returned function releases the lock.
func (f *StateFile) Lock() (func() error, error) {
	if err := f.lock.Lock(); err != nil {
		return nil, err
	}
	return f.lock.Unlock, nil
}

// TryLock acquires the state file lock without waiting.
// ok is false when another run holds it; the returned function is then nil.
func (f *StateFile) TryLock() (unlock func() error, ok bool, err error) {
	ok, err = f.lock.TryLock()
	if err != nil || !ok {
		return nil, false, err
	}
	return f.lock.Unlock, true, nil
}

// Load reads and validates the state. The file must already exist.
func (f *StateFile) Load() (domain.PetState, error) {
	var state domain.PetState
	data, err := os.ReadFile(f.path)
	if err != nil {
		return state, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("failed to parse state file %s: %w", f.path, err)
	}
	if err := state.Validate(); err != nil {
		return state, fmt.Errorf("state file %s: %w", f.path, err)
	}
	return state, nil
}

// Save overwrites the state file with the full record.
func (f *StateFile) Save(state domain.PetState) error {
	data, err := Marshal(state)
	if err != nil {
		return err
	}
	if err := filelock.AtomicWrite(f.path, data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// Marshal encodes state the way it is stored on disk.
func Marshal(state domain.PetState) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state to JSON: %w", err)
	}
	return append(data, '\n'), nil
}
