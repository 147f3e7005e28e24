package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/nissyi-gh/guide/internal/model"
)

// ErrLocked is returned when another process already owns the store.
var ErrLocked = errors.New("store is locked by another process")

// Backend persists the whole task collection.
type Backend interface {
	// Load returns every stored task in order. A missing store is created
	// and yields no tasks.
	Load() ([]*model.Task, error)
	// Save replaces the stored collection with tasks.
	Save(tasks []*model.Task) error
	Close() error
}

// lockFor takes an exclusive advisory lock next to path, creating the
// parent directory if needed.
func lockFor(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	lk := flock.New(path + ".lock")
	locked, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	return lk, nil
}
