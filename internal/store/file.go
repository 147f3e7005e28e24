package store

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/nissyi-gh/guide/internal/model"
)

// DefaultFilePath is relative to the working directory.
const DefaultFilePath = "data/tasks.txt"

// FileStore keeps tasks in a pipe-delimited text file, one task per line.
type FileStore struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// OpenFile locks path for the lifetime of the returned store. The file
// itself is created lazily by Load.
func OpenFile(path string, logger *slog.Logger) (*FileStore, error) {
	if path == "" {
		path = DefaultFilePath
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	lk, err := lockFor(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path, lock: lk, logger: logger}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Load reads the whole file. A missing file is created empty.
func (s *FileStore) Load() ([]*model.Task, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(s.path, nil, 0o644); err != nil {
			return nil, fmt.Errorf("create store: %w", err)
		}
		s.logger.Debug("created empty store", "path", s.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	tasks, err := Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Save rewrites the entire file from tasks.
func (s *FileStore) Save(tasks []*model.Task) error {
	var buf bytes.Buffer
	if err := Encode(&buf, tasks); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := atomicWriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	s.logger.Debug("saved tasks", "path", s.path, "count", len(tasks))
	return nil
}

// Close releases the lock.
func (s *FileStore) Close() error {
	return s.lock.Unlock()
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
