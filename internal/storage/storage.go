package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	todoerrors "github.com/abatilo/crtodo/internal/errors"
	"github.com/abatilo/crtodo/internal/task"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
	indent   = "    "
)

var errIsDirectory = errors.New("is a directory")

// Store reads and writes the whole task list as a single JSON file.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Exists checks if the database file exists. A directory at the path does
// not count.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Init creates the database directory and an empty task list. An existing
// database is left untouched.
func (s *Store) Init() error {
	//nolint:gosec // G301: 0755 is appropriate for a user-owned data directory
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return todoerrors.WriteError{Path: s.path, Err: err}
	}
	if info, err := os.Stat(s.path); err == nil && info.IsDir() {
		return todoerrors.WriteError{Path: s.path, Err: errIsDirectory}
	}
	if s.Exists() {
		return nil
	}
	return s.WriteTasks(nil)
}

// ReadTasks loads the full task list. A missing or blank file is an empty
// list. On failure the returned list is empty, never nil.
func (s *Store) ReadTasks() ([]task.Task, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []task.Task{}, nil
	}
	if err != nil {
		return []task.Task{}, todoerrors.ReadError{Path: s.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []task.Task{}, nil
	}

	if err = validateShape(data); err != nil {
		return []task.Task{}, todoerrors.ReadError{Path: s.path, Err: err}
	}

	var tasks []task.Task
	if err = json.Unmarshal(data, &tasks); err != nil {
		return []task.Task{}, todoerrors.ReadError{Path: s.path, Err: err}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// WriteTasks replaces the database contents with tasks. The data is written
// to a temporary file in the same directory, synced and renamed into place,
// so readers never see a partial write.
func (s *Store) WriteTasks(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", indent)
	if err != nil {
		return todoerrors.WriteError{Path: s.path, Err: fmt.Errorf("marshal tasks: %w", err)}
	}
	data = append(data, '\n')

	if err = writeFileAtomic(s.path, data); err != nil {
		return todoerrors.WriteError{Path: s.path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temporary file: %w", err)
	}
	// CreateTemp opens with 0600.
	if err = os.Chmod(tmpPath, filePerm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temporary file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
