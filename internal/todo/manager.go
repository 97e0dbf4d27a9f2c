// Package todo implements the task operations on top of a task store. Every
// operation reads the full list, applies one change and writes it back.
package todo

import (
	"io"

	"github.com/charmbracelet/log"

	todoerrors "github.com/abatilo/crtodo/internal/errors"
	"github.com/abatilo/crtodo/internal/task"
)

// Store persists the complete task list.
type Store interface {
	ReadTasks() ([]task.Task, error)
	WriteTasks(tasks []task.Task) error
}

// Entry is a task together with its 1-based position in the list.
type Entry struct {
	Position int
	Task     task.Task
}

// Manager exposes task-level operations.
type Manager struct {
	store  Store
	logger *log.Logger
}

// NewManager creates a Manager. A nil logger discards log output.
func NewManager(store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{store: store, logger: logger}
}

// Add appends a new open task built from the description tokens.
func (m *Manager) Add(tokens []string, priority int) (Entry, error) {
	tasks, err := m.store.ReadTasks()
	if err != nil {
		return Entry{}, err
	}

	t := task.New(tokens, priority)
	tasks = append(tasks, t)
	if err = m.store.WriteTasks(tasks); err != nil {
		return Entry{}, err
	}

	m.logger.Debug("added task", "position", len(tasks), "priority", t.Priority)
	return Entry{Position: len(tasks), Task: t}, nil
}

// List returns the current task list.
func (m *Manager) List() ([]task.Task, error) {
	return m.store.ReadTasks()
}

// Complete marks the task at the 1-based position as done.
func (m *Manager) Complete(position int) (Entry, error) {
	tasks, err := m.store.ReadTasks()
	if err != nil {
		return Entry{}, err
	}
	if err = checkPosition(position, len(tasks)); err != nil {
		return Entry{}, err
	}

	tasks[position-1].Done = true
	if err = m.store.WriteTasks(tasks); err != nil {
		return Entry{}, err
	}

	m.logger.Debug("completed task", "position", position)
	return Entry{Position: position, Task: tasks[position-1]}, nil
}

// Remove deletes the task at the 1-based position and returns it. Later
// tasks move up one position.
func (m *Manager) Remove(position int) (Entry, error) {
	tasks, err := m.store.ReadTasks()
	if err != nil {
		return Entry{}, err
	}
	if err = checkPosition(position, len(tasks)); err != nil {
		return Entry{}, err
	}

	removed := tasks[position-1]
	tasks = append(tasks[:position-1], tasks[position:]...)
	if err = m.store.WriteTasks(tasks); err != nil {
		return Entry{}, err
	}

	m.logger.Debug("removed task", "position", position, "remaining", len(tasks))
	return Entry{Position: position, Task: removed}, nil
}

// Get returns the task at the 1-based position without modifying anything.
func (m *Manager) Get(position int) (Entry, error) {
	tasks, err := m.store.ReadTasks()
	if err != nil {
		return Entry{}, err
	}
	if err = checkPosition(position, len(tasks)); err != nil {
		return Entry{}, err
	}
	return Entry{Position: position, Task: tasks[position-1]}, nil
}

// RemoveAll clears the task list.
func (m *Manager) RemoveAll() error {
	if err := m.store.WriteTasks(nil); err != nil {
		return err
	}
	m.logger.Debug("removed all tasks")
	return nil
}

func checkPosition(position, count int) error {
	if position < 1 || position > count {
		return todoerrors.IndexError{Position: position, Count: count}
	}
	return nil
}
