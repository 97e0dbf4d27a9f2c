//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import (
	"errors"
	"fmt"
)

// Status is the numeric result of an operation. It doubles as the process
// exit code.
type Status int

const (
	Success Status = iota
	DirError
	FileError
	DBReadError
	DBWriteError
	IDError
	UsageError
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case DirError:
		return "config directory error"
	case FileError:
		return "config file error"
	case DBReadError:
		return "database read error"
	case DBWriteError:
		return "database write error"
	case IDError:
		return "to-do id error"
	case UsageError:
		return "usage error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

type statuser interface {
	Status() Status
}

// Code returns the status carried by err. A nil error is Success and errors
// without a status are UsageError.
func Code(err error) Status {
	if err == nil {
		return Success
	}
	var s statuser
	if errors.As(err, &s) {
		return s.Status()
	}
	return UsageError
}

// NotInitializedError indicates no config file exists and no database path
// was given explicitly.
type NotInitializedError struct {
	ConfigPath string
}

func (e NotInitializedError) Error() string {
	return fmt.Sprintf("config file not found at %s: run 'crtodo init' first", e.ConfigPath)
}

func (e NotInitializedError) Status() Status { return FileError }

// AlreadyInitializedError indicates the config file already exists.
type AlreadyInitializedError struct {
	ConfigPath string
}

func (e AlreadyInitializedError) Error() string {
	return fmt.Sprintf("crtodo already initialized at %s (use --force to overwrite)", e.ConfigPath)
}

func (e AlreadyInitializedError) Status() Status { return FileError }

// ConfigDirError indicates the config directory could not be created.
type ConfigDirError struct {
	Path string
	Err  error
}

func (e ConfigDirError) Error() string {
	return fmt.Sprintf("%s: %s: %v", DirError, e.Path, e.Err)
}

func (e ConfigDirError) Unwrap() error { return e.Err }

func (e ConfigDirError) Status() Status { return DirError }

// ConfigFileError indicates the config file could not be read, parsed or
// written.
type ConfigFileError struct {
	Path string
	Err  error
}

func (e ConfigFileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", FileError, e.Path, e.Err)
}

func (e ConfigFileError) Unwrap() error { return e.Err }

func (e ConfigFileError) Status() Status { return FileError }

// ReadError indicates the database could not be read or parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e ReadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", DBReadError, e.Path, e.Err)
}

func (e ReadError) Unwrap() error { return e.Err }

func (e ReadError) Status() Status { return DBReadError }

// WriteError indicates the database could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", DBWriteError, e.Path, e.Err)
}

func (e WriteError) Unwrap() error { return e.Err }

func (e WriteError) Status() Status { return DBWriteError }

// IndexError indicates a 1-based task position outside the list.
type IndexError struct {
	Position int
	Count    int
}

func (e IndexError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("%s: no task at position %d (the list is empty)", IDError, e.Position)
	}
	return fmt.Sprintf("%s: no task at position %d (valid: 1-%d)", IDError, e.Position, e.Count)
}

func (e IndexError) Status() Status { return IDError }

// InvalidPriorityError indicates a priority outside the accepted range.
type InvalidPriorityError struct {
	Value int
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %d (valid: 1, 2, 3)", e.Value)
}

func (e InvalidPriorityError) Status() Status { return UsageError }

// InvalidPositionError indicates a position argument that is not an integer.
type InvalidPositionError struct {
	Value string
}

func (e InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid task position: %q", e.Value)
}

func (e InvalidPositionError) Status() Status { return IDError }

// ExportError indicates an export file could not be written.
type ExportError struct {
	Path string
	Err  error
}

func (e ExportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", FileError, e.Path, e.Err)
}

func (e ExportError) Unwrap() error { return e.Err }

func (e ExportError) Status() Status { return FileError }
