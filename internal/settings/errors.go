package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid command")
	// ErrDuplicateName matches every *DuplicateNameError.
	ErrDuplicateName = errors.New("duplicate command name")
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("command not found")
)

// ValidationError reports bad user input for a single command field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid command %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateNameError reports that a command with the same name already exists.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a command named %q already exists", e.Name)
}

// Is reports whether target is ErrDuplicateName.
func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// NotFoundError reports that no command has the requested name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no command named %q", e.Name)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistError wraps a failure of the persistence side effect. The in-memory
// mutation that triggered it has already been applied.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("could not save settings: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
