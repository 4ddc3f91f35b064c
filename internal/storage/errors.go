// ABOUTME: Domain errors raised by the store and SQLite error classification.
// ABOUTME: Everything not a known constraint failure becomes a StorageError.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicateName is returned when a profile name is already taken.
	ErrDuplicateName = errors.New("profile name already exists")

	// ErrForeignKeyViolation is returned when a record references a missing profile.
	ErrForeignKeyViolation = errors.New("profile does not exist")

	// ErrProfileNotFound is returned by profile lookups.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrStorageFailure matches every StorageError via errors.Is.
	ErrStorageFailure = errors.New("storage failure")
)

// StorageError reports an I/O, corruption, or other unexpected database failure.
// The operation it came from had no effect.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrStorageFailure, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorageFailure) true for any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// classify maps a raw error from an operation onto the store's error taxonomy.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, ErrDuplicateName),
		errors.Is(err, ErrForeignKeyViolation),
		errors.Is(err, ErrProfileNotFound):
		return fmt.Errorf("%s: %w", op, err)
	case isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", op, ErrDuplicateName)
	case isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%s: %w", op, ErrForeignKeyViolation)
	default:
		return &StorageError{Op: op, Err: err}
	}
}

// isConstraint checks the driver's extended result code, falling back to the
// message text when the code is not extended.
func isConstraint(err error, code int, msg string) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == code {
		return true
	}
	return strings.Contains(err.Error(), msg)
}
