package db

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by every operation on a store that was
	// never opened or has been closed
	ErrNotInitialized = errors.New("database not initialized")

	// ErrInvalidFormat is returned when an import payload lacks sessions or settings
	ErrInvalidFormat = errors.New("invalid data format")

	// ErrNotFound is returned by single-record lookups
	ErrNotFound = errors.New("record not found")
)

// OperationError wraps a failure of the storage engine
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func opErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Err: err}
}

// MigrationRecordError describes one session the v1 to v2 backfill skipped
type MigrationRecordError struct {
	SessionID uint
	Task      string
	Err       error
}

func (e *MigrationRecordError) Error() string {
	return fmt.Sprintf("migrate session #%d (task %q): %v", e.SessionID, e.Task, e.Err)
}

func (e *MigrationRecordError) Unwrap() error { return e.Err }
