package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when a write collides with a unique key or
	// when a row is still referenced by other rows.
	ErrConflict = errors.New("conflict with existing record")
	// ErrInvalidReference is returned when a write points at a row that
	// does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// dialect isolates the SQL and driver error details that differ between
// PostgreSQL and SQLite.
type dialect interface {
	// contains returns a case-insensitive substring predicate on column
	// taking a single bind parameter.
	contains(column string) string
	isUniqueViolation(err error) bool
	isForeignKeyViolation(err error) bool
}

func classifyWrite(d dialect, err error) error {
	switch {
	case err == nil:
		return nil
	case d.isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case d.isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}

func classifyDelete(d dialect, err error) error {
	if err != nil && d.isForeignKeyViolation(err) {
		return fmt.Errorf("%w: record is still referenced: %v", ErrConflict, err)
	}
	return err
}
