package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

type sqliteDialect struct{}

func (sqliteDialect) contains(column string) string {
	return "LOWER(" + column + ") LIKE '%' || LOWER(?) || '%'"
}

func (sqliteDialect) isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func (sqliteDialect) isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
