package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type pgDialect struct{}

// contains matches accent-insensitively, relying on the unaccent extension
// created by the first migration.
func (pgDialect) contains(column string) string {
	return "unaccent(LOWER(" + column + ")) LIKE '%' || unaccent(LOWER(?)) || '%'"
}

func (pgDialect) isUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func (pgDialect) isForeignKeyViolation(err error) bool {
	return pgCode(err) == pgForeignKeyViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
