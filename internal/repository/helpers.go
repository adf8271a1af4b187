package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// insertReturningID runs an INSERT written with ? placeholders and returns
// the generated primary key. Both supported dialects understand RETURNING.
func insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := q.QueryRowxContext(ctx, q.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// reload replaces *dst with a freshly read copy so generated columns
// (ids, timestamps, defaults) are visible to the caller.
func reload[T any](dst *T, get func() (*T, error)) error {
	fresh, err := get()
	if err != nil {
		return err
	}
	if fresh == nil {
		return sql.ErrNoRows
	}
	*dst = *fresh
	return nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
