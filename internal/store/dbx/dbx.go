package dbx

import (
	"context"
	"database/sql"
)

// Execer lets helpers work with *sql.DB and *sql.Tx alike.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func Exec(ctx context.Context, e Execer, query string, args ...any) (sql.Result, error) {
	return e.ExecContext(ctx, query, args...)
}

// RowsAffected runs query and reports how many rows it touched.
func RowsAffected(ctx context.Context, e Execer, query string, args ...any) (int64, error) {
	res, err := Exec(ctx, e, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
