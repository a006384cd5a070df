// Package repository runs typed queries over database/sql and maps driver
// errors onto domain errors.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
)

// Querier is implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Scanner is the row-reading half of *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc reads one row into a T.
type ScanFunc[T any] func(Scanner) (T, error)

// QueryOne returns the single row produced by query. A query without rows
// fails with sql.ErrNoRows.
func QueryOne[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) (T, error) {
	return scan(q.QueryRowContext(ctx, query, args...))
}

// Rows yields every row of query in order. Iteration stops after the first
// error, which is yielded with the zero T. Breaking out of the loop closes
// the underlying rows.
func Rows[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			yield(zero, err)
			return
		}
		defer rows.Close()

		for i := 0; rows.Next(); i++ {
			item, err := scan(rows)
			if err != nil {
				yield(zero, fmt.Errorf("scan row %d: %w", i, err))
				return
			}
			if !yield(item, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(zero, err)
		}
	}
}

// QueryMany collects Rows into a slice. It never returns a nil slice on
// success.
func QueryMany[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) ([]T, error) {
	results := []T{}
	for item, err := range Rows(ctx, q, query, args, scan) {
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, nil
}
