package table

import (
	"context"
	"errors"
)

// ErrRowNotFound is returned by DeleteRow when the index is past the last row.
var ErrRowNotFound = errors.New("row not found")

// Table is an ordered, position-addressed list of string rows.
type Table interface {
	// Rows returns every row in order. Row i is the one DeleteRow(i) removes.
	Rows(ctx context.Context) ([][]string, error)

	// Append adds a row after all existing rows.
	Append(ctx context.Context, row []string) error

	// DeleteRow removes the row at zero-based index, shifting later rows up.
	DeleteRow(ctx context.Context, index int) error
}

// Column returns the col-th cell of every row, using "" for short rows.
func Column(rows [][]string, col int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		if col < len(r) {
			out[i] = r[col]
		}
	}
	return out
}
