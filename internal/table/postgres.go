package table

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores rows in a PostgreSQL table as text arrays ordered by a serial position.
//
// Schema:
//
//	CREATE TABLE <name> (pos BIGSERIAL PRIMARY KEY, cells TEXT[] NOT NULL)
type Postgres struct {
	db     *pgxpool.Pool
	ident  string
	header []string
}

// NewPostgres creates a Postgres table named name. If header is non-nil,
// Ensure seeds it as the first row of an empty table.
func NewPostgres(db *pgxpool.Pool, name string, header []string) *Postgres {
	return &Postgres{
		db:     db,
		ident:  pgx.Identifier{name}.Sanitize(),
		header: header,
	}
}

// Ensure creates the table if needed and seeds the header row.
func (p *Postgres) Ensure(ctx context.Context) error {
	_, err := p.db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			pos   BIGSERIAL PRIMARY KEY,
			cells TEXT[] NOT NULL
		)`, p.ident))
	if err != nil {
		return fmt.Errorf("create table %s: %w", p.ident, err)
	}

	if p.header == nil {
		return nil
	}

	_, err = p.db.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %[1]s (cells)
		SELECT $1::text[]
		WHERE NOT EXISTS (SELECT 1 FROM %[1]s)`, p.ident), p.header)
	if err != nil {
		return fmt.Errorf("seed header %s: %w", p.ident, err)
	}
	return nil
}

func (p *Postgres) Rows(ctx context.Context) ([][]string, error) {
	rows, err := p.db.Query(ctx, fmt.Sprintf(`SELECT cells FROM %s ORDER BY pos`, p.ident))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.ident, err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowTo[[]string])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.ident, err)
	}
	return out, nil
}

func (p *Postgres) Append(ctx context.Context, row []string) error {
	if _, err := p.db.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (cells) VALUES ($1)`, p.ident), row); err != nil {
		return fmt.Errorf("insert %s: %w", p.ident, err)
	}
	return nil
}

func (p *Postgres) DeleteRow(ctx context.Context, index int) error {
	ct, err := p.db.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %[1]s
		WHERE pos = (SELECT pos FROM %[1]s ORDER BY pos OFFSET $1 LIMIT 1)`, p.ident), index)
	if err != nil {
		return fmt.Errorf("delete %s row %d: %w", p.ident, index, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrRowNotFound
	}
	return nil
}
