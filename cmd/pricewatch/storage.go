package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/rickgao/pricewatch/internal/config"
	"github.com/rickgao/pricewatch/internal/database"
	"github.com/rickgao/pricewatch/internal/table"
)

// Columns spanned by each sheet.
const (
	articlesLastColumn = "A"
	logLastColumn      = "D"
)

type tables struct {
	articles table.Table
	log      table.Table
	pool     *pgxpool.Pool
}

func (t *tables) Close() {
	if t.pool != nil {
		t.pool.Close()
	}
}

// openTables connects the configured backend.
func openTables(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*tables, error) {
	switch cfg.Backend {
	case config.BackendSheets:
		sc := cfg.Sheets
		logger.Info("connecting to google sheets", "spreadsheet_id", sc.SpreadsheetID)

		svc, err := sheets.NewService(ctx,
			option.WithCredentialsFile(sc.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
		if err != nil {
			return nil, fmt.Errorf("create sheets service: %w", err)
		}
		return &tables{
			articles: table.NewSheets(svc, sc.SpreadsheetID, sc.ArticlesSheet, articlesLastColumn),
			log:      table.NewSheets(svc, sc.SpreadsheetID, sc.LogSheet, logLastColumn),
		}, nil

	case config.BackendPostgres:
		db := cfg.Postgres
		logger.Info("connecting to database",
			"host", db.Host,
			"port", db.Port,
			"database", db.Name,
		)

		pool, err := database.Connect(ctx, db)
		if err != nil {
			return nil, err
		}

		articles := table.NewPostgres(pool, db.ArticlesTable, []string{"article"})
		log := table.NewPostgres(pool, db.LogTable, nil)
		for _, t := range []*table.Postgres{articles, log} {
			if err := t.Ensure(ctx); err != nil {
				pool.Close()
				return nil, err
			}
		}

		logger.Info("database connected")
		return &tables{articles: articles, log: log, pool: pool}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
