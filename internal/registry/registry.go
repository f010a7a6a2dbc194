package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rickgao/pricewatch/internal/model"
	"github.com/rickgao/pricewatch/internal/table"
)

// headerRows is the number of leading rows excluded from all reads.
const headerRows = 1

// Rendering for RenderText.
const (
	emptyText  = "📭 Список пуст."
	listHeader = "📦 Список артикулов:"
	bullet     = "• "
)

// Registry manages tracked articles stored in a single-column table.
type Registry struct {
	tbl    table.Table
	logger *slog.Logger

	// mu serializes mutations so the duplicate check in Add and the
	// position lookup in Remove see the table they modify.
	mu sync.Mutex
}

// New creates a Registry over tbl.
func New(tbl table.Table, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tbl:    tbl,
		logger: logger,
	}
}

// List returns tracked articles in insertion order.
// Failures wrap model.ErrRegistryUnavailable.
func (r *Registry) List(ctx context.Context) ([]model.Article, error) {
	values, err := r.values(ctx)
	if err != nil {
		return nil, err
	}

	articles := make([]model.Article, 0, len(values))
	for _, v := range values {
		a := model.Article(strings.TrimSpace(v))
		if a == "" {
			continue
		}
		if !a.Valid() {
			r.logger.Debug("skipping malformed registry entry", "value", v)
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// Add appends a to the registry. It returns false without writing if a is
// already present.
func (r *Registry) Add(ctx context.Context, a model.Article) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.values(ctx)
	if err != nil {
		return false, err
	}
	for _, v := range values {
		if strings.TrimSpace(v) == string(a) {
			return false, nil
		}
	}

	if err := r.tbl.Append(ctx, []string{string(a)}); err != nil {
		return false, fmt.Errorf("%w: add %s: %w", model.ErrRegistryUnavailable, a, err)
	}

	r.logger.Info("article added", "article", a)
	return true, nil
}

// Remove deletes the first row whose trimmed value equals a. It returns
// false if no row matches.
func (r *Registry) Remove(ctx context.Context, a model.Article) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.values(ctx)
	if err != nil {
		return false, err
	}

	for i, v := range values {
		if strings.TrimSpace(v) != string(a) {
			continue
		}
		if err := r.tbl.DeleteRow(ctx, i+headerRows); err != nil {
			return false, fmt.Errorf("%w: remove %s: %w", model.ErrRegistryUnavailable, a, err)
		}
		r.logger.Info("article removed", "article", a)
		return true, nil
	}
	return false, nil
}

// RenderText returns a bulleted listing of tracked articles, or an explicit
// empty message.
func (r *Registry) RenderText(ctx context.Context) (string, error) {
	articles, err := r.List(ctx)
	if err != nil {
		return "", err
	}
	if len(articles) == 0 {
		return emptyText, nil
	}

	var b strings.Builder
	b.WriteString(listHeader)
	for _, a := range articles {
		b.WriteString("\n")
		b.WriteString(bullet)
		b.WriteString(string(a))
	}
	return b.String(), nil
}

// values returns the raw first-column cells of every data row.
func (r *Registry) values(ctx context.Context) ([]string, error) {
	rows, err := r.tbl.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read articles: %w", model.ErrRegistryUnavailable, err)
	}
	if len(rows) <= headerRows {
		return nil, nil
	}
	return table.Column(rows[headerRows:], 0), nil
}
