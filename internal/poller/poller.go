package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/pricewatch/internal/fetcher"
	"github.com/rickgao/pricewatch/internal/metrics"
	"github.com/rickgao/pricewatch/internal/model"
)

// ArticleSource provides the tracked articles to fetch.
type ArticleSource interface {
	List(ctx context.Context) ([]model.Article, error)
}

// PriceFetcher fetches and records one price.
type PriceFetcher interface {
	Source() string
	FetchOne(ctx context.Context, article model.Article) (model.Observation, error)
	FetchPage(ctx context.Context, w fetcher.PageWatch) (model.Observation, error)
}

// Config holds orchestrator configuration.
type Config struct {
	Concurrency int                 // Max concurrent fetches per batch (default: 1)
	Pages       []fetcher.PageWatch // Page watches run after the articles
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency: 1,
	}
}

// Poller runs fetch batches over the tracked set.
type Poller struct {
	cfg      Config
	articles ArticleSource
	fetcher  PriceFetcher
	metrics  *metrics.Metrics
	logger   *slog.Logger

	// guard holds a token while a run is in progress.
	guard chan struct{}
}

// New creates a new Poller. m may be nil.
func New(cfg Config, articles ArticleSource, f PriceFetcher, m *metrics.Metrics, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Poller{
		cfg:      cfg,
		articles: articles,
		fetcher:  f,
		metrics:  m,
		logger:   logger,
		guard:    make(chan struct{}, 1),
	}
}

// RunBatch fetches every tracked article and page watch once.
//
// If listing the articles fails the whole batch fails with an error wrapping
// model.ErrRegistryUnavailable. Otherwise the returned result holds one outcome
// per item in listing order, and per-item failures are reported only there.
func (p *Poller) RunBatch(ctx context.Context, trigger string) (*model.BatchResult, error) {
	release, err := p.acquire(ctx, trigger)
	if err != nil {
		return nil, err
	}
	defer release()

	res := &model.BatchResult{
		RunID:     uuid.New(),
		Trigger:   trigger,
		StartedAt: time.Now(),
	}
	logger := p.logger.With("run_id", res.RunID, "trigger", trigger)

	articles, err := p.articles.List(ctx)
	if err != nil {
		logger.Error("batch aborted: cannot list articles", "error", err)
		p.metrics.ObserveBatch(trigger, nil, err)
		return nil, fmt.Errorf("list articles: %w", err)
	}
	p.metrics.SetTrackedArticles(len(articles))

	if len(articles) == 0 && len(p.cfg.Pages) == 0 {
		logger.Info("no tracked articles to fetch")
	}

	res.Outcomes = make([]model.FetchOutcome, len(articles)+len(p.cfg.Pages))

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)

	for i, a := range articles {
		g.Go(func() error {
			res.Outcomes[i] = p.fetchArticle(ctx, logger, a)
			return nil
		})
	}
	for j, w := range p.cfg.Pages {
		g.Go(func() error {
			res.Outcomes[len(articles)+j] = p.fetchPage(ctx, logger, w)
			return nil
		})
	}
	g.Wait()

	res.Duration = time.Since(res.StartedAt)
	p.metrics.ObserveBatch(trigger, res, nil)

	logger.Info("batch complete",
		"articles", len(articles),
		"pages", len(p.cfg.Pages),
		"fetched", res.Succeeded(),
		"errors", len(res.Failed()),
		"duration", res.Duration,
	)

	return res, nil
}

// RunOne fetches a single article under the same run guard as RunBatch.
// The article does not have to be tracked. The returned error is non-nil only
// for validation failures or when ctx ends while waiting for a running batch.
func (p *Poller) RunOne(ctx context.Context, article model.Article) (model.FetchOutcome, error) {
	if err := article.Validate(); err != nil {
		return model.FetchOutcome{}, err
	}

	release, err := p.acquire(ctx, model.TriggerManual)
	if err != nil {
		return model.FetchOutcome{}, err
	}
	defer release()

	return p.fetchArticle(ctx, p.logger.With("trigger", model.TriggerManual), article), nil
}

// acquire waits for the run guard. Triggers arriving during a run queue behind it.
func (p *Poller) acquire(ctx context.Context, trigger string) (func(), error) {
	select {
	case p.guard <- struct{}{}:
		return p.release, nil
	default:
	}

	p.logger.Info("run in progress, waiting", "trigger", trigger)

	select {
	case p.guard <- struct{}{}:
		return p.release, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for running batch: %w", ctx.Err())
	}
}

func (p *Poller) release() {
	<-p.guard
}

// fetchArticle fetches one article and converts any failure into an outcome.
func (p *Poller) fetchArticle(ctx context.Context, logger *slog.Logger, a model.Article) model.FetchOutcome {
	return p.isolate(logger, p.fetcher.Source(), string(a), func() (model.Observation, error) {
		return p.fetcher.FetchOne(ctx, a)
	})
}

// fetchPage fetches one page watch and converts any failure into an outcome.
func (p *Poller) fetchPage(ctx context.Context, logger *slog.Logger, w fetcher.PageWatch) model.FetchOutcome {
	return p.isolate(logger, w.Source, w.Product, func() (model.Observation, error) {
		return p.fetcher.FetchPage(ctx, w)
	})
}

// isolate runs fetch and records its result, recovering panics so that no
// single item can take down the batch.
func (p *Poller) isolate(logger *slog.Logger, source, product string, fetch func() (model.Observation, error)) (out model.FetchOutcome) {
	start := time.Now()
	out = model.FetchOutcome{Source: source, Product: product}

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("fetch %s/%s panicked: %v", source, product, r)
		}
		out.Duration = time.Since(start)

		if out.Err != nil {
			logger.Warn("failed to fetch price",
				"source", source,
				"product", product,
				"kind", model.Kind(out.Err),
				"error", out.Err,
			)
		}
		p.metrics.ObserveFetch(out)
	}()

	out.Observation, out.Err = fetch()
	return out
}
