package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theory/jsonpath"

	"github.com/rickgao/pricewatch/internal/model"
)

// Client retrieves raw marketplace payloads.
type Client interface {
	GetCard(ctx context.Context, article model.Article) ([]byte, error)
	GetPage(ctx context.Context, pageURL string) ([]byte, error)
}

// Sink records observations.
type Sink interface {
	Append(ctx context.Context, source, product, value string) (model.Observation, error)
}

// Config holds fetcher settings.
type Config struct {
	Source    string        // Source tag for card prices
	PricePath string        // JSONPath to the price in minor units
	Scale     int64         // Minor units per major unit
}

// DefaultConfig returns the Wildberries card settings.
func DefaultConfig() Config {
	return Config{
		Source:    model.SourceWildberries,
		PricePath: "$.data.products[0].salePriceU",
		Scale:     100,
	}
}

// Fetcher fetches prices and forwards them to a Sink.
type Fetcher struct {
	cfg    Config
	path   *jsonpath.Path
	scale  decimal.Decimal
	client Client
	sink   Sink
	logger *slog.Logger
}

// New creates a Fetcher. It fails if cfg.PricePath does not parse.
func New(cfg Config, client Client, sink Sink, logger *slog.Logger) (*Fetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path, err := jsonpath.Parse(cfg.PricePath)
	if err != nil {
		return nil, fmt.Errorf("parse price path %q: %w", cfg.PricePath, err)
	}
	if cfg.Scale < 1 {
		return nil, fmt.Errorf("scale must be >= 1, got %d", cfg.Scale)
	}
	return &Fetcher{
		cfg:    cfg,
		path:   path,
		scale:  decimal.NewFromInt(cfg.Scale),
		client: client,
		sink:   sink,
		logger: logger,
	}, nil
}

// Source returns the tag written for card prices.
func (f *Fetcher) Source() string {
	return f.cfg.Source
}

// FetchOne fetches the current price of article and appends it to the log.
// Errors wrap model.ErrTransport, model.ErrParse or model.ErrSinkUnavailable.
func (f *Fetcher) FetchOne(ctx context.Context, article model.Article) (model.Observation, error) {
	body, err := f.client.GetCard(ctx, article)
	if err != nil {
		return model.Observation{}, err
	}

	minor, err := f.extractPrice(body)
	if err != nil {
		return model.Observation{}, fmt.Errorf("article %s: %w", article, err)
	}

	value := FormatPrice(minor.Div(f.scale))
	obs, err := f.sink.Append(ctx, f.cfg.Source, string(article), value)
	if err != nil {
		return model.Observation{}, err
	}

	f.logger.Info("price recorded",
		"article", article,
		"value", value,
	)
	return obs, nil
}

// extractPrice selects the first node at the price path and reads it as a decimal.
func (f *Fetcher) extractPrice(body []byte) (decimal.Decimal, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: decode payload: %w", model.ErrParse, err)
	}

	nodes := f.path.Select(doc)
	if len(nodes) == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: no value at %s", model.ErrParse, f.cfg.PricePath)
	}

	var text string
	switch v := nodes[0].(type) {
	case json.Number:
		text = v.String()
	case string:
		text = v
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: value at %s is %T, not a number", model.ErrParse, f.cfg.PricePath, v)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: value at %s: %w", model.ErrParse, f.cfg.PricePath, err)
	}
	return d, nil
}

// FormatPrice renders d with at least one fractional digit.
func FormatPrice(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
