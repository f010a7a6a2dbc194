package fetcher

import (
	"context"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/rickgao/pricewatch/internal/config"
	"github.com/rickgao/pricewatch/internal/model"
)

// PageWatch is a single product page whose price is scraped by regular expression.
type PageWatch struct {
	Source  string
	Product string
	URL     string
	Pattern *regexp.Regexp // First capture group is the price in minor units
	Scale   int64
}

// NewPageWatch compiles a PageWatch from config.
func NewPageWatch(cfg config.PageConfig) (PageWatch, error) {
	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return PageWatch{}, fmt.Errorf("compile pattern for %s: %w", cfg.URL, err)
	}
	if re.NumSubexp() < 1 {
		return PageWatch{}, fmt.Errorf("pattern for %s has no capture group", cfg.URL)
	}
	scale := cfg.Scale
	if scale < 1 {
		scale = 100
	}
	return PageWatch{
		Source:  cfg.Source,
		Product: cfg.Product,
		URL:     cfg.URL,
		Pattern: re,
		Scale:   scale,
	}, nil
}

// FetchPage fetches w's page, extracts the price and appends it to the log.
func (f *Fetcher) FetchPage(ctx context.Context, w PageWatch) (model.Observation, error) {
	body, err := f.client.GetPage(ctx, w.URL)
	if err != nil {
		return model.Observation{}, err
	}

	m := w.Pattern.FindSubmatch(body)
	if m == nil {
		return model.Observation{}, fmt.Errorf("%w: %s: pattern %q not found", model.ErrParse, w.URL, w.Pattern)
	}

	minor, err := decimal.NewFromString(string(m[1]))
	if err != nil {
		return model.Observation{}, fmt.Errorf("%w: %s: %w", model.ErrParse, w.URL, err)
	}

	value := FormatPrice(minor.Div(decimal.NewFromInt(w.Scale)))
	obs, err := f.sink.Append(ctx, w.Source, w.Product, value)
	if err != nil {
		return model.Observation{}, err
	}

	f.logger.Info("page price recorded",
		"source", w.Source,
		"product", w.Product,
		"value", value,
	)
	return obs, nil
}
