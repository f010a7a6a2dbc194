package sink

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/pricewatch/internal/model"
	"github.com/rickgao/pricewatch/internal/table"
)

// Sink appends price observations to a log table.
type Sink struct {
	log    table.Table
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger

	// Appends from concurrent fetches go through one writer.
	mu sync.Mutex
}

// Option configures a Sink.
type Option func(*Sink)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

// New creates a Sink writing to log with timestamps in loc.
func New(log table.Table, loc *time.Location, opts ...Option) *Sink {
	s := &Sink{
		log:    log,
		loc:    loc,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records one observation stamped with the current time.
// Failures wrap model.ErrSinkUnavailable.
func (s *Sink) Append(ctx context.Context, source, product, value string) (model.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obs := model.Observation{
		Timestamp: s.now().In(s.loc),
		Source:    source,
		Product:   product,
		Value:     value,
	}

	if err := s.log.Append(ctx, obs.Row()); err != nil {
		return model.Observation{}, fmt.Errorf("%w: append %s/%s: %w", model.ErrSinkUnavailable, source, product, err)
	}

	s.logger.Debug("observation appended",
		"source", source,
		"product", product,
		"value", value,
	)
	return obs, nil
}
