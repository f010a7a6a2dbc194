package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SourceWildberries is the source tag written for per-article card prices.
const SourceWildberries = "wb"

// Trigger names recorded on a BatchResult.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// -----------------------------------------------------------------------------
// Registry Types
// -----------------------------------------------------------------------------

// Article is a tracked marketplace product identifier.
type Article string

// ParseArticle trims s and validates it as an article.
func ParseArticle(s string) (Article, error) {
	a := Article(strings.TrimSpace(s))
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

// Valid reports whether a is non-empty and consists of ASCII digits only.
func (a Article) Valid() bool {
	if a == "" {
		return false
	}
	for i := 0; i < len(a); i++ {
		if a[i] < '0' || a[i] > '9' {
			return false
		}
	}
	return true
}

// Validate returns an ErrValidation-wrapped error when a is not a valid article.
func (a Article) Validate() error {
	if !a.Valid() {
		return &ValidationError{Field: "article", Value: string(a), Reason: "must be a non-empty string of digits"}
	}
	return nil
}

func (a Article) String() string {
	return string(a)
}

// -----------------------------------------------------------------------------
// Log Types
// -----------------------------------------------------------------------------

// Observation is one price record appended to the log.
type Observation struct {
	Timestamp time.Time // Wall clock at append time, in the configured zone
	Source    string    // Source tag (e.g. "wb", "ozon")
	Product   string    // Article or product slug, empty for non-per-item sources
	Value     string    // Decimal text (e.g. "1500.0")
}

// TimestampLayout is the layout used when writing Observation.Timestamp to the log.
const TimestampLayout = "2006-01-02 15:04:05"

// Row returns the observation as a log row: timestamp, source, product, value.
func (o Observation) Row() []string {
	return []string{o.Timestamp.Format(TimestampLayout), o.Source, o.Product, o.Value}
}

// -----------------------------------------------------------------------------
// Batch Types
// -----------------------------------------------------------------------------

// FetchOutcome is the transient result of fetching one item within a batch.
// Exactly one of Observation or Err is meaningful.
type FetchOutcome struct {
	Source      string
	Product     string
	Observation Observation
	Err         error
	Duration    time.Duration
}

// OK reports whether the fetch produced an observation.
func (o FetchOutcome) OK() bool {
	return o.Err == nil
}

// BatchResult collects the outcomes of one pass over the tracked set.
type BatchResult struct {
	RunID     uuid.UUID
	Trigger   string
	StartedAt time.Time
	Duration  time.Duration
	Outcomes  []FetchOutcome // In listing order, page watches last
}

// Succeeded returns the number of outcomes that produced an observation.
func (r *BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that did not produce an observation.
func (r *BatchResult) Failed() []FetchOutcome {
	var failed []FetchOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}
