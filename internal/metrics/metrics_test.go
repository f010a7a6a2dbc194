package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rickgao/pricewatch/internal/model"
)

func TestObserveBatch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBatch(model.TriggerSchedule, &model.BatchResult{
		Duration: time.Second,
		Outcomes: []model.FetchOutcome{{Source: "wb"}, {Source: "wb", Err: model.ErrParse}},
	}, nil)
	m.ObserveBatch(model.TriggerManual, &model.BatchResult{
		Outcomes: []model.FetchOutcome{{Source: "wb"}},
	}, nil)
	m.ObserveBatch(model.TriggerManual, nil, fmt.Errorf("list: %w", model.ErrRegistryUnavailable))

	if got := testutil.ToFloat64(m.batches.WithLabelValues(model.TriggerSchedule, "partial")); got != 1 {
		t.Errorf("schedule/partial = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.batches.WithLabelValues(model.TriggerManual, "ok")); got != 1 {
		t.Errorf("manual/ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.batches.WithLabelValues(model.TriggerManual, "registry")); got != 1 {
		t.Errorf("manual/registry = %v, want 1", got)
	}
}

func TestObserveFetch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFetch(model.FetchOutcome{Source: "wb"})
	m.ObserveFetch(model.FetchOutcome{Source: "wb", Err: fmt.Errorf("x: %w", model.ErrTransport)})
	m.ObserveFetch(model.FetchOutcome{Source: "wb", Err: fmt.Errorf("x: %w", model.ErrTransport)})

	if got := testutil.ToFloat64(m.fetches.WithLabelValues("wb", "ok")); got != 1 {
		t.Errorf("wb/ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.fetches.WithLabelValues("wb", "transport")); got != 2 {
		t.Errorf("wb/transport = %v, want 2", got)
	}
}

func TestObserveRegistryOp(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRegistryOp("add", true, nil)
	m.ObserveRegistryOp("add", false, nil)
	m.ObserveRegistryOp("remove", false, &model.ValidationError{Field: "article", Value: "x"})

	if got := testutil.ToFloat64(m.registryOps.WithLabelValues("add", "changed")); got != 1 {
		t.Errorf("add/changed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.registryOps.WithLabelValues("add", "unchanged")); got != 1 {
		t.Errorf("add/unchanged = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.registryOps.WithLabelValues("remove", "validation")); got != 1 {
		t.Errorf("remove/validation = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveBatch("x", nil, errors.New("boom"))
	m.ObserveFetch(model.FetchOutcome{})
	m.SetTrackedArticles(3)
	m.ObserveRegistryOp("add", true, nil)
}
