package admin

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/pricewatch/internal/metrics"
	"github.com/rickgao/pricewatch/internal/model"
	"github.com/rickgao/pricewatch/internal/version"
)

// Registry manages the tracked set.
type Registry interface {
	List(ctx context.Context) ([]model.Article, error)
	Add(ctx context.Context, a model.Article) (bool, error)
	Remove(ctx context.Context, a model.Article) (bool, error)
	RenderText(ctx context.Context) (string, error)
}

// Runner triggers fetches.
type Runner interface {
	RunBatch(ctx context.Context, trigger string) (*model.BatchResult, error)
	RunOne(ctx context.Context, a model.Article) (model.FetchOutcome, error)
}

// Option configures a Handler.
type Option func(*Handler)

// WithToken requires a bearer token on control endpoints.
func WithToken(token string) Option {
	return func(h *Handler) {
		h.token = token
	}
}

// WithMetrics records registry operations in m and serves g at path.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer, path string) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = g
		h.metricsPath = path
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// Handler is the admin HTTP handler.
type Handler struct {
	registry    Registry
	runner      Runner
	token       string
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	metricsPath string
	logger      *slog.Logger

	mux *http.ServeMux
}

// New creates the admin handler.
func New(registry Registry, runner Runner, opts ...Option) *Handler {
	h := &Handler{
		registry: registry,
		runner:   runner,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /articles", h.auth(h.listArticles))
	mux.HandleFunc("POST /articles/{id}", h.auth(h.addArticle))
	mux.HandleFunc("DELETE /articles/{id}", h.auth(h.removeArticle))
	mux.HandleFunc("POST /check", h.auth(h.checkAll))
	mux.HandleFunc("POST /check/{id}", h.auth(h.checkOne))
	mux.HandleFunc("GET /health", h.health)
	if h.gatherer != nil {
		path := h.metricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	h.mux = mux

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) auth(next http.HandlerFunc) http.HandlerFunc {
	if h.token == "" {
		return next
	}
	want := []byte("Bearer " + h.token)
	return func(w http.ResponseWriter, r *http.Request) {
		got := []byte(r.Header.Get("Authorization"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (h *Handler) listArticles(w http.ResponseWriter, r *http.Request) {
	text, err := h.registry.RenderText(r.Context())
	if err != nil {
		h.fail(w, "list articles", err)
		return
	}
	writeText(w, http.StatusOK, text)
}

func (h *Handler) addArticle(w http.ResponseWriter, r *http.Request) {
	a, err := model.ParseArticle(r.PathValue("id"))
	var added bool
	if err == nil {
		added, err = h.registry.Add(r.Context(), a)
	}
	h.metrics.ObserveRegistryOp("add", added, err)
	if err != nil {
		h.fail(w, "add article", err)
		return
	}

	if !added {
		writeText(w, http.StatusOK, fmt.Sprintf("ℹ️ Артикул %s уже есть в таблице.", a))
		return
	}
	writeText(w, http.StatusCreated, fmt.Sprintf("✅ Артикул %s добавлен в список.", a))
}

func (h *Handler) removeArticle(w http.ResponseWriter, r *http.Request) {
	a, err := model.ParseArticle(r.PathValue("id"))
	var removed bool
	if err == nil {
		removed, err = h.registry.Remove(r.Context(), a)
	}
	h.metrics.ObserveRegistryOp("remove", removed, err)
	if err != nil {
		h.fail(w, "remove article", err)
		return
	}

	if !removed {
		writeText(w, http.StatusNotFound, fmt.Sprintf("⚠️ Артикул %s не найден.", a))
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("🗑 Артикул %s удалён.", a))
}

// BatchSummary is the JSON body returned by POST /check.
type BatchSummary struct {
	RunID      string           `json:"run_id"`
	Trigger    string           `json:"trigger"`
	StartedAt  time.Time        `json:"started_at"`
	DurationMS int64            `json:"duration_ms"`
	Fetched    int              `json:"fetched"`
	Failed     int              `json:"failed"`
	Outcomes   []OutcomeSummary `json:"outcomes"`
}

// OutcomeSummary describes one fetch in a BatchSummary.
type OutcomeSummary struct {
	Source    string `json:"source"`
	Product   string `json:"product"`
	Value     string `json:"value,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
	Kind      string `json:"kind"`
}

func summarizeOutcome(o model.FetchOutcome) OutcomeSummary {
	s := OutcomeSummary{
		Source:  o.Source,
		Product: o.Product,
		Kind:    model.Kind(o.Err),
	}
	if o.Err != nil {
		s.Error = o.Err.Error()
		return s
	}
	s.Value = o.Observation.Value
	s.Timestamp = o.Observation.Timestamp.Format(model.TimestampLayout)
	return s
}

func (h *Handler) checkAll(w http.ResponseWriter, r *http.Request) {
	// A manual run attempts every item even if the client goes away.
	res, err := h.runner.RunBatch(context.WithoutCancel(r.Context()), model.TriggerManual)
	if err != nil {
		h.fail(w, "run batch", err)
		return
	}

	summary := BatchSummary{
		RunID:      res.RunID.String(),
		Trigger:    res.Trigger,
		StartedAt:  res.StartedAt,
		DurationMS: res.Duration.Milliseconds(),
		Fetched:    res.Succeeded(),
		Failed:     len(res.Failed()),
		Outcomes:   make([]OutcomeSummary, 0, len(res.Outcomes)),
	}
	for _, o := range res.Outcomes {
		summary.Outcomes = append(summary.Outcomes, summarizeOutcome(o))
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) checkOne(w http.ResponseWriter, r *http.Request) {
	a, err := model.ParseArticle(r.PathValue("id"))
	var out model.FetchOutcome
	if err == nil {
		out, err = h.runner.RunOne(context.WithoutCancel(r.Context()), a)
	}
	if err != nil {
		h.fail(w, "run one", err)
		return
	}

	status := http.StatusOK
	if !out.OK() {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, summarizeOutcome(out))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Version    string         `json:"version"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Version:    version.String(),
		Components: make(map[string]any),
	}

	articles, err := h.registry.List(ctx)
	if err != nil {
		health.Status = "unhealthy"
		health.Components["registry"] = map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		}
	} else {
		health.Components["registry"] = map[string]any{
			"status":   "available",
			"articles": len(articles),
		}
	}

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// fail maps err to an HTTP status and writes it.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrRegistryUnavailable),
		errors.Is(err, model.ErrSinkUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("admin request failed", "op", op, "error", err)
	}

	writeText(w, status, "❌ "+err.Error())
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
