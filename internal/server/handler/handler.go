package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/server/cache"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/textfilter"
	apperrors "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/metrics"
)

type TextFilter interface {
	FilterWithStats(text, language string, keepPunctuation bool) ([]string, textfilter.Stats, error)
}

// StopwordSource lists available languages and can drop cached sets.
type StopwordSource interface {
	Languages() ([]string, error)
	Reset()
}

type Config struct {
	DefaultLanguage string
	KeepPunctuation bool
	MaxBodyBytes    int64
}

type FilterRequest struct {
	Text            string `json:"text"`
	Language        string `json:"language,omitempty"`
	KeepPunctuation *bool  `json:"keep_punctuation,omitempty"`
}

type FilterResponse struct {
	Language        string   `json:"language"`
	KeepPunctuation bool     `json:"keep_punctuation"`
	Tokens          []string `json:"tokens"`
	Count           int      `json:"count"`
	CacheHit        bool     `json:"cache_hit"`
}

type CountResponse struct {
	Language        string         `json:"language"`
	KeepPunctuation bool           `json:"keep_punctuation"`
	Counts          map[string]int `json:"counts"`
	Total           int            `json:"total"`
	Unique          int            `json:"unique"`
	CacheHit        bool           `json:"cache_hit"`
}

type Handler struct {
	filter    TextFilter
	source    StopwordSource
	cache     *cache.ResultCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	cfg       Config
	logger    *slog.Logger
}

// New wires a Handler. resultCache, collector, and m may each be nil.
func New(filter TextFilter, source StopwordSource, resultCache *cache.ResultCache, collector *analytics.Collector, m *metrics.Metrics, cfg Config) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return &Handler{
		filter:    filter,
		source:    source,
		cache:     resultCache,
		collector: collector,
		metrics:   m,
		cfg:       cfg,
		logger:    slog.Default().With("component", "filter-handler"),
	}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/filter", h.Filter)
	mux.HandleFunc("POST /api/v1/count", h.Count)
	mux.HandleFunc("GET /api/v1/languages", h.Languages)
	mux.HandleFunc("POST /api/v1/stopwords/reload", h.Reload)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	result, hit, err := h.run(r.Context(), analytics.EventFilter, req)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, FilterResponse{
		Language:        req.Language,
		KeepPunctuation: *req.KeepPunctuation,
		Tokens:          result.Tokens,
		Count:           len(result.Tokens),
		CacheHit:        hit,
	})
}

func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	result, hit, err := h.run(r.Context(), analytics.EventCount, req)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	counts := textfilter.Tally(result.Tokens)
	h.writeJSON(w, http.StatusOK, CountResponse{
		Language:        req.Language,
		KeepPunctuation: *req.KeepPunctuation,
		Counts:          counts,
		Total:           len(result.Tokens),
		Unique:          len(counts),
		CacheHit:        hit,
	})
}

func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.source.Languages()
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"languages": languages,
		"default":   h.cfg.DefaultLanguage,
	})
}

// Reload drops cached stopword sets so regenerated data files are picked
// up, and invalidates cached results computed from the old sets.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	h.source.Reset()
	var deleted int64
	if h.cache != nil {
		var err error
		deleted, err = h.cache.Invalidate(r.Context())
		if err != nil {
			logger.FromContext(r.Context()).Error("cache invalidation after reload failed", "error", err)
			h.writeError(w, http.StatusInternalServerError, "stopword sets reset but cached results could not be invalidated")
			return
		}
	}
	logger.FromContext(r.Context()).Info("stopword sets reset", "cached_results_deleted", deleted)
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "cached_results_deleted": deleted})
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

// decode reads a FilterRequest from a JSON body, or from a text/plain body
// with language and keep_punctuation in the query string, and fills in
// defaults.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (FilterRequest, bool) {
	var req FilterRequest
	body := http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		data, err := io.ReadAll(body)
		if err != nil {
			h.writeBodyError(w, err)
			return req, false
		}
		req.Text = string(data)
		req.Language = r.URL.Query().Get("language")
		if v := r.URL.Query().Get("keep_punctuation"); v != "" {
			keep, err := strconv.ParseBool(v)
			if err != nil {
				h.writeError(w, http.StatusBadRequest, "keep_punctuation must be a boolean")
				return req, false
			}
			req.KeepPunctuation = &keep
		}
	} else {
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			h.writeBodyError(w, err)
			return req, false
		}
	}

	if req.Language == "" {
		req.Language = h.cfg.DefaultLanguage
	}
	if req.KeepPunctuation == nil {
		keep := h.cfg.KeepPunctuation
		req.KeepPunctuation = &keep
	}
	return req, true
}

func (h *Handler) run(ctx context.Context, op analytics.EventType, req FilterRequest) (*cache.Result, bool, error) {
	start := time.Now()
	compute := func() (*cache.Result, error) {
		tokens, stats, err := h.filter.FilterWithStats(req.Text, req.Language, *req.KeepPunctuation)
		if err != nil {
			return nil, err
		}
		return &cache.Result{Tokens: tokens, InputTokens: stats.Tokens}, nil
	}

	var result *cache.Result
	var err error
	hit := false
	if h.cache != nil {
		result, hit, err = h.cache.GetOrCompute(ctx, cache.Key{
			Language:        req.Language,
			KeepPunctuation: *req.KeepPunctuation,
			Text:            req.Text,
		}, compute)
	} else {
		result, err = compute()
	}
	latency := time.Since(start)

	h.observe(op, req, result, hit, err, latency)
	if h.collector != nil {
		event := analytics.FilterEvent{
			Type:            op,
			Language:        req.Language,
			KeepPunctuation: *req.KeepPunctuation,
			TextBytes:       len(req.Text),
			LatencyMs:       latency.Milliseconds(),
			CacheHit:        hit,
			Timestamp:       time.Now().UTC(),
			RequestID:       logger.RequestID(ctx),
		}
		if err != nil {
			event.Error = err.Error()
		} else {
			event.InputTokens = result.InputTokens
			event.Retained = len(result.Tokens)
			if op == analytics.EventCount {
				event.Unique = len(textfilter.Tally(result.Tokens))
			}
		}
		h.collector.Track(event)
	}

	logger.FromContext(ctx).Debug("text filtered",
		"operation", op,
		"language", req.Language,
		"keep_punctuation", *req.KeepPunctuation,
		"cache_hit", hit,
		"latency_ms", latency.Milliseconds(),
		"error", err,
	)
	return result, hit, err
}

func (h *Handler) observe(op analytics.EventType, req FilterRequest, result *cache.Result, hit bool, err error, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	status := statusLabel(err)
	language := req.Language
	if err != nil {
		// Only codes that loaded become label values.
		language = "unknown"
	}
	h.metrics.FilterRequestsTotal.WithLabelValues(string(op), language, status).Inc()

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "miss"
		if hit {
			cacheStatus = "hit"
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	}
	h.metrics.FilterLatency.WithLabelValues(string(op), cacheStatus).Observe(latency.Seconds())

	if result != nil {
		h.metrics.TokensTotal.WithLabelValues("input").Add(float64(result.InputTokens))
		h.metrics.TokensTotal.WithLabelValues("retained").Add(float64(len(result.Tokens)))
	}
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrStopwordsFileNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatusCode(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	h.writeError(w, status, message)
}

func (h *Handler) writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
