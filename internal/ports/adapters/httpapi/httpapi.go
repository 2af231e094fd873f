// Package httpapi serves searches over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/sermonsearch/internal/config"
	"github.com/forPelevin/sermonsearch/internal/ports"
	"github.com/forPelevin/sermonsearch/internal/usecase"
)

type Handler struct {
	searchers map[string]ports.Searcher
	preset    string
	log       *slog.Logger
}

// New returns a handler dispatching to searchers by preset name. The
// default preset must be present in searchers.
func New(searchers map[string]ports.Searcher, defaultPreset string, log *slog.Logger) (*Handler, error) {
	if _, ok := searchers[defaultPreset]; !ok {
		return nil, fmt.Errorf("no searcher for default preset %q", defaultPreset)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{searchers: searchers, preset: defaultPreset, log: log}, nil
}

// Routes returns the API mux with CORS enabled on every response.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", h.Search)
	mux.HandleFunc("/api/search/timestamps", h.SearchTimestamps)
	mux.HandleFunc("/api/stats", h.Stats)
	mux.HandleFunc("/health", h.Health)
	return withCORS(mux)
}

// Search handles GET /api/search?q=&max=&preset=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, r.URL.Query().Get("preset"))
}

// SearchTimestamps handles GET /api/search/timestamps?q=&max= with the
// timestamps preset regardless of the preset parameter.
func (h *Handler) SearchTimestamps(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, config.PresetTimestamps)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, preset string) {
	if !allowGet(w, r) {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}
	maxResults := 0
	if s := r.URL.Query().Get("max"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid max %q", s))
			return
		}
		maxResults = n
	}
	if preset == "" {
		preset = h.preset
	}
	s, ok := h.searchers[preset]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown preset %q", preset))
		return
	}

	start := time.Now()
	resp, err := s.Search(r.Context(), q, maxResults)
	switch {
	case errors.Is(err, usecase.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	case err != nil:
		h.log.Error("search failed", "query", q, "preset", preset, "err", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	h.log.Info("search", "query", q, "preset", preset, "results", resp.ResultsCount, "duration", time.Since(start))
	writeJSON(w, http.StatusOK, resp)
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, h.searchers[h.preset].Stats())
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": h.searchers[h.preset].Stats().TotalDocuments,
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
