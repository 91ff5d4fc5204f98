// Package statusapi serves read-only HTTP views of the metrics registry.
package statusapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lixenwraith/blockfall/status"
)

// NewRouter builds the status routes over reg
func NewRouter(reg *status.Registry, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))

	h := &handler{registry: reg}
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/status", h.status)
		r.Get("/board", h.board)
	})
	return r
}

type handler struct {
	registry *status.Registry
}

// health handles GET /api/health
func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// status handles GET /api/status
func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.registry.Export())
}

// board handles GET /api/board with the last snapshot as '#'/'.' text
func (h *handler) board(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Strings.Has(status.KeyBoard) {
		respondError(w, http.StatusNotFound, "no game in progress")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.registry.Strings.Get(status.KeyBoard).Load()))
}

func respondJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("statusapi: encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
