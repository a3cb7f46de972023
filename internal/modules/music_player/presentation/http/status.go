// Package http serves a read-only JSON view of the guild queues.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// QueueReader exposes read access to guild queues.
type QueueReader interface {
	Snapshot(ctx context.Context, guildID snowflake.ID) (domain.QueueSnapshot, error)
	ActiveGuilds() []snowflake.ID
}

// StatusServer is the HTTP server for the status API.
type StatusServer struct {
	server *http.Server
}

// NewStatusServer creates a StatusServer listening on addr.
func NewStatusServer(addr string, reader QueueReader) *StatusServer {
	return &StatusServer{
		server: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(reader),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start serves in the background until Shutdown is called.
func (s *StatusServer) Start() {
	go func() {
		slog.Info("starting status server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("status server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully shuts down the server.
func (s *StatusServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// NewRouter builds the status API routes.
func NewRouter(reader QueueReader) http.Handler {
	h := &handlers{reader: reader}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Get("/guilds", h.guilds)
	r.Get("/guilds/{guildID}/queue", h.queue)

	return r
}

type handlers struct {
	reader QueueReader
}

type healthResponse struct {
	Status string `json:"status"`
	Guilds int    `json:"guilds"`
}

type guildsResponse struct {
	Guilds []string `json:"guilds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Guilds: len(h.reader.ActiveGuilds()),
	})
}

func (h *handlers) guilds(w http.ResponseWriter, _ *http.Request) {
	ids := h.reader.ActiveGuilds()
	slices.Sort(ids)

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	writeJSON(w, http.StatusOK, guildsResponse{Guilds: out})
}

func (h *handlers) queue(w http.ResponseWriter, r *http.Request) {
	guildID, err := snowflake.Parse(chi.URLParam(r, "guildID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid guild ID"})
		return
	}

	snapshot, err := h.reader.Snapshot(r.Context(), guildID)
	switch {
	case errors.Is(err, usecases.ErrEmptyQueue):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no queue for guild"})
	case err != nil:
		slog.Error("failed to read queue", "guild", guildID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
