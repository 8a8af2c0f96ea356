// Package api is the orchestration HTTP server: response generation, session
// discovery and media serving.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/media"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/orchestrator"
)

// Screenshots arrive as base64 data URLs, so request bodies can be large.
const maxRequestBody = 50 << 20

// Generator produces a simulated assistant message for a playback moment.
type Generator interface {
	Generate(ctx context.Context, req orchestrator.Request) (*orchestrator.Response, error)
}

type Server struct {
	router   *chi.Mux
	orch     Generator
	mediaDir string
	logger   *slog.Logger
}

func NewServer(orch Generator, mediaDir string, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	s := &Server{
		router:   router,
		orch:     orch,
		mediaDir: mediaDir,
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Post("/generate-llm-response", s.generateLLMResponse)
	router.Get("/list-media-mp4-basenames", s.listMediaBasenames)
	router.Handle("/media/*", http.StripPrefix("/media/", media.Handler(mediaDir)))

	return s
}

// Handler returns the mounted routes for use by an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
