package store

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/message"
)

// Server exposes the message collection over REST. The route shapes match
// what the annotation clients expect: sessionID/timestamp_lte filters and
// _sort/_order ordering on the list call, integer ids elsewhere.
type Server struct {
	router *chi.Mux
	store  *FileStore
	logger *slog.Logger
}

func NewServer(store *FileStore, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	s := &Server{
		router: router,
		store:  store,
		logger: logger,
	}

	router.Get("/messages", s.listMessages)
	router.Post("/messages", s.createMessage)
	router.Patch("/messages/{id}", s.patchMessage)
	router.Delete("/messages/{id}", s.deleteMessage)

	return s
}

// Handler returns the mounted routes for use by an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{SessionID: q.Get("sessionID")}

	if raw := q.Get("timestamp_lte"); raw != "" {
		lte, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid timestamp_lte."})
			return
		}
		f.TimestampLTE = &lte
	}
	if q.Get("_sort") == "timestamp" {
		f.SortByTimestamp = true
	}

	msgs, err := s.store.List(f)
	if err != nil {
		s.logger.Error("list messages failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list messages."})
		return
	}
	if q.Get("_order") == "desc" {
		for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
			msgs[i], msgs[j] = msgs[j], msgs[i]
		}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) createMessage(w http.ResponseWriter, r *http.Request) {
	var m message.Message
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid message body."})
		return
	}

	stored, err := s.store.Create(m)
	if err != nil {
		s.logger.Error("create message failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store message."})
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) patchMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid message id."})
		return
	}

	var p message.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid patch body."})
		return
	}

	updated, err := s.store.Update(id, p)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Message not found."})
		return
	}
	if err != nil {
		s.logger.Error("patch message failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update message."})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid message id."})
		return
	}

	err = s.store.Delete(id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Message not found."})
		return
	}
	if err != nil {
		s.logger.Error("delete message failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete message."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
