package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/media"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/orchestrator"
)

func (s *Server) generateLLMResponse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req orchestrator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return
	}

	resp, err := s.orch.Generate(r.Context(), req)
	if err != nil {
		var ve *orchestrator.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Msg})
			return
		}
		var pe *orchestrator.ParseError
		if errors.As(err, &pe) {
			s.logger.Error("model returned malformed JSON", "error", pe.Err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Model reply was not valid JSON. Please retry."})
			return
		}
		s.logger.Error("response generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate response."})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listMediaBasenames(w http.ResponseWriter, r *http.Request) {
	names, err := media.ListBasenames(s.mediaDir)
	if err != nil {
		s.logger.Error("media listing failed", "dir", s.mediaDir, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list MP4 files."})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"basenames": names})
}
