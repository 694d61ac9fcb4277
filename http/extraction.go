package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/awalczyk/qbank"
)

// submitCapture runs one capture through the pipeline. Persistence
// failures are reported inside the outcome body, not as an HTTP error.
func (s *Server) submitCapture(w http.ResponseWriter, r *http.Request) {
	var capture qbank.Capture
	if err := json.NewDecoder(r.Body).Decode(&capture); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	outcome, err := s.captures.Submit(r.Context(), &capture)
	if err != nil {
		s.log.Error("capture submission failed", "url", capture.URL, "error", err)
		writeErrorFor(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) listCaptures(w http.ResponseWriter, _ *http.Request) {
	summaries := s.captures.Captures()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(summaries),
		"extractions": summaries,
	})
}

func (s *Server) getCapture(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid extraction index")
		return
	}

	capture, err := s.captures.Capture(index)
	if err != nil {
		writeErrorFor(w, err)
		return
	}

	writeJSON(w, http.StatusOK, capture)
}

func (s *Server) clearCaptures(w http.ResponseWriter, _ *http.Request) {
	s.captures.ClearCaptures()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
