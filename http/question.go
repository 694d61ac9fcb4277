package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/awalczyk/qbank"
)

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	tx, err := s.store.Begin(r.Context())
	if err != nil {
		s.log.Error("question listing failed", "error", err)
		writeErrorFor(w, err)
		return
	}
	defer tx.Rollback()

	summaries, err := tx.QuestionSummaries(r.Context())
	if err != nil {
		s.log.Error("question listing failed", "error", err)
		writeErrorFor(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(summaries),
		"questions": summaries,
	})
}

// questionResponse is the question detail payload: the row plus its
// media records.
type questionResponse struct {
	*qbank.Question
	Media []*qbank.Media `json:"media"`
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tx, err := s.store.Begin(r.Context())
	if err != nil {
		s.log.Error("question lookup failed", "id", id, "error", err)
		writeErrorFor(w, err)
		return
	}
	defer tx.Rollback()

	question, err := tx.QuestionByID(r.Context(), id)
	if err != nil {
		writeErrorFor(w, err)
		return
	}

	media, err := tx.MediaByQuestion(r.Context(), id)
	if err != nil {
		s.log.Error("question media lookup failed", "id", id, "error", err)
		writeErrorFor(w, err)
		return
	}

	writeJSON(w, http.StatusOK, questionResponse{Question: question, Media: media})
}

// metadataUpdateRequest carries a post-capture metadata update. Tags may
// arrive as a string or a list of strings.
type metadataUpdateRequest struct {
	Tags  any     `json:"tags"`
	State *string `json:"state"`
}

func (s *Server) updateQuestionMetadata(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req metadataUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	upd := qbank.QuestionUpdate{State: req.State}
	if req.Tags != nil {
		tags, err := qbank.NormalizeTags(req.Tags)
		if err != nil {
			writeErrorFor(w, err)
			return
		}
		upd.Tags = &tags
	}

	tx, err := s.store.Begin(r.Context())
	if err != nil {
		s.log.Error("question update failed", "id", id, "error", err)
		writeErrorFor(w, err)
		return
	}
	defer tx.Rollback()

	question, err := tx.UpdateQuestion(r.Context(), id, upd)
	if err != nil {
		writeErrorFor(w, err)
		return
	}

	if err := tx.Commit(); err != nil {
		s.log.Error("question update failed", "id", id, "error", err)
		writeErrorFor(w, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}
