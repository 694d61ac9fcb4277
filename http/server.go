package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/awalczyk/qbank"
)

// Server wires HTTP handlers to the capture service and question store.
// The userscript is the primary client, so every route allows cross-origin
// requests.
type Server struct {
	router      chi.Router
	captures    qbank.CaptureService
	store       qbank.QuestionStore
	frontendDir string
	log         *slog.Logger
}

// NewServer constructs a Server with middleware and routes. frontendDir
// may be empty to disable static frontend serving.
func NewServer(captures qbank.CaptureService, store qbank.QuestionStore, frontendDir string, log *slog.Logger) *Server {
	s := &Server{
		captures:    captures,
		store:       store,
		frontendDir: frontendDir,
		log:         log,
	}

	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/healthz", s.healthz)

	r.Post("/extract", s.submitCapture)
	r.Get("/extractions", s.listCaptures)
	r.Get("/extractions/{index}", s.getCapture)
	r.Post("/clear", s.clearCaptures)

	r.Get("/questions", s.listQuestions)
	r.Get("/questions/{id}", s.getQuestion)
	r.Post("/questions/{id}/metadata", s.updateQuestionMetadata)

	r.NotFound(s.serveFrontend)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// serveFrontend serves files from the frontend directory, falling back
// to index.html for unknown paths so client-side routing works.
func (s *Server) serveFrontend(w http.ResponseWriter, r *http.Request) {
	if s.frontendDir == "" || r.Method != http.MethodGet {
		if r.Method == http.MethodGet && r.URL.Path == "/" {
			writeJSON(w, http.StatusOK, map[string]string{"service": "qbank capture intake"})
			return
		}
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	path := filepath.Join(s.frontendDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		path = filepath.Join(s.frontendDir, "index.html")
	}
	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("response write failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeErrorFor maps domain error codes onto HTTP statuses. Messages of
// internal errors are not exposed to clients.
func writeErrorFor(w http.ResponseWriter, err error) {
	code := qbank.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeError(w, status, qbank.ErrorMessage(err))
}

var statusByCode = map[string]int{
	qbank.EINVALID:  http.StatusBadRequest,
	qbank.ENOTFOUND: http.StatusNotFound,
	qbank.EINTERNAL: http.StatusInternalServerError,
}
