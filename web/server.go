// Package web serves the transform operation over a localhost HTTP API; it
// has no auth and is meant for a single local user.
package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"traininghours/storage"
	"traininghours/transform"
)

type Transformer interface {
	Run(ctx context.Context, src, dest string) transform.Result
}

type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]storage.Run, error)
}

type Server struct {
	transformer Transformer
	runs        RunLister
	router      chi.Router
}

type transformRequest struct {
	SrcPath  string `json:"src_path"`
	DestPath string `json:"dest_path"`
}

type runView struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Source       string    `json:"source"`
	Destination  string    `json:"destination"`
	Status       string    `json:"status"`
	RowCount     int       `json:"num_rows"`
	WarningCount int       `json:"num_warnings"`
	Error        string    `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer wires the API routes. runs may be nil when the run journal is
// disabled; metrics may be nil to skip /metrics.
func NewServer(transformer Transformer, runs RunLister, metrics http.Handler) http.Handler {
	s := &Server{transformer: transformer, runs: runs}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/transform", s.handleTransform)
		r.Get("/runs", s.handleRuns)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.SrcPath) == "" || strings.TrimSpace(req.DestPath) == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "src_path and dest_path are required"})
		return
	}

	result := s.transformer.Run(r.Context(), req.SrcPath, req.DestPath)
	render.JSON(w, r, result)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	views := make([]runView, 0)
	if s.runs != nil {
		runs, err := s.runs.ListRuns(r.Context(), limit)
		if err != nil {
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{Error: err.Error()})
			return
		}
		for _, run := range runs {
			views = append(views, runView{
				ID:           run.ID,
				StartedAt:    run.StartedAt,
				Source:       run.Source,
				Destination:  run.Destination,
				Status:       run.Status,
				RowCount:     run.RowCount,
				WarningCount: run.WarningCount,
				Error:        run.Error,
			})
		}
	}
	render.JSON(w, r, views)
}
