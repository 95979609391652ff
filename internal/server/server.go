// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes projects, articles, and background task status over
// HTTP. Long runs are handed to a jobs.Queue and polled by task id.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/jobs"
	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
	"github.com/fynix-gaurav/seo-ai-agent/internal/store"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// Store is the persistence the handlers read and write directly.
type Store interface {
	CreateProject(ctx context.Context, p types.Project) (types.Project, error)
	GetArticle(ctx context.Context, id int64) (types.Article, error)
	ArticleForProject(ctx context.Context, projectID int64) (types.Article, error)
}

// Runs starts the two background operations.
type Runs interface {
	RunProject(ctx context.Context, projectID int64) (types.Outline, error)
	RunArticleGeneration(ctx context.Context, articleID int64) (types.Draft, error)
}

// Server holds the handler dependencies.
type Server struct {
	store  Store
	runs   Runs
	queue  *jobs.Queue
	logger *logging.Logger
}

// New returns a Server.
func New(s Store, runs Runs, queue *jobs.Queue, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Server{store: s, runs: runs, queue: queue, logger: logger}
}

// Routes returns the API handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /projects/{$}", s.handleProjectCreate)
	mux.HandleFunc("GET /tasks/{id}", s.handleTask)
	mux.HandleFunc("GET /projects/{id}/article", s.handleProjectArticle)
	mux.HandleFunc("POST /articles/{id}/generate", s.handleArticleGenerate)
	return s.logMiddleware(mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Welcome to the SEO AI AGENT API"})
}

type projectCreateReq struct {
	Name           string   `json:"name"`
	Keyword        string   `json:"keyword"`
	BaseURL        string   `json:"base_url"`
	Genre          string   `json:"genre"`
	Location       string   `json:"location"`
	ManualKeywords []string `json:"manual_keywords"`
}

func (r projectCreateReq) validate() error {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Keyword) == "" {
		missing = append(missing, "keyword")
	}
	if strings.TrimSpace(r.BaseURL) == "" {
		missing = append(missing, "base_url")
	}
	if len(missing) > 0 {
		return errors.New("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

type projectCreateResp struct {
	types.Project
	TaskID string `json:"task_id"`
}

func (s *Server) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req projectCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := s.store.CreateProject(r.Context(), types.Project{
		Name:           strings.TrimSpace(req.Name),
		Keyword:        strings.TrimSpace(req.Keyword),
		BaseURL:        strings.TrimSpace(req.BaseURL),
		Genre:          req.Genre,
		Location:       req.Location,
		ManualKeywords: req.ManualKeywords,
	})
	if err != nil {
		s.logger.Error("creating project", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create project")
		return
	}

	projectID := p.ID
	taskID := s.queue.Submit("outline", func(ctx context.Context) (any, error) {
		o, err := s.runs.RunProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"status": "SUCCESS", "outline_h1": o.Title}, nil
	})
	writeJSON(w, http.StatusOK, projectCreateResp{Project: p, TaskID: taskID})
}

type taskResp struct {
	TaskID     string          `json:"task_id"`
	TaskStatus jobs.TaskStatus `json:"task_status"`
	TaskResult any             `json:"task_result"`
}

// handleTask reports unknown ids as PENDING, the same answer a result
// backend gives for a task it has not seen yet.
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, ok := s.queue.Get(id)
	if !ok {
		writeJSON(w, http.StatusOK, taskResp{TaskID: id, TaskStatus: jobs.TaskPending})
		return
	}
	resp := taskResp{TaskID: id, TaskStatus: task.Status}
	switch task.Status {
	case jobs.TaskSuccess:
		resp.TaskResult = task.Result
	case jobs.TaskFailure:
		resp.TaskResult = task.Error
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProjectArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := s.store.ArticleForProject(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Article not found for this project.")
		return
	}
	if err != nil {
		s.logger.Error("loading article", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load article")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleArticleGenerate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetArticle(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Article not found.")
			return
		}
		s.logger.Error("loading article", "article_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load article")
		return
	}

	taskID := s.queue.Submit("article", func(ctx context.Context) (any, error) {
		d, err := s.runs.RunArticleGeneration(ctx, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"status": "SUCCESS", "article_id": id, "sections": len(d.Sections)}, nil
	})
	writeJSON(w, http.StatusOK, map[string]string{"task_id": taskID, "message": "Article generation process started."})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(start))
	})
}
