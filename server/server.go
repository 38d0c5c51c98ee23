// Package server exposes the aggregation pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/suqingyao/oawesome/logger"
	"github.com/suqingyao/oawesome/models"
)

// AggregatorInterface abstracts the service operations needed by the HTTP handlers
// (for testability)
type AggregatorInterface interface {
	GetRepository(ctx context.Context, owner, name string) (*models.Library, error)
	GetBatch(ctx context.Context, refs []models.RepoRef) *models.BatchResult
	GetCatalog(ctx context.Context) *models.CatalogResult
}

// Server is the HTTP front of the aggregation pipeline.
type Server struct {
	aggregator AggregatorInterface
	httpServer *http.Server
}

// NewServer creates a server listening on addr, routing the three API
// endpoints to the given aggregator.
func NewServer(addr string, aggregator AggregatorInterface) *Server {
	s := &Server{aggregator: aggregator}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/api/repository/{owner}/{repo}", s.handleRepository)
	r.Post("/api/repositories/batch", s.handleBatch)
	r.Get("/api/catalog", s.handleCatalog)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Handler returns the configured router (exported for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleRepository(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")

	lib, err := s.aggregator.GetRepository(r.Context(), owner, repo)
	if err != nil {
		logger.Error("Repository lookup failed",
			zap.Error(err),
			zap.String("owner", owner),
			zap.String("repo", repo))
		writeError(w, http.StatusInternalServerError, "Failed to fetch repository data")
		return
	}
	writeJSON(w, http.StatusOK, lib)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	// The pointer distinguishes a missing or non-array "repositories"
	// field from an empty list; only the former is rejected.
	var req struct {
		Repositories *[]models.RepoRef `json:"repositories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Repositories == nil {
		writeError(w, http.StatusBadRequest, "Invalid repositories array")
		return
	}

	result := s.aggregator.GetBatch(r.Context(), *req.Repositories)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	result := s.aggregator.GetCatalog(r.Context())
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
