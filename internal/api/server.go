// Package api serves a read-only ops surface: health, metrics and the
// latest persisted snapshots.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

type snapshotStore interface {
	ListActiveProducts(ctx context.Context) ([]models.ProductTarget, error)
	LatestSnapshots(ctx context.Context) ([]models.Snapshot, error)
}

type Server struct {
	store  snapshotStore
	logger *slog.Logger
	http   *http.Server
}

func NewServer(addr string, store snapshotStore) *Server {
	s := &Server{
		store:  store,
		logger: slog.Default().With("component", "api"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", s.handleProducts)
		r.Get("/snapshots/latest", s.handleLatestSnapshots)
	})

	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()

	s.logger.Info("ops server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("ops server failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListActiveProducts(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleLatestSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.store.LatestSnapshots(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load snapshots")
		return
	}
	s.respondJSON(w, http.StatusOK, snapshots)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
