// Package server exposes stored run reports over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/store"
)

// Server represents the HTTP server
type Server struct {
	store   store.Store
	dataDir string
	suite   *harness.Suite
	addr    string
	server  *http.Server
}

// NewServer creates a server for the reports under dataDir. suite lists the
// registered tests reported by /api/v1/tests.
func NewServer(addr, dataDir string, st store.Store, suite *harness.Suite) *Server {
	s := &Server{
		store:   st,
		dataDir: dataDir,
		suite:   suite,
		addr:    addr,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/tests", s.handleTests)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunsWithID)
	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type testInfo struct {
	Name   string `json:"name"`
	Family string `json:"family"`
}

// handleTests handles GET /api/v1/tests
func (s *Server) handleTests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tests := []testInfo{}
	if s.suite != nil {
		for _, t := range s.suite.Tests() {
			tests = append(tests, testInfo{Name: t.Name, Family: t.Family})
		}
	}
	writeJSON(w, http.StatusOK, tests)
}

// handleRuns handles GET /api/v1/runs
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	infos, err := s.store.ListReports()
	if err != nil {
		slog.Error("Failed to list reports", "error", err)
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// handleRunsWithID handles /api/v1/runs/:id and /api/v1/runs/:id/trace
func (s *Server) handleRunsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Run ID required", http.StatusBadRequest)
		return
	}
	runID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.handleGetRun(w, r, runID)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.handleDeleteRun(w, r, runID)
	case len(parts) == 2 && parts[1] == "trace" && r.Method == http.MethodGet:
		s.handleGetTrace(w, r, runID)
	case len(parts) <= 2:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleGetRun handles GET /api/v1/runs/:id
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request, runID string) {
	report, err := s.store.LoadReport(runID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleDeleteRun handles DELETE /api/v1/runs/:id
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request, runID string) {
	if err := s.store.DeleteReport(runID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetTrace handles GET /api/v1/runs/:id/trace. With ?failed=true
// only failing entries are returned.
func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request, runID string) {
	tr, err := store.NewTraceReader(s.dataDir, runID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	defer tr.Close()

	entries, err := tr.ReadAll()
	if err != nil {
		slog.Error("Failed to read trace", "run_id", runID, "error", err)
		http.Error(w, "Failed to read trace", http.StatusInternalServerError)
		return
	}

	onlyFailed := r.URL.Query().Get("failed") == "true"
	out := make([]store.TraceEntry, 0, len(entries))
	for _, e := range entries {
		if onlyFailed && e.Pass {
			continue
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	slog.Error("Store request failed", "error", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
