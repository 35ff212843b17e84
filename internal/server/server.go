// Package server provides the HTTP REST API for the recruitment pipeline.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jordanmv/recruitflow/internal/mail"
	"github.com/jordanmv/recruitflow/internal/pipeline"
	"github.com/jordanmv/recruitflow/internal/store"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	controller *pipeline.Controller
	candidates store.CandidateStore
	offers     store.OfferStore
	runs       *store.Postgres
	mailer     mail.Mailer
	defaults   RunDefaults
	validator  *validator.Validate
}

// RunDefaults fill request fields the caller leaves empty.
type RunDefaults struct {
	MaxIterations   int
	MinDocuments    int
	MaxRetries      int
	WaitSeconds     int
	CandidateTarget int
	SlotMinutes     int
	Company         string
	ApplyURL        string
}

// Config holds server configuration
type Config struct {
	Port     int
	Defaults RunDefaults
}

// Deps are the collaborators handlers need. Runs is optional; without it
// the run-artifact endpoint reports the history store as unconfigured.
type Deps struct {
	Controller *pipeline.Controller
	Candidates store.CandidateStore
	Offers     store.OfferStore
	Runs       *store.Postgres
	Mailer     mail.Mailer
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Controller == nil {
		return nil, fmt.Errorf("run controller is required")
	}
	if deps.Candidates == nil {
		return nil, fmt.Errorf("candidate store is required")
	}

	s := &Server{
		controller: deps.Controller,
		candidates: deps.Candidates,
		offers:     deps.Offers,
		runs:       deps.Runs,
		mailer:     deps.Mailer,
		defaults:   cfg.Defaults,
		validator:  validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /runs", s.handleCreateRun)
	mux.HandleFunc("POST /runs/stream", s.handleCreateRunStream)
	mux.HandleFunc("GET /runs/{id}/artifacts/{step}", s.handleGetRunArtifact)
	mux.HandleFunc("POST /offers", s.handleCreateOffers)
	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("GET /offers", s.handleListOffers)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3600 * time.Second, // A run waits out the collection loop
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
