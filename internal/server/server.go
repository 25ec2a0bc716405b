// Package server provides the HTTP API for the job assistant.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-assistant/internal/editor"
	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/server/middleware"
	"github.com/jonathan/job-assistant/internal/server/ratelimit"
	"github.com/jonathan/job-assistant/internal/types"
)

// TrackerStore lists and creates job tracker entries.
type TrackerStore interface {
	ListTracker(ctx context.Context, status, search string) ([]types.TrackerEntry, error)
	CreateTracker(ctx context.Context, req types.TrackerRequest) (*types.TrackerEntry, error)
}

// Matcher scores a resume file against a job description.
type Matcher interface {
	Match(ctx context.Context, filename string, resume []byte, jobDesc string) (*types.MatchResult, error)
}

// TailoredResumes fetches resumes rewritten for a job.
type TailoredResumes interface {
	TailoredResume(ctx context.Context, resumeID string) (*types.TailoredResume, error)
}

// Deps are the collaborators behind the HTTP handlers. Optional ones may
// be nil; their routes then answer 503.
type Deps struct {
	Profiles     editor.Store
	Jobs         jobs.Searcher
	Interactions jobs.InteractionStore
	Tracker      TrackerStore
	Matcher      Matcher
	Tailored     TailoredResumes
	Parser       ingestion.ResumeParser
	CoverLetters jobs.Generator

	// Tokens verifies session tokens. Nil disables authentication.
	Tokens middleware.TokenValidator
	// Close releases resources held by the collaborators.
	Close func()
}

// Config holds server configuration
type Config struct {
	Port           int
	MaxUploadBytes int64
	RateLimit      *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	deps        Deps
	uploader    *ingestion.Uploader
	coverLetter *jobs.CoverLetters
	maxUpload   int64
	rateLimiter *ratelimit.Limiter
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Profiles == nil {
		return nil, fmt.Errorf("a profile store is required")
	}
	if deps.Jobs == nil || deps.Interactions == nil {
		return nil, fmt.Errorf("a job searcher and interaction store are required")
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = ingestion.DefaultMaxBytes
	}

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}

	s := &Server{
		deps:        deps,
		uploader:    &ingestion.Uploader{Parser: deps.Parser, MaxBytes: int(maxUpload)},
		coverLetter: &jobs.CoverLetters{Generator: deps.CoverLetters},
		maxUpload:   maxUpload,
		rateLimiter: ratelimit.NewLimiter(rlConfig),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // parsing and generation are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Profile endpoints; the caller must own {id}
	s.profileRoute(mux, "GET /profiles/clerk/{id}", s.handleGetProfile)
	s.route(mux, "POST /profiles", s.handleCreateProfile)
	s.profileRoute(mux, "PUT /profiles/clerk/{id}", s.handleUpdateSection)
	s.profileRoute(mux, "PATCH /profiles/clerk/{id}/resume", s.handleReplaceResume)
	s.profileRoute(mux, "PUT /profiles/clerk/{id}/personal-info/{field}", s.handleSetPersonalInfo)
	s.profileRoute(mux, "POST /profiles/clerk/{id}/{section}", s.handleAddEntry)
	s.profileRoute(mux, "PUT /profiles/clerk/{id}/{section}/{index}", s.handleUpdateEntry)
	s.profileRoute(mux, "DELETE /profiles/clerk/{id}/{section}/{index}", s.handleRemoveEntry)
	s.profileRoute(mux, "POST /profiles/clerk/{id}/skills/{category}", s.handleAddSkill)
	s.profileRoute(mux, "DELETE /profiles/clerk/{id}/skills/{category}", s.handleRemoveSkillCategory)
	s.profileRoute(mux, "DELETE /profiles/clerk/{id}/skills/{category}/{index}", s.handleRemoveSkill)
	s.profileRoute(mux, "GET /profiles/clerk/{id}/date-issues", s.handleDateIssues)
	s.profileRoute(mux, "GET /profiles/clerk/{id}/export", s.handleExportResume)

	// Upload and documents
	s.route(mux, "POST /resume/parse", s.handleParseResume)
	s.route(mux, "POST /cover-letter/export", s.handleExportCoverLetter)
	s.route(mux, "POST /cover-letter/generate", s.handleGenerateCoverLetter)

	// Job browser and interactions
	s.route(mux, "GET /api/job", s.handleSearchJobs)
	s.route(mux, "POST /api/job/{id}/apply", s.handleApply)
	s.route(mux, "POST /api/job-interaction", s.handleRecordInteraction)
	s.route(mux, "GET /api/job-interactions", s.handleListInteractions)
	s.route(mux, "PATCH /api/job-interaction/{id}", s.handleMoveInteraction)
	s.route(mux, "DELETE /api/job-interaction/{id}", s.handleDeleteInteraction)

	// Resume services
	s.route(mux, "POST /match", s.handleMatch)
	s.route(mux, "GET /api/v1/resume/tailored-resume/{id}", s.handleTailoredResume)
	s.route(mux, "GET /api/v1/job-tracker", s.handleListTracker)
	s.route(mux, "POST /api/v1/job-tracker", s.handleCreateTracker)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// route registers a handler behind authentication when it is enabled.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if s.deps.Tokens == nil {
		mux.Handle(pattern, h)
		return
	}
	mux.Handle(pattern, middleware.AuthMiddleware(s.deps.Tokens)(h))
}

// profileRoute is route plus an ownership check on {id}.
func (s *Server) profileRoute(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if s.deps.Tokens == nil {
		mux.Handle(pattern, h)
		return
	}
	mux.Handle(pattern, middleware.AuthMiddleware(s.deps.Tokens)(middleware.RequireUser("id", h)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()
	if s.deps.Close != nil {
		s.deps.Close()
	}
	log.Println("Server stopped")
	return err
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
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

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
