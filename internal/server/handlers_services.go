package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

// handleMatch scores an uploaded resume against a job description
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if s.deps.Matcher == nil {
		s.fail(w, &ErrUnavailable{Feature: "resume matching"})
		return
	}

	up, err := s.readUpload(w, r, "resume")
	if err != nil {
		s.fail(w, err)
		return
	}
	jobDesc := strings.TrimSpace(r.FormValue("job_desc"))
	if jobDesc == "" {
		s.fail(w, &ErrValidation{Field: "job_desc", Message: "job description is required"})
		return
	}

	result, err := s.deps.Matcher.Match(r.Context(), up.Filename, up.Data, jobDesc)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleTailoredResume returns a resume tailored to a job
func (s *Server) handleTailoredResume(w http.ResponseWriter, r *http.Request) {
	if s.deps.Tailored == nil {
		s.fail(w, &ErrUnavailable{Feature: "tailored resumes"})
		return
	}

	result, err := s.deps.Tailored.TailoredResume(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleListTracker lists job tracker entries
func (s *Server) handleListTracker(w http.ResponseWriter, r *http.Request) {
	if s.deps.Tracker == nil {
		s.fail(w, &ErrUnavailable{Feature: "job tracker"})
		return
	}

	q := r.URL.Query()
	entries, err := s.deps.Tracker.ListTracker(r.Context(), strings.TrimSpace(q.Get("status")), strings.TrimSpace(q.Get("search")))
	if err != nil {
		s.fail(w, err)
		return
	}
	if entries == nil {
		entries = []types.TrackerEntry{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"data": entries})
}

// handleCreateTracker adds a job tracker entry
func (s *Server) handleCreateTracker(w http.ResponseWriter, r *http.Request) {
	if s.deps.Tracker == nil {
		s.fail(w, &ErrUnavailable{Feature: "job tracker"})
		return
	}

	var req types.TrackerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err)
		return
	}

	entry, err := s.deps.Tracker.CreateTracker(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, entry)
}
