package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/job-assistant/internal/dates"
	"github.com/jonathan/job-assistant/internal/editor"
	"github.com/jonathan/job-assistant/internal/rendering"
	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/jonathan/job-assistant/internal/types"
)

// DateIssuesResponse lists every failing date input of a profile.
type DateIssuesResponse struct {
	HasInvalidDates bool                 `json:"has_invalid_dates"`
	InvalidFields   []dates.InvalidField `json:"invalid_fields"`
}

// openSession loads the {id} profile, creating it when missing.
func (s *Server) openSession(r *http.Request) (*editor.Session, error) {
	return editor.Open(r.Context(), s.deps.Profiles, r.PathValue("id"))
}

// withSession runs fn against the {id} profile and writes its outcome.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, status int, fn func(*editor.Session) (*editor.Outcome, error)) {
	session, err := s.openSession(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer session.Close()

	out, err := fn(session)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, status, out)
}

// handleGetProfile returns the user's profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	session, err := s.openSession(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer session.Close()
	s.jsonResponse(w, http.StatusOK, session.Profile())
}

// handleCreateProfile creates a profile from a full document
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	p, err := schemas.DecodeProfile(data)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "profile", Message: err.Error()})
		return
	}
	userID, err := s.actingUser(r, p.UserID)
	if err != nil {
		s.fail(w, err)
		return
	}
	p.UserID = userID

	created, err := s.deps.Profiles.CreateProfile(r.Context(), p)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleUpdateSection replaces one whole section: {"<section>": value}
func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, err)
		return
	}
	if len(body) != 1 {
		s.fail(w, &ErrValidation{Field: "body", Message: "exactly one section must be sent"})
		return
	}

	var section types.Section
	var raw json.RawMessage
	for key, value := range body {
		parsed, err := types.ParseSection(key)
		if err != nil {
			s.fail(w, &ErrValidation{Field: "section", Message: err.Error()})
			return
		}
		section, raw = parsed, value
	}

	s.withSession(w, r, http.StatusOK, func(session *editor.Session) (*editor.Outcome, error) {
		return session.ReplaceSection(r.Context(), section, raw)
	})
}

// handleReplaceResume replaces the whole resume, e.g. after an upload
func (s *Server) handleReplaceResume(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	p, err := schemas.DecodeProfile(data)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "resume", Message: err.Error()})
		return
	}

	s.withSession(w, r, http.StatusOK, func(session *editor.Session) (*editor.Outcome, error) {
		return session.ReplaceFromUpload(r.Context(), p)
	})
}

// handleSetPersonalInfo commits one contact field: {"value": "..."}
func (s *Server) handleSetPersonalInfo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, err)
		return
	}

	s.withSession(w, r, http.StatusOK, func(session *editor.Session) (*editor.Outcome, error) {
		return session.SetPersonalInfo(r.Context(), r.PathValue("field"), body.Value)
	})
}

// handleAddEntry commits a new entry to a list section
func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	section, err := pathSection(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	raw, err := readBody(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.withSession(w, r, http.StatusCreated, func(session *editor.Session) (*editor.Outcome, error) {
		return session.AddEntryJSON(r.Context(), section, raw)
	})
}

// handleUpdateEntry replaces the entry at {index}
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	section, err := pathSection(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	index, err := pathIndex(r, "index")
	if err != nil {
		s.fail(w, err)
		return
	}
	raw, err := readBody(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.withSession(w, r, http.StatusOK, func(session *editor.Session) (*editor.Outcome, error) {
		return session.UpdateEntryJSON(r.Context(), section, index, raw)
	})
}

// handleRemoveEntry deletes the entry at {index}
func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	section, err := pathSection(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	index, err := pathIndex(r, "index")
	if err != nil {
		s.fail(w, err)
		return
	}

	s.withSession(w, r, http.StatusOK, func(session *editor.Session) (*editor.Outcome, error) {
		return session.RemoveEntry(r.Context(), section, index)
	})
}

// handleAddSkill appends a skill: {"skill": "..."}
func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Skill string `json:"skill"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, err)
		return
	}

	s.withSession(w, r, http.StatusCreated, func(session *editor.Session) (*editor.Outcome, error) {
		return session.AddSkill(r.Context(), r.PathValue("category"), body.Skill)
	})
}

// handleRemoveSkill deletes one skill of a category
func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		s.fail(w, err)
		return
	}

	s.withSession(w, r, http.StatusOK, func(session *editor.Session) (*editor.Outcome, error) {
		return session.RemoveSkill(r.Context(), r.PathValue("category"), index)
	})
}

// handleRemoveSkillCategory deletes a whole category
func (s *Server) handleRemoveSkillCategory(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(session *editor.Session) (*editor.Outcome, error) {
		return session.RemoveSkillCategory(r.Context(), r.PathValue("category"))
	})
}

// handleDateIssues lists invalid date inputs for the "fix all" view
func (s *Server) handleDateIssues(w http.ResponseWriter, r *http.Request) {
	session, err := s.openSession(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer session.Close()

	fields := session.InvalidFields()
	if fields == nil {
		fields = []dates.InvalidField{}
	}
	s.jsonResponse(w, http.StatusOK, DateIssuesResponse{
		HasInvalidDates: len(fields) > 0,
		InvalidFields:   fields,
	})
}

// handleExportResume renders the profile as PDF or DOCX
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	format, err := queryFormat(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	session, err := s.openSession(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer session.Close()

	p := session.Profile()
	data, err := rendering.ExportResume(p, format)
	if err != nil {
		s.fail(w, fmt.Errorf("export for %s: %w", p.UserID, err))
		return
	}
	s.writeDocument(w, rendering.Filename(p.PersonalInfo.Name, "Resume", format), format, data)
}
