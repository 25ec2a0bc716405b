package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/job-assistant/internal/editor"
	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/rendering"
	"github.com/jonathan/job-assistant/internal/types"
)

// multipartOverhead is the slack allowed above the file limit for the
// multipart envelope and its other fields.
const multipartOverhead = 1 << 20

// ParseResponse is returned by POST /resume/parse.
type ParseResponse struct {
	Profile  *types.ResumeProfile `json:"profile"`
	Metadata *ingestion.Metadata  `json:"metadata"`
	Saved    bool                 `json:"saved"`
}

// CoverLetterExportRequest is the body of POST /cover-letter/export.
type CoverLetterExportRequest struct {
	Text string `json:"text"`
	Name string `json:"name,omitempty"`
}

// readUpload reads one multipart file field into an Upload.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (ingestion.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUpload + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ingestion.Upload{}, &ingestion.UploadError{
				Kind:    ingestion.ErrTooLarge,
				Message: fmt.Sprintf("File is too large (max %d MB).", s.maxUpload>>20),
			}
		}
		return ingestion.Upload{}, &ErrValidation{Field: field, Message: "expected a multipart form upload"}
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return ingestion.Upload{}, &ErrValidation{Field: field, Message: "no file was uploaded"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ingestion.Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = ingestion.MIMETypeFromFilename(header.Filename)
	}
	return ingestion.Upload{Filename: header.Filename, MIMEType: mimeType, Data: data}, nil
}

// handleParseResume extracts and parses an uploaded resume. When a
// user_id form field is sent the parsed resume also replaces that
// user's profile.
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r, "file")
	if err != nil {
		s.fail(w, err)
		return
	}

	result, err := s.uploader.Parse(r.Context(), up)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := ParseResponse{Profile: result.Profile, Metadata: result.Metadata}

	explicit := strings.TrimSpace(r.FormValue("user_id"))
	if explicit != "" || s.deps.Tokens != nil {
		userID, err := s.actingUser(r, explicit)
		if err != nil {
			s.fail(w, err)
			return
		}
		out, err := s.saveParsed(r, userID, result.Profile)
		if err != nil {
			s.fail(w, err)
			return
		}
		resp.Profile = out.Profile
		resp.Saved = true
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// saveParsed replaces userID's resume with a parsed upload.
func (s *Server) saveParsed(r *http.Request, userID string, parsed *types.ResumeProfile) (*editor.Outcome, error) {
	session, err := editor.Open(r.Context(), s.deps.Profiles, userID)
	if err != nil {
		return nil, err
	}
	defer session.Close()
	return session.ReplaceFromUpload(r.Context(), parsed)
}

// handleExportCoverLetter renders cover-letter text as PDF or DOCX
func (s *Server) handleExportCoverLetter(w http.ResponseWriter, r *http.Request) {
	format, err := queryFormat(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	var req CoverLetterExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.fail(w, &ErrValidation{Field: "text", Message: "cover letter text is required"})
		return
	}

	data, err := rendering.ExportCoverLetter(req.Text, format)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeDocument(w, rendering.Filename(req.Name, "Cover_Letter", format), format, data)
}

// handleGenerateCoverLetter writes a cover letter for a job
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	if s.deps.CoverLetters == nil {
		s.fail(w, &ErrUnavailable{Feature: "cover letter generation"})
		return
	}

	var req types.CoverLetterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	letter, err := s.coverLetter.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"cover_letter": letter})
}
