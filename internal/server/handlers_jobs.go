package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/types"
)

// ApplyRequest is the body of POST /api/job/{id}/apply.
type ApplyRequest struct {
	UserID string    `json:"user_id,omitempty"`
	Job    types.Job `json:"job"`
}

// InteractionStatusRequest is the body of PATCH /api/job-interaction/{id}.
type InteractionStatusRequest struct {
	UserID string                  `json:"user_id,omitempty"`
	Status types.InteractionStatus `json:"status"`
}

// InteractionsResponse wraps an interaction list.
type InteractionsResponse struct {
	Data []types.JobInteraction `json:"data"`
}

// searchFilters reads job search filters from the query string.
func searchFilters(r *http.Request) (types.SearchFilters, error) {
	q := r.URL.Query()
	f := types.SearchFilters{
		SearchText: strings.TrimSpace(q.Get("searchText")),
		JobType:    types.JobType(strings.TrimSpace(q.Get("jobType"))),
		Location:   strings.TrimSpace(q.Get("location")),
	}

	if raw := q.Get("datePosted"); raw != "" {
		bucket, err := types.ParseDatePosted(raw)
		if err != nil {
			return f, &ErrValidation{Field: "datePosted", Message: err.Error()}
		}
		f.DatePosted = bucket
	}

	var err error
	if f.Page, err = queryInt(r, "page", 1); err != nil {
		return f, err
	}
	if f.PageSize, err = queryInt(r, "pageSize", types.DefaultPageSize); err != nil {
		return f, err
	}

	for _, id := range strings.Split(q.Get("currentJobIds"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			f.CurrentJobIDs = append(f.CurrentJobIDs, id)
		}
	}

	f.Normalize()
	return f, nil
}

// interactionID parses the {id} path value.
func interactionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid interaction id"}
	}
	return id, nil
}

// handleSearchJobs returns one page of jobs
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	f, err := searchFilters(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	page, err := s.deps.Jobs.SearchJobs(r.Context(), f)
	if err != nil {
		s.fail(w, err)
		return
	}
	if page.Data == nil {
		page.Data = []types.Job{}
	}
	s.jsonResponse(w, http.StatusOK, page)
}

// handleApply records a direct application and returns the job link
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	userID, err := s.actingUser(r, req.UserID)
	if err != nil {
		s.fail(w, err)
		return
	}

	pathID := r.PathValue("id")
	if req.Job.ID == "" {
		req.Job.ID = pathID
	}
	if req.Job.ID != pathID {
		s.fail(w, &ErrValidation{Field: "job.id", Message: "job id does not match the path"})
		return
	}

	res, err := jobs.NewTracker(s.deps.Interactions, userID).DirectApply(r.Context(), req.Job)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

// handleRecordInteraction creates or upgrades an interaction
func (s *Server) handleRecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req types.InteractionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	userID, err := s.actingUser(r, req.UserID)
	if err != nil {
		s.fail(w, err)
		return
	}
	req.UserID = userID

	if err := req.Validate(); err != nil {
		s.fail(w, err)
		return
	}
	if req.Status == "" {
		req.Status = types.StatusClicked
	}

	in, err := s.deps.Interactions.RecordInteraction(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, in)
}

// handleListInteractions lists the user's interactions
func (s *Server) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r, r.URL.Query().Get("userId"))
	if err != nil {
		s.fail(w, err)
		return
	}

	var status types.InteractionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		if status, err = types.ParseInteractionStatus(raw); err != nil {
			s.fail(w, &ErrValidation{Field: "status", Message: err.Error()})
			return
		}
	}

	list, err := jobs.NewTracker(s.deps.Interactions, userID).List(r.Context(), status)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondInteractions(w, list)
}

// handleMoveInteraction changes an interaction's status
func (s *Server) handleMoveInteraction(w http.ResponseWriter, r *http.Request) {
	id, err := interactionID(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	var req InteractionStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	userID, err := s.actingUser(r, req.UserID)
	if err != nil {
		s.fail(w, err)
		return
	}
	to, err := types.ParseInteractionStatus(string(req.Status))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "status", Message: err.Error()})
		return
	}

	list, err := jobs.NewTracker(s.deps.Interactions, userID).Move(r.Context(), id, to)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondInteractions(w, list)
}

// handleDeleteInteraction removes an interaction
func (s *Server) handleDeleteInteraction(w http.ResponseWriter, r *http.Request) {
	id, err := interactionID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	userID, err := s.actingUser(r, r.URL.Query().Get("userId"))
	if err != nil {
		s.fail(w, err)
		return
	}

	list, err := jobs.NewTracker(s.deps.Interactions, userID).Remove(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondInteractions(w, list)
}

func (s *Server) respondInteractions(w http.ResponseWriter, list []types.JobInteraction) {
	if list == nil {
		list = []types.JobInteraction{}
	}
	s.jsonResponse(w, http.StatusOK, InteractionsResponse{Data: list})
}
