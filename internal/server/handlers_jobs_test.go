package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/types"
)

func TestHandleSearchJobs(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/api/job?pageSize=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decodeBody[types.JobPage](t, w)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "job-1", page.Data[0].ID)
	assert.True(t, page.HasMore)

	w = do(t, h, http.MethodGet, "/api/job?pageSize=2&currentJobIds=job-1,job-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decodeBody[types.JobPage](t, w)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "job-3", page.Data[0].ID)
	assert.False(t, page.HasMore)
}

func TestHandleSearchJobs_Filters(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"search text", "searchText=engineer", []string{"job-1", "job-2"}},
		{"job type", "jobType=internship", []string{"job-3"}},
		{"location", "location=berlin", []string{"job-2"}},
		{"date posted", "datePosted=24h", []string{"job-1", "job-2"}},
		{"no match", "searchText=astronaut", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/api/job?"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			page := decodeBody[types.JobPage](t, w)
			ids := []string{}
			for _, j := range page.Data {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestHandleSearchJobs_BadParams(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	for _, q := range []string{"page=two", "pageSize=x", "datePosted=last_decade"} {
		w := do(t, h, http.MethodGet, "/api/job?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestInteractions_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodPost, "/api/job-interaction", types.InteractionRequest{
		UserID: "user_1", JobID: "job-1", Title: "Backend Engineer", Company: "Acme",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	in := decodeBody[types.JobInteraction](t, w)
	assert.Equal(t, types.StatusClicked, in.Status)

	w = do(t, h, http.MethodGet, "/api/job-interactions?userId=user_1&status=clicked", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[InteractionsResponse](t, w)
	require.Len(t, list.Data, 1)

	path := "/api/job-interaction/" + in.InteractionID.String()
	w = do(t, h, http.MethodPatch, path, InteractionStatusRequest{UserID: "user_1", Status: types.StatusUnderConsideration})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list = decodeBody[InteractionsResponse](t, w)
	assert.Equal(t, types.StatusUnderConsideration, list.Data[0].Status)

	w = do(t, h, http.MethodPatch, path, InteractionStatusRequest{UserID: "user_1", Status: types.StatusApplied})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodPatch, path, InteractionStatusRequest{UserID: "user_1", Status: types.StatusClicked})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodDelete, path+"?userId=user_1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list = decodeBody[InteractionsResponse](t, w)
	assert.Empty(t, list.Data)

	w = do(t, h, http.MethodDelete, path+"?userId=user_1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordInteraction_NeverDowngrades(t *testing.T) {
	store := jobs.NewMemoryInteractions()
	s := newTestServer(t, func(d *Deps) { d.Interactions = store })
	h := s.Handler()

	do(t, h, http.MethodPost, "/api/job-interaction", types.InteractionRequest{UserID: "user_1", JobID: "job-1", Status: types.StatusApplied})
	w := do(t, h, http.MethodPost, "/api/job-interaction", types.InteractionRequest{UserID: "user_1", JobID: "job-1"})

	require.Equal(t, http.StatusCreated, w.Code)
	in := decodeBody[types.JobInteraction](t, w)
	assert.Equal(t, types.StatusApplied, in.Status)

	list, err := store.ListInteractions(context.Background(), "user_1", "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecordInteraction_Invalid(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name string
		req  types.InteractionRequest
	}{
		{"missing user", types.InteractionRequest{JobID: "job-1"}},
		{"missing job", types.InteractionRequest{UserID: "user_1"}},
		{"bad status", types.InteractionRequest{UserID: "user_1", JobID: "job-1", Status: "hired"}},
		{"bad link", types.InteractionRequest{UserID: "user_1", JobID: "job-1", Link: "not a url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/job-interaction", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestInteractions_BadInput(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodPatch, "/api/job-interaction/not-a-uuid", InteractionStatusRequest{UserID: "user_1", Status: types.StatusApplied})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/job-interactions?userId=user_1&status=hired", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/job-interactions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPatch, "/api/job-interaction/00000000-0000-0000-0000-000000000001",
		InteractionStatusRequest{UserID: "user_1", Status: types.StatusApplied})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleApply(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	job := sampleJobs()[0]
	w := do(t, h, http.MethodPost, "/api/job/job-1/apply", ApplyRequest{UserID: "user_1", Job: job})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[jobs.ApplyResult](t, w)
	assert.Equal(t, job.Link, res.Link)
	assert.True(t, res.Recorded)
	require.Len(t, res.Interactions, 1)
	assert.Equal(t, types.StatusApplied, res.Interactions[0].Status)
}

func TestHandleApply_Errors(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	noLink := sampleJobs()[2]
	w := do(t, h, http.MethodPost, "/api/job/job-3/apply", ApplyRequest{UserID: "user_1", Job: noLink})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/job/job-2/apply", ApplyRequest{UserID: "user_1", Job: sampleJobs()[0]})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobRoutes_UseTokenSubject(t *testing.T) {
	jwtService := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	s := newTestServer(t, func(d *Deps) {
		d.Tokens = jwtService.AsTokenValidator()
	})
	h := s.Handler()

	token, err := jwtService.GenerateToken("user_1")
	require.NoError(t, err)
	auth := []string{"Authorization", "Bearer " + token}

	w := do(t, h, http.MethodPost, "/api/job-interaction", types.InteractionRequest{JobID: "job-1"}, auth...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	in := decodeBody[types.JobInteraction](t, w)
	assert.Equal(t, "user_1", in.UserID)

	w = do(t, h, http.MethodGet, "/api/job-interactions?userId=user_2", nil, auth...)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodGet, "/api/job-interactions", nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[InteractionsResponse](t, w)
	assert.Len(t, list.Data, 1)

	w = do(t, h, http.MethodGet, "/api/job", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
