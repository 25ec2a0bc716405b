package server

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/editor"
	"github.com/jonathan/job-assistant/internal/types"
)

func TestHandleGetProfile_CreatesEmptyProfile(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s.Handler(), http.MethodGet, "/profiles/clerk/user_1", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := decodeBody[types.ResumeProfile](t, w)
	assert.Equal(t, "user_1", p.UserID)
	assert.NotEmpty(t, p.ID)
	assert.Empty(t, p.Education)
	assert.NotNil(t, p.Skills)
}

func TestHandleCreateProfile(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	body := `{"userId":"user_1","personalInfo":{"name":"Ada Lovelace","email":"ada@example.com"},` +
		`"workExperience":[{"company":"Analytical Engines","jobTitle":"Programmer"}]}`
	w := do(t, h, http.MethodPost, "/profiles", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decodeBody[types.ResumeProfile](t, w)
	assert.Equal(t, "Ada Lovelace", p.PersonalInfo.Name)
	require.Len(t, p.WorkExperience, 1)

	w = do(t, h, http.MethodGet, "/profiles/clerk/user_1", nil)
	got := decodeBody[types.ResumeProfile](t, w)
	assert.Equal(t, "Analytical Engines", got.WorkExperience[0].Company)
}

func TestHandleCreateProfile_Invalid(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing personalInfo", `{"userId":"user_1"}`},
		{"missing user", `{"personalInfo":{"name":"Ada"}}`},
		{"not json", `{"personalInfo":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/profiles", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHandleUpdateSection(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodPut, "/profiles/clerk/user_1",
		`{"languages":[{"name":"French","proficiencyLevel":"Professional"}]}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeBody[editor.Outcome](t, w)
	assert.Equal(t, types.SectionLanguages, out.Section)
	assert.True(t, out.Notify)
	require.Len(t, out.Profile.Languages, 1)
	assert.Equal(t, "French", out.Profile.Languages[0].Name)
}

func TestHandleUpdateSection_Rejects(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name string
		body string
	}{
		{"two sections", `{"summary":"a","languages":[]}`},
		{"no section", `{}`},
		{"unknown section", `{"hobbies":["chess"]}`},
		{"wrong shape", `{"education":{"schoolName":"MIT"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPut, "/profiles/clerk/user_1", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHandleSetPersonalInfo(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodPut, "/profiles/clerk/user_1/personal-info/email", map[string]string{"value": " ada@example.com "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeBody[editor.Outcome](t, w)
	assert.Equal(t, "ada@example.com", out.Profile.PersonalInfo.Email)

	w = do(t, h, http.MethodPut, "/profiles/clerk/user_1/personal-info/twitter", map[string]string{"value": "@ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEntries_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodPost, "/profiles/clerk/user_1/work-experience",
		`{"company":"Acme","jobTitle":"Engineer","dates":{"startDate":"2020-01-01","isCurrent":true}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decodeBody[editor.Outcome](t, w)
	assert.Equal(t, types.SectionWorkExperience, out.Section)
	require.Len(t, out.Profile.WorkExperience, 1)

	w = do(t, h, http.MethodPut, "/profiles/clerk/user_1/workExperience/0",
		`{"company":"Acme Corp","jobTitle":"Senior Engineer","dates":{"startDate":"2020-01-01","isCurrent":true}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out = decodeBody[editor.Outcome](t, w)
	assert.Equal(t, "Acme Corp", out.Profile.WorkExperience[0].Company)

	w = do(t, h, http.MethodDelete, "/profiles/clerk/user_1/work-experience/0", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out = decodeBody[editor.Outcome](t, w)
	assert.Empty(t, out.Profile.WorkExperience)
}

func TestHandleEntries_Errors(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		expected int
	}{
		{"missing required field", http.MethodPost, "/profiles/clerk/user_1/education", `{"degree":"BSc"}`, http.StatusBadRequest},
		{"not a list section", http.MethodPost, "/profiles/clerk/user_1/summary", `{"text":"hi"}`, http.StatusBadRequest},
		{"unknown section", http.MethodPost, "/profiles/clerk/user_1/hobbies", `{"name":"chess"}`, http.StatusBadRequest},
		{"update out of range", http.MethodPut, "/profiles/clerk/user_1/projects/4", `{"name":"Compiler"}`, http.StatusNotFound},
		{"remove out of range", http.MethodDelete, "/profiles/clerk/user_1/projects/0", nil, http.StatusNotFound},
		{"bad index", http.MethodDelete, "/profiles/clerk/user_1/projects/first", nil, http.StatusBadRequest},
		{"bad language level", http.MethodPost, "/profiles/clerk/user_1/languages", `{"name":"French","proficiencyLevel":"Fluent"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expected, w.Code, w.Body.String())
		})
	}
}

func TestHandleSkills(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodPost, "/profiles/clerk/user_1/skills/Languages", map[string]string{"skill": "Go"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decodeBody[editor.Outcome](t, w)
	assert.False(t, out.Notify)
	assert.Equal(t, []string{"Go"}, out.Profile.Skills["Languages"])

	do(t, h, http.MethodPost, "/profiles/clerk/user_1/skills/Languages", map[string]string{"skill": "Rust"})

	w = do(t, h, http.MethodDelete, "/profiles/clerk/user_1/skills/Languages/0", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out = decodeBody[editor.Outcome](t, w)
	assert.Equal(t, []string{"Rust"}, out.Profile.Skills["Languages"])

	w = do(t, h, http.MethodDelete, "/profiles/clerk/user_1/skills/Languages", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out = decodeBody[editor.Outcome](t, w)
	assert.NotContains(t, out.Profile.Skills, "Languages")

	w = do(t, h, http.MethodDelete, "/profiles/clerk/user_1/skills/Languages", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/profiles/clerk/user_1/skills/Tools", map[string]string{"skill": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDateIssues(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/profiles/clerk/user_1/date-issues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	clean := decodeBody[DateIssuesResponse](t, w)
	assert.False(t, clean.HasInvalidDates)
	assert.NotNil(t, clean.InvalidFields)

	w = do(t, h, http.MethodPost, "/profiles/clerk/user_1/education",
		`{"schoolName":"MIT","dates":{"startDate":"2020-09-01","completionDate":"2019-06-01"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/profiles/clerk/user_1/date-issues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	issues := decodeBody[DateIssuesResponse](t, w)
	assert.True(t, issues.HasInvalidDates)
	require.NotEmpty(t, issues.InvalidFields)
	assert.Equal(t, types.SectionEducation, issues.InvalidFields[0].Section)
	assert.Equal(t, "MIT", issues.InvalidFields[0].EntryName)
}

func TestHandleReplaceResume(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	do(t, h, http.MethodPost, "/profiles/clerk/user_1/projects", `{"name":"Old Project"}`)

	body := `{"personalInfo":{"name":"Grace Hopper","email":"grace@example.com"},"projects":[{"name":"COBOL"}]}`
	w := do(t, h, http.MethodPatch, "/profiles/clerk/user_1/resume", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeBody[editor.Outcome](t, w)
	assert.Equal(t, "user_1", out.Profile.UserID)
	assert.Equal(t, "Grace Hopper", out.Profile.PersonalInfo.Name)
	require.Len(t, out.Profile.Projects, 1)
	assert.Equal(t, "COBOL", out.Profile.Projects[0].Name)
}

func TestHandleExportResume(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	do(t, h, http.MethodPut, "/profiles/clerk/user_1/personal-info/name", map[string]string{"value": "Ada Lovelace"})

	w := do(t, h, http.MethodGet, "/profiles/clerk/user_1/export?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Ada_Lovelace_Resume.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = do(t, h, http.MethodGet, "/profiles/clerk/user_1/export?format=docx", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Ada_Lovelace_Resume.docx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = do(t, h, http.MethodGet, "/profiles/clerk/user_1/export?format=odt", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileRoutes_RequireOwner(t *testing.T) {
	jwtService := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	s := newTestServer(t, func(d *Deps) {
		d.Tokens = jwtService.AsTokenValidator()
	})
	h := s.Handler()

	token, err := jwtService.GenerateToken("user_1")
	require.NoError(t, err)

	w := do(t, h, http.MethodGet, "/profiles/clerk/user_1", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/profiles/clerk/user_1", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/profiles/clerk/user_2", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPost, "/profiles", `{"userId":"user_2","personalInfo":{"name":"Eve"}}`, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPost, "/profiles", `{"personalInfo":{"name":"Ada"}}`, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decodeBody[types.ResumeProfile](t, w)
	assert.Equal(t, "user_1", p.UserID)

	w = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
