package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/jonathan/job-assistant/internal/types"
)

// ParseResume implements ingestion.ResumeParser. The parser answers
// {"result": profile}; a missing or invalid result is an error.
func (c *Client) ParseResume(ctx context.Context, filename, text string) (*types.ResumeProfile, error) {
	const endpoint = "POST /parse"
	base, err := c.base(endpoint, c.cfg.ParserURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, endpoint, http.MethodPost, base+"/parse",
		c.http.R().SetBody(map[string]string{"filename": filename, "text": text}))
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(resp.Body(), "result")
	if !result.IsObject() {
		return nil, malformed(endpoint, errMissing("result"))
	}
	p, err := schemas.DecodeProfile([]byte(result.Raw))
	if err != nil {
		return nil, malformed(endpoint, err)
	}
	return p, nil
}

// Match scores a resume file against a job description.
func (c *Client) Match(ctx context.Context, filename string, resume []byte, jobDesc string) (*types.MatchResult, error) {
	const endpoint = "POST /match"
	base, err := c.base(endpoint, c.cfg.MatchURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, endpoint, http.MethodPost, base+"/match",
		c.http.R().
			SetFileReader("resume", filename, bytes.NewReader(resume)).
			SetFormData(map[string]string{"job_desc": jobDesc}))
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	score := gjson.GetBytes(body, "match_score")
	if !score.Exists() {
		return nil, malformed(endpoint, errMissing("match_score"))
	}
	out := &types.MatchResult{MatchScore: score.Float(), Suggestions: []string{}}
	gjson.GetBytes(body, "suggestions").ForEach(func(_, v gjson.Result) bool {
		if s := strings.TrimSpace(v.String()); s != "" {
			out.Suggestions = append(out.Suggestions, s)
		}
		return true
	})
	return out, nil
}

// TailoredResume fetches a resume rewritten for a job.
func (c *Client) TailoredResume(ctx context.Context, resumeID string) (*types.TailoredResume, error) {
	const endpoint = "GET /api/v1/resume/tailored-resume/{id}"
	base, err := c.base(endpoint, c.cfg.JobsURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, endpoint, http.MethodGet, base+"/api/v1/resume/tailored-resume/"+url.PathEscape(resumeID), c.http.R())
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	tr := gjson.GetBytes(body, "tailored_resume")
	if !tr.IsObject() {
		return nil, malformed(endpoint, errMissing("tailored_resume"))
	}
	p, err := types.DecodeProfile([]byte(tr.Raw))
	if err != nil {
		return nil, malformed(endpoint, err)
	}
	out := &types.TailoredResume{TailoredResume: p}
	if jd := gjson.GetBytes(body, "job_details"); jd.IsObject() {
		if m, ok := jd.Value().(map[string]any); ok {
			out.JobDetails = m
		}
	}
	return out, nil
}

// ListTracker returns job tracker rows, optionally filtered.
func (c *Client) ListTracker(ctx context.Context, status, search string) ([]types.TrackerEntry, error) {
	const endpoint = "GET /api/v1/job-tracker"
	base, err := c.base(endpoint, c.cfg.JobsURL)
	if err != nil {
		return nil, err
	}

	r := c.http.R()
	if status != "" {
		r.SetQueryParam("status", status)
	}
	if search != "" {
		r.SetQueryParam("search", search)
	}
	resp, err := c.call(ctx, endpoint, http.MethodGet, base+"/api/v1/job-tracker", r)
	if err != nil {
		return nil, err
	}

	out := []types.TrackerEntry{}
	if err := json.Unmarshal(unwrapData(resp.Body(), "entries"), &out); err != nil {
		return nil, malformed(endpoint, err)
	}
	return out, nil
}

// CreateTracker adds a job tracker row.
func (c *Client) CreateTracker(ctx context.Context, req types.TrackerRequest) (*types.TrackerEntry, error) {
	const endpoint = "POST /api/v1/job-tracker"
	base, err := c.base(endpoint, c.cfg.JobsURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, endpoint, http.MethodPost, base+"/api/v1/job-tracker", c.http.R().SetBody(req))
	if err != nil {
		return nil, err
	}
	var out types.TrackerEntry
	if err := json.Unmarshal(unwrapData(resp.Body(), "entry"), &out); err != nil {
		return nil, malformed(endpoint, err)
	}
	return &out, nil
}

// GenerateCoverLetter implements jobs.Generator.
func (c *Client) GenerateCoverLetter(ctx context.Context, req types.CoverLetterRequest) (string, error) {
	const endpoint = "POST /generate"
	base, err := c.base(endpoint, c.cfg.CoverLetterURL)
	if err != nil {
		return "", err
	}

	resp, err := c.call(ctx, endpoint, http.MethodPost, base+"/generate", c.http.R().SetBody(req))
	if err != nil {
		return "", err
	}
	for _, path := range []string{"cover_letter", "coverLetter", "result", "text"} {
		if v := gjson.GetBytes(resp.Body(), path); v.Type == gjson.String {
			return v.String(), nil
		}
	}
	return "", malformed(endpoint, errMissing("cover_letter"))
}
