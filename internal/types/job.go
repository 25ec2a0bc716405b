package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JobType is the employment type of a posting.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// DatePosted is a coarse "posted within" filter bucket.
type DatePosted string

const (
	DatePostedAny   DatePosted = ""
	DatePostedDay   DatePosted = "24h"
	DatePostedWeek  DatePosted = "week"
	DatePostedMonth DatePosted = "month"
)

// Cutoff returns the earliest posting time matched by the bucket, or the
// zero time when the bucket does not filter.
func (d DatePosted) Cutoff(now time.Time) time.Time {
	switch d {
	case DatePostedDay:
		return now.Add(-24 * time.Hour)
	case DatePostedWeek:
		return now.AddDate(0, 0, -7)
	case DatePostedMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// ParseDatePosted validates a bucket name; "any" and "" mean no filter.
func ParseDatePosted(s string) (DatePosted, error) {
	switch DatePosted(s) {
	case DatePostedAny, DatePostedDay, DatePostedWeek, DatePostedMonth:
		return DatePosted(s), nil
	}
	if s == "any" {
		return DatePostedAny, nil
	}
	return "", fmt.Errorf("unknown datePosted bucket: %q", s)
}

// Job is a posting returned by the jobs search API.
type Job struct {
	ID            string    `json:"id"`
	ExternalJobID string    `json:"external_job_id,omitempty"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location,omitempty"`
	JobType       JobType   `json:"job_type,omitempty"`
	Description   string    `json:"description,omitempty"`
	Link          string    `json:"link,omitempty"`
	PostedAt      time.Time `json:"posted_at,omitempty"`
}

// DefaultPageSize is used when a search does not ask for one.
const DefaultPageSize = 20

// MaxPageSize caps page sizes requested by clients.
const MaxPageSize = 100

// SearchFilters are the job search parameters.
type SearchFilters struct {
	SearchText    string     `json:"searchText,omitempty"`
	JobType       JobType    `json:"jobType,omitempty"`
	Location      string     `json:"location,omitempty"`
	DatePosted    DatePosted `json:"datePosted,omitempty"`
	Page          int        `json:"page"`
	PageSize      int        `json:"pageSize"`
	CurrentJobIDs []string   `json:"currentJobIds,omitempty"`
}

// Normalize clamps paging parameters into range.
func (f *SearchFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// JobPage is one page of search results.
type JobPage struct {
	Data    []Job `json:"data"`
	HasMore bool  `json:"hasMore"`
}

// InteractionStatus is the user's relationship to a posting.
type InteractionStatus string

const (
	StatusClicked            InteractionStatus = "clicked"
	StatusApplied            InteractionStatus = "applied"
	StatusUnderConsideration InteractionStatus = "under_consideration"
)

// ParseInteractionStatus validates a status value.
func ParseInteractionStatus(s string) (InteractionStatus, error) {
	switch InteractionStatus(s) {
	case StatusClicked, StatusApplied, StatusUnderConsideration:
		return InteractionStatus(s), nil
	}
	return "", fmt.Errorf("unknown interaction status: %q", s)
}

// JobSummary is the job snapshot embedded in an interaction.
type JobSummary struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	Link     string `json:"link,omitempty"`
}

// JobInteraction records that a user clicked, applied to, or is
// considering a job.
type JobInteraction struct {
	InteractionID uuid.UUID         `json:"interaction_id"`
	UserID        string            `json:"user_id"`
	JobID         string            `json:"job_id"`
	ExternalJobID string            `json:"external_job_id,omitempty"`
	Status        InteractionStatus `json:"status"`
	Jobs          JobSummary        `json:"jobs"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// InteractionRequest is the body of POST /api/job-interaction.
type InteractionRequest struct {
	UserID        string            `json:"user_id,omitempty"`
	JobID         string            `json:"job_id" validate:"required"`
	ExternalJobID string            `json:"external_job_id,omitempty"`
	Title         string            `json:"title,omitempty"`
	Company       string            `json:"company,omitempty"`
	Location      string            `json:"location,omitempty"`
	Status        InteractionStatus `json:"status,omitempty" validate:"omitempty,oneof=clicked applied under_consideration"`
	Link          string            `json:"link,omitempty" validate:"omitempty,url"`
}

// Validate validates the InteractionRequest using the validator.
func (r *InteractionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// MatchResult is the response of the resume/job-description match API.
type MatchResult struct {
	MatchScore  float64  `json:"match_score"`
	Suggestions []string `json:"suggestions"`
}

// TailoredResume is a resume rewritten for one job.
type TailoredResume struct {
	TailoredResume *ResumeProfile  `json:"tailored_resume"`
	JobDetails     map[string]any `json:"job_details,omitempty"`
}

// TrackerEntry is one row of the job tracker board.
type TrackerEntry struct {
	ID           uuid.UUID `json:"id"`
	ExtractionID string    `json:"extraction_id"`
	Status       string    `json:"status"`
	IsFavorite   bool      `json:"is_favorite"`
	Notes        string    `json:"notes,omitempty"`
	Title        string    `json:"title,omitempty"`
	Company      string    `json:"company,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TrackerRequest is the body of POST /api/v1/job-tracker.
type TrackerRequest struct {
	ExtractionID string `json:"extraction_id" validate:"required"`
	Status       string `json:"status" validate:"required"`
	IsFavorite   bool   `json:"is_favorite"`
	Notes        string `json:"notes,omitempty"`
}

// Validate validates the TrackerRequest using the validator.
func (r *TrackerRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CoverLetterRequest collects what the cover-letter drawer submits.
type CoverLetterRequest struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	CompanyName    string `json:"company_name" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
}

// Validate validates the CoverLetterRequest using the validator.
func (r *CoverLetterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
