package jobs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-assistant/internal/types"
)

// Matches reports whether a job passes the search filters. Text and
// location match case-insensitive substrings; job type matches exactly.
func Matches(job types.Job, f types.SearchFilters, now time.Time) bool {
	if q := strings.TrimSpace(f.SearchText); q != "" && !containsFold(job.Title, q) {
		return false
	}
	if f.JobType != "" && job.JobType != f.JobType {
		return false
	}
	if loc := strings.TrimSpace(f.Location); loc != "" && !containsFold(job.Location, loc) {
		return false
	}
	if cutoff := f.DatePosted.Cutoff(now); !cutoff.IsZero() && job.PostedAt.Before(cutoff) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MemorySearcher serves a fixed job list, newest first. It backs the
// server when no jobs database or API is configured.
type MemorySearcher struct {
	mu   sync.RWMutex
	jobs []types.Job
	now  func() time.Time
}

// NewMemorySearcher returns a searcher over a copy of jobs.
func NewMemorySearcher(jobs []types.Job) *MemorySearcher {
	sorted := append([]types.Job(nil), jobs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PostedAt.After(sorted[j].PostedAt)
	})
	return &MemorySearcher{jobs: sorted, now: time.Now}
}

// SearchJobs implements Searcher. Jobs listed in CurrentJobIDs are skipped.
func (m *MemorySearcher) SearchJobs(_ context.Context, f types.SearchFilters) (*types.JobPage, error) {
	f.Normalize()
	exclude := make(map[string]struct{}, len(f.CurrentJobIDs))
	for _, id := range f.CurrentJobIDs {
		exclude[id] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	var matched []types.Job
	for _, j := range m.jobs {
		if _, skip := exclude[j.ID]; skip {
			continue
		}
		if Matches(j, f, now) {
			matched = append(matched, j)
		}
	}

	// Excluded jobs are the ones already shown, so the remaining matches
	// start at the next page.
	start := 0
	if len(f.CurrentJobIDs) == 0 {
		start = (f.Page - 1) * f.PageSize
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &types.JobPage{
		Data:    append([]types.Job{}, matched[start:end]...),
		HasMore: end < len(matched),
	}, nil
}

// Job returns a job by ID.
func (m *MemorySearcher) Job(id string) (types.Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, j := range m.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return types.Job{}, false
}

// MemoryInteractions is an in-process InteractionStore.
type MemoryInteractions struct {
	mu    sync.Mutex
	items []types.JobInteraction
	now   func() time.Time
}

// NewMemoryInteractions returns an empty store.
func NewMemoryInteractions() *MemoryInteractions {
	return &MemoryInteractions{now: time.Now}
}

// RecordInteraction implements InteractionStore.
func (m *MemoryInteractions) RecordInteraction(_ context.Context, req types.InteractionRequest) (*types.JobInteraction, error) {
	status := req.Status
	if status == "" {
		status = types.StatusClicked
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	for i := range m.items {
		in := &m.items[i]
		if in.UserID != req.UserID || in.JobID != req.JobID {
			continue
		}
		in.Status = MergeStatus(in.Status, status)
		in.UpdatedAt = now
		out := *in
		return &out, nil
	}

	in := types.JobInteraction{
		InteractionID: uuid.New(),
		UserID:        req.UserID,
		JobID:         req.JobID,
		ExternalJobID: req.ExternalJobID,
		Status:        status,
		Jobs: types.JobSummary{
			Title:    req.Title,
			Company:  req.Company,
			Location: req.Location,
			Link:     req.Link,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.items = append(m.items, in)
	return &in, nil
}

// ListInteractions implements InteractionStore, newest first.
func (m *MemoryInteractions) ListInteractions(_ context.Context, userID string, status types.InteractionStatus) ([]types.JobInteraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.JobInteraction{}
	for i := len(m.items) - 1; i >= 0; i-- {
		in := m.items[i]
		if in.UserID != userID || (status != "" && in.Status != status) {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

// UpdateInteractionStatus implements InteractionStore.
func (m *MemoryInteractions) UpdateInteractionStatus(_ context.Context, userID string, id uuid.UUID, status types.InteractionStatus) (*types.JobInteraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		in := &m.items[i]
		if in.InteractionID == id && in.UserID == userID {
			in.Status = status
			in.UpdatedAt = m.now().UTC()
			out := *in
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteInteraction implements InteractionStore.
func (m *MemoryInteractions) DeleteInteraction(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, in := range m.items {
		if in.InteractionID == id && in.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
