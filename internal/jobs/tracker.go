package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/job-assistant/internal/types"
)

// InteractionStore persists job interactions. RecordInteraction upserts per
// user and job and never lowers an existing status.
type InteractionStore interface {
	RecordInteraction(ctx context.Context, req types.InteractionRequest) (*types.JobInteraction, error)
	ListInteractions(ctx context.Context, userID string, status types.InteractionStatus) ([]types.JobInteraction, error)
	UpdateInteractionStatus(ctx context.Context, userID string, id uuid.UUID, status types.InteractionStatus) (*types.JobInteraction, error)
	DeleteInteraction(ctx context.Context, userID string, id uuid.UUID) error
}

// transitions lists the allowed status moves. Deletion is allowed from any
// status.
var transitions = map[types.InteractionStatus][]types.InteractionStatus{
	types.StatusClicked:            {types.StatusApplied, types.StatusUnderConsideration},
	types.StatusUnderConsideration: {types.StatusApplied},
}

// CanTransition reports whether an interaction may move from one status
// to another.
func CanTransition(from, to types.InteractionStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// statusRank orders statuses so that recording never downgrades.
func statusRank(s types.InteractionStatus) int {
	switch s {
	case types.StatusClicked:
		return 1
	case types.StatusUnderConsideration:
		return 2
	case types.StatusApplied:
		return 3
	default:
		return 0
	}
}

// MergeStatus returns the status kept when an interaction is recorded
// again: the higher of the existing and incoming statuses.
func MergeStatus(existing, incoming types.InteractionStatus) types.InteractionStatus {
	if statusRank(incoming) > statusRank(existing) {
		return incoming
	}
	return existing
}

// Tracker manages one user's job interactions. Every change is a single
// store call followed by a refetch of the list.
type Tracker struct {
	store  InteractionStore
	userID string
}

// NewTracker returns a tracker for userID.
func NewTracker(store InteractionStore, userID string) *Tracker {
	return &Tracker{store: store, userID: userID}
}

// ApplyResult is returned by DirectApply.
type ApplyResult struct {
	Link         string                 `json:"link"`
	Recorded     bool                   `json:"recorded"`
	Interactions []types.JobInteraction `json:"interactions,omitempty"`
}

// List returns the user's interactions, optionally filtered by status.
func (t *Tracker) List(ctx context.Context, status types.InteractionStatus) ([]types.JobInteraction, error) {
	list, err := t.store.ListInteractions(ctx, t.userID, status)
	if err != nil {
		log.Printf("[jobs] failed to list interactions for %s: %v", t.userID, err)
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	return list, nil
}

// Click records that the user opened a job.
func (t *Tracker) Click(ctx context.Context, job types.Job) ([]types.JobInteraction, error) {
	if _, err := t.record(ctx, job, types.StatusClicked); err != nil {
		return nil, err
	}
	return t.List(ctx, "")
}

// DirectApply records an applied interaction and returns the job's
// application link. A failure to record is logged and does not prevent
// the link from being returned.
func (t *Tracker) DirectApply(ctx context.Context, job types.Job) (*ApplyResult, error) {
	link := strings.TrimSpace(job.Link)
	if link == "" {
		return nil, &ValidationError{Field: "link", Message: "job has no application link"}
	}

	res := &ApplyResult{Link: link}
	if _, err := t.record(ctx, job, types.StatusApplied); err != nil {
		return res, nil
	}
	res.Recorded = true

	list, err := t.List(ctx, "")
	if err == nil {
		res.Interactions = list
	}
	return res, nil
}

// MoveToApplied marks an interaction as applied.
func (t *Tracker) MoveToApplied(ctx context.Context, id uuid.UUID) ([]types.JobInteraction, error) {
	return t.move(ctx, id, types.StatusApplied)
}

// MoveToConsideration marks a clicked interaction as under consideration.
func (t *Tracker) MoveToConsideration(ctx context.Context, id uuid.UUID) ([]types.JobInteraction, error) {
	return t.move(ctx, id, types.StatusUnderConsideration)
}

// Move changes an interaction's status if the transition is allowed.
func (t *Tracker) Move(ctx context.Context, id uuid.UUID, to types.InteractionStatus) ([]types.JobInteraction, error) {
	return t.move(ctx, id, to)
}

// Remove deletes an interaction regardless of its status.
func (t *Tracker) Remove(ctx context.Context, id uuid.UUID) ([]types.JobInteraction, error) {
	if err := t.store.DeleteInteraction(ctx, t.userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		log.Printf("[jobs] failed to delete interaction %s: %v", id, err)
		return nil, fmt.Errorf("failed to delete interaction: %w", err)
	}
	return t.List(ctx, "")
}

func (t *Tracker) move(ctx context.Context, id uuid.UUID, to types.InteractionStatus) ([]types.JobInteraction, error) {
	current, err := t.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, &TransitionError{From: current.Status, To: to}
	}

	if _, err := t.store.UpdateInteractionStatus(ctx, t.userID, id, to); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		log.Printf("[jobs] failed to move interaction %s to %s: %v", id, to, err)
		return nil, fmt.Errorf("failed to update interaction: %w", err)
	}
	return t.List(ctx, "")
}

func (t *Tracker) find(ctx context.Context, id uuid.UUID) (*types.JobInteraction, error) {
	list, err := t.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].InteractionID == id {
			return &list[i], nil
		}
	}
	return nil, ErrNotFound
}

func (t *Tracker) record(ctx context.Context, job types.Job, status types.InteractionStatus) (*types.JobInteraction, error) {
	req := types.InteractionRequest{
		UserID:        t.userID,
		JobID:         job.ID,
		ExternalJobID: job.ExternalJobID,
		Title:         job.Title,
		Company:       job.Company,
		Location:      job.Location,
		Status:        status,
		Link:          job.Link,
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Field: "job", Message: err.Error()}
	}

	in, err := t.store.RecordInteraction(ctx, req)
	if err != nil {
		log.Printf("[jobs] failed to record %s for job %s: %v", status, job.ID, err)
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}
	return in, nil
}
