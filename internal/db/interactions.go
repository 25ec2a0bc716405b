package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/types"
)

// ---- Job Interaction Methods ----

// statusRankSQL mirrors jobs.MergeStatus so a repeated record never moves
// an interaction backwards.
const statusRankSQL = `CASE %s WHEN 'applied' THEN 3 WHEN 'under_consideration' THEN 2 WHEN 'clicked' THEN 1 ELSE 0 END`

const interactionColumns = `id, user_id, job_id, external_job_id, status, title, company, location, link, created_at, updated_at`

// RecordInteraction inserts an interaction or merges it into the existing
// row for the same user and job.
func (db *DB) RecordInteraction(ctx context.Context, req types.InteractionRequest) (*types.JobInteraction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = types.StatusClicked
	}

	query := fmt.Sprintf(
		`INSERT INTO job_interactions (user_id, job_id, external_job_id, status, title, company, location, link)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id, job_id) DO UPDATE SET
		   status = CASE WHEN %s > %s THEN EXCLUDED.status ELSE job_interactions.status END,
		   title = COALESCE(NULLIF(EXCLUDED.title, ''), job_interactions.title),
		   company = COALESCE(NULLIF(EXCLUDED.company, ''), job_interactions.company),
		   location = COALESCE(NULLIF(EXCLUDED.location, ''), job_interactions.location),
		   link = COALESCE(NULLIF(EXCLUDED.link, ''), job_interactions.link),
		   updated_at = NOW()
		 RETURNING %s`,
		fmt.Sprintf(statusRankSQL, "EXCLUDED.status"),
		fmt.Sprintf(statusRankSQL, "job_interactions.status"),
		interactionColumns,
	)

	in, err := scanInteraction(db.pool.QueryRow(ctx, query,
		req.UserID, req.JobID, req.ExternalJobID, string(status),
		req.Title, req.Company, req.Location, req.Link,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}
	return in, nil
}

// ListInteractions returns a user's interactions, newest first. An empty
// status lists all of them.
func (db *DB) ListInteractions(ctx context.Context, userID string, status types.InteractionStatus) ([]types.JobInteraction, error) {
	query := `SELECT ` + interactionColumns + ` FROM job_interactions WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY updated_at DESC, created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	defer rows.Close()

	out := []types.JobInteraction{}
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		out = append(out, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read interactions: %w", err)
	}
	return out, nil
}

// UpdateInteractionStatus sets the status of one interaction owned by
// userID.
func (db *DB) UpdateInteractionStatus(ctx context.Context, userID string, id uuid.UUID, status types.InteractionStatus) (*types.JobInteraction, error) {
	in, err := scanInteraction(db.pool.QueryRow(ctx,
		`UPDATE job_interactions SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+interactionColumns,
		id, userID, string(status),
	))
	if err == pgx.ErrNoRows {
		return nil, jobs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update interaction: %w", err)
	}
	return in, nil
}

// DeleteInteraction removes one interaction owned by userID.
func (db *DB) DeleteInteraction(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM job_interactions WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete interaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return jobs.ErrNotFound
	}
	return nil
}

func scanInteraction(row pgx.Row) (*types.JobInteraction, error) {
	var in types.JobInteraction
	var status string
	err := row.Scan(
		&in.InteractionID, &in.UserID, &in.JobID, &in.ExternalJobID, &status,
		&in.Jobs.Title, &in.Jobs.Company, &in.Jobs.Location, &in.Jobs.Link,
		&in.CreatedAt, &in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	in.Status = types.InteractionStatus(status)
	return &in, nil
}
