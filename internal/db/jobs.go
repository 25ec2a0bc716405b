package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/job-assistant/internal/types"
)

// ---- Job Search Methods ----

const jobColumns = `id, COALESCE(external_job_id, ''), title, company, location, job_type, description, link, posted_at`

// buildJobSearchQuery turns the filters into a query and its arguments.
// One extra row is requested so the caller can tell whether another page
// exists.
func buildJobSearchQuery(f types.SearchFilters, now time.Time) (string, []any) {
	f.Normalize()

	var conditions []string
	var args []any
	argNum := 1

	if q := strings.TrimSpace(f.SearchText); q != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argNum))
		args = append(args, "%"+q+"%")
		argNum++
	}
	if f.JobType != "" {
		conditions = append(conditions, fmt.Sprintf("job_type = $%d", argNum))
		args = append(args, string(f.JobType))
		argNum++
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", argNum))
		args = append(args, "%"+loc+"%")
		argNum++
	}
	if cutoff := f.DatePosted.Cutoff(now); !cutoff.IsZero() {
		conditions = append(conditions, fmt.Sprintf("posted_at >= $%d", argNum))
		args = append(args, cutoff)
		argNum++
	}
	if len(f.CurrentJobIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("id <> ALL($%d)", argNum))
		args = append(args, f.CurrentJobIDs)
		argNum++
	}

	query := "SELECT " + jobColumns + " FROM jobs"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY posted_at DESC, id LIMIT $%d", argNum)
	args = append(args, f.PageSize+1)
	argNum++

	// Jobs already on screen are excluded above, so an offset would skip
	// unseen rows.
	if len(f.CurrentJobIDs) == 0 && f.Page > 1 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, (f.Page-1)*f.PageSize)
	}
	return query, args
}

// SearchJobs returns one page of postings matching the filters.
func (db *DB) SearchJobs(ctx context.Context, f types.SearchFilters) (*types.JobPage, error) {
	f.Normalize()
	query, args := buildJobSearchQuery(f, time.Now())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	defer rows.Close()

	page := &types.JobPage{Data: []types.Job{}}
	for rows.Next() {
		var j types.Job
		var jobType string
		if err := rows.Scan(&j.ID, &j.ExternalJobID, &j.Title, &j.Company, &j.Location,
			&jobType, &j.Description, &j.Link, &j.PostedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		j.JobType = types.JobType(jobType)
		page.Data = append(page.Data, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}

	if len(page.Data) > f.PageSize {
		page.Data = page.Data[:f.PageSize]
		page.HasMore = true
	}
	return page, nil
}

// UpsertJob inserts or refreshes a posting.
func (db *DB) UpsertJob(ctx context.Context, j types.Job) error {
	postedAt := j.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO jobs (id, external_job_id, title, company, location, job_type, description, link, posted_at)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   external_job_id = EXCLUDED.external_job_id,
		   title = EXCLUDED.title,
		   company = EXCLUDED.company,
		   location = EXCLUDED.location,
		   job_type = EXCLUDED.job_type,
		   description = EXCLUDED.description,
		   link = EXCLUDED.link,
		   posted_at = EXCLUDED.posted_at`,
		j.ID, j.ExternalJobID, j.Title, j.Company, j.Location, string(j.JobType), j.Description, j.Link, postedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job %s: %w", j.ID, err)
	}
	return nil
}
