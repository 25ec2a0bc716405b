package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

// ---- Tracker Methods ----

const trackerColumns = `id, extraction_id, status, is_favorite, notes, title, company, created_at, updated_at`

// ListTracker lists tracker entries, optionally filtered by status and a
// case-insensitive search over title, company and notes.
func (db *DB) ListTracker(ctx context.Context, status, search string) ([]types.TrackerEntry, error) {
	var conditions []string
	var args []any
	argNum := 1

	if status = strings.TrimSpace(status); status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, status)
		argNum++
	}
	if search = strings.TrimSpace(search); search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR company ILIKE $%d OR notes ILIKE $%d)", argNum, argNum, argNum))
		args = append(args, "%"+search+"%")
	}

	query := "SELECT " + trackerColumns + " FROM tracker_entries"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY is_favorite DESC, updated_at DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracker entries: %w", err)
	}
	defer rows.Close()

	entries := []types.TrackerEntry{}
	for rows.Next() {
		var e types.TrackerEntry
		if err := rows.Scan(&e.ID, &e.ExtractionID, &e.Status, &e.IsFavorite, &e.Notes,
			&e.Title, &e.Company, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tracker entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracker entries: %w", err)
	}
	return entries, nil
}

// CreateTracker adds a tracker entry.
func (db *DB) CreateTracker(ctx context.Context, req types.TrackerRequest) (*types.TrackerEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var e types.TrackerEntry
	err := db.pool.QueryRow(ctx,
		`INSERT INTO tracker_entries (extraction_id, status, is_favorite, notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+trackerColumns,
		req.ExtractionID, req.Status, req.IsFavorite, req.Notes,
	).Scan(&e.ID, &e.ExtractionID, &e.Status, &e.IsFavorite, &e.Notes,
		&e.Title, &e.Company, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker entry: %w", err)
	}
	return &e, nil
}
