package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-assistant/internal/types"
)

// ---- Profile Methods ----

// GetProfile loads the profile for a user. Rows written in the v1 shape
// are converted on read.
func (db *DB) GetProfile(ctx context.Context, userID string) (*types.ResumeProfile, error) {
	var id uuid.UUID
	var data []byte
	var updatedAt time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT id, data, updated_at FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&id, &data, &updatedAt)
	if err == pgx.ErrNoRows {
		return nil, types.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return scanProfile(id, userID, data, updatedAt)
}

// CreateProfile inserts a profile. When the user already has one, the
// stored profile is returned unchanged.
func (db *DB) CreateProfile(ctx context.Context, p *types.ResumeProfile) (*types.ResumeProfile, error) {
	if p == nil || p.UserID == "" {
		return nil, fmt.Errorf("profile requires a user id")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	var id uuid.UUID
	var stored []byte
	var updatedAt time.Time
	err = db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, data)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING id, data, updated_at`,
		p.UserID, data,
	).Scan(&id, &stored, &updatedAt)
	if err == pgx.ErrNoRows {
		return db.GetProfile(ctx, p.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return scanProfile(id, p.UserID, stored, updatedAt)
}

// UpdateSection replaces one top-level section of the stored document.
// A row still in the v1 shape is rewritten whole in the canonical shape,
// since a canonical key set next to the v1 keys would be ignored on read.
func (db *DB) UpdateSection(ctx context.Context, userID string, section types.Section, value any) (*types.ResumeProfile, error) {
	if _, err := types.ParseSection(string(section)); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", section, err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current []byte
	err = tx.QueryRow(ctx,
		`SELECT data FROM profiles WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&current)
	if err == pgx.ErrNoRows {
		return nil, types.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	query, args := sectionUpdateQuery(userID, section, raw)
	if types.IsLegacyProfileJSON(current) {
		upgraded, err := types.UpgradeWithSection(current, section, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to upgrade v1 profile for %s: %w", userID, err)
		}
		log.Printf("[db] rewriting v1 profile for %s in the current shape", userID)
		query, args = documentUpdateQuery(userID, upgraded)
	}

	var id uuid.UUID
	var data []byte
	var updatedAt time.Time
	if err := tx.QueryRow(ctx, query, args...).Scan(&id, &data, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", section, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit %s update: %w", section, err)
	}
	return scanProfile(id, userID, data, updatedAt)
}

func sectionUpdateQuery(userID string, section types.Section, raw []byte) (string, []any) {
	return `UPDATE profiles
		 SET data = jsonb_set(data, ARRAY[$2::text], $3::jsonb, true), updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING id, data, updated_at`, []any{userID, string(section), raw}
}

func documentUpdateQuery(userID string, data []byte) (string, []any) {
	return `UPDATE profiles SET data = $2, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING id, data, updated_at`, []any{userID, data}
}

// ReplaceResume overwrites the whole stored document. Legacy rows are
// rewritten in the current shape.
func (db *DB) ReplaceResume(ctx context.Context, userID string, p *types.ResumeProfile) (*types.ResumeProfile, error) {
	if p == nil {
		return nil, fmt.Errorf("profile is required")
	}
	c := p.Clone()
	c.UserID = userID
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	var id uuid.UUID
	var stored []byte
	var updatedAt time.Time
	query, args := documentUpdateQuery(userID, data)
	err = db.pool.QueryRow(ctx, query, args...).Scan(&id, &stored, &updatedAt)
	if err == pgx.ErrNoRows {
		return nil, types.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to replace resume: %w", err)
	}
	return scanProfile(id, userID, stored, updatedAt)
}

func scanProfile(id uuid.UUID, userID string, data []byte, updatedAt time.Time) (*types.ResumeProfile, error) {
	p, err := types.DecodeProfile(data)
	if err != nil {
		return nil, fmt.Errorf("stored profile for %s is corrupt: %w", userID, err)
	}
	p.ID = id.String()
	p.UserID = userID
	p.UpdatedAt = updatedAt
	return p, nil
}
