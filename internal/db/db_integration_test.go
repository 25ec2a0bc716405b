//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// =============================================================================
// Profile Integration Tests
// =============================================================================

func TestIntegration_Profile_SectionUpdate(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := "test-" + uuid.NewString()
	defer func() { _, _ = db.pool.Exec(ctx, "DELETE FROM profiles WHERE user_id = $1", userID) }()

	_, err := db.GetProfile(ctx, userID)
	assert.ErrorIs(t, err, types.ErrProfileNotFound)

	p := types.NewProfile(userID)
	p.PersonalInfo.Name = "Ada Lovelace"
	created, err := db.CreateProfile(ctx, p)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := db.UpdateSection(ctx, userID, types.SectionSummary, "Mathematician")
	require.NoError(t, err)
	assert.Equal(t, "Mathematician", updated.Summary)
	assert.Equal(t, "Ada Lovelace", updated.PersonalInfo.Name)

	_, err = db.UpdateSection(ctx, "missing-"+userID, types.SectionSummary, "x")
	assert.ErrorIs(t, err, types.ErrProfileNotFound)
}

func TestIntegration_Profile_SectionUpdateUpgradesLegacyRow(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := "test-" + uuid.NewString()
	defer func() { _, _ = db.pool.Exec(ctx, "DELETE FROM profiles WHERE user_id = $1", userID) }()

	legacy := `{"schema_version":1,"personal_info":{"name":"Ada"},` +
		`"education":[{"school_name":"State U","dates":{"start_date":"2015-09-01"}}],` +
		`"work_experience":[{"organization":"Old Co"}]}`
	_, err := db.pool.Exec(ctx, `INSERT INTO profiles (user_id, data) VALUES ($1, $2)`, userID, []byte(legacy))
	require.NoError(t, err)

	updated, err := db.UpdateSection(ctx, userID, types.SectionWorkExperience,
		[]types.WorkExperience{{Company: "New Co"}})
	require.NoError(t, err)
	require.Len(t, updated.WorkExperience, 1)
	assert.Equal(t, "New Co", updated.WorkExperience[0].Company)
	require.Len(t, updated.Education, 1)
	assert.Equal(t, "State U", updated.Education[0].SchoolName)
	assert.Equal(t, "2015-09-01", updated.Education[0].Dates.StartDate)

	updated, err = db.UpdateSection(ctx, userID, types.SectionEducation,
		[]types.Education{{SchoolName: "Stanford", Dates: types.Dates{StartDate: "2019-09-01"}}})
	require.NoError(t, err)
	assert.Equal(t, "Stanford", updated.Education[0].SchoolName)
	assert.Equal(t, "2019-09-01", updated.Education[0].Dates.StartDate)
	assert.Equal(t, "New Co", updated.WorkExperience[0].Company)

	var data []byte
	require.NoError(t, db.pool.QueryRow(ctx, `SELECT data FROM profiles WHERE user_id = $1`, userID).Scan(&data))
	assert.False(t, types.IsLegacyProfileJSON(data))
}

// =============================================================================
// Job Interaction Integration Tests
// =============================================================================

func TestIntegration_Interactions_NeverDowngrade(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := "test-" + uuid.NewString()
	defer func() { _, _ = db.pool.Exec(ctx, "DELETE FROM job_interactions WHERE user_id = $1", userID) }()

	_, err := db.RecordInteraction(ctx, types.InteractionRequest{UserID: userID, JobID: "job-1", Status: types.StatusApplied})
	require.NoError(t, err)

	in, err := db.RecordInteraction(ctx, types.InteractionRequest{UserID: userID, JobID: "job-1", Status: types.StatusClicked})
	require.NoError(t, err)
	assert.Equal(t, types.StatusApplied, in.Status)

	list, err := db.ListInteractions(ctx, userID, types.StatusApplied)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, db.DeleteInteraction(ctx, userID, in.InteractionID))
	assert.ErrorIs(t, db.DeleteInteraction(ctx, userID, in.InteractionID), jobs.ErrNotFound)
}

func TestIntegration_SearchJobs_HasMore(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	prefix := "itest-" + uuid.NewString()[:8]
	defer func() { _, _ = db.pool.Exec(ctx, "DELETE FROM jobs WHERE id LIKE $1", prefix+"%") }()

	for i := 0; i < 3; i++ {
		require.NoError(t, db.UpsertJob(ctx, types.Job{
			ID:       prefix + "-" + string(rune('a'+i)),
			Title:    prefix + " Engineer",
			Company:  "Test Corp",
			PostedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		}))
	}

	page, err := db.SearchJobs(ctx, types.SearchFilters{SearchText: prefix, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasMore)

	next, err := db.SearchJobs(ctx, types.SearchFilters{
		SearchText:    prefix,
		PageSize:      2,
		Page:          2,
		CurrentJobIDs: []string{page.Data[0].ID, page.Data[1].ID},
	})
	require.NoError(t, err)
	assert.Len(t, next.Data, 1)
	assert.False(t, next.HasMore)
}
