package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/types"
)

var (
	importJobsFile   string
	importDatabase   string
	importKeepHTML   bool
	importConfigPath string
)

var importJobsCmd = &cobra.Command{
	Use:   "import-jobs",
	Short: "Load job postings into the database",
	Long: `Reads a JSON array of job postings and upserts them into PostgreSQL.
HTML descriptions are converted to plain text unless --keep-html is set.`,
	RunE: runImportJobs,
}

func init() {
	importJobsCmd.Flags().StringVarP(&importJobsFile, "jobs", "j", "", "Path to jobs JSON file (required)")
	importJobsCmd.Flags().StringVar(&importDatabase, "db-url", "", "Database URL (default: DATABASE_URL)")
	importJobsCmd.Flags().BoolVar(&importKeepHTML, "keep-html", false, "Store descriptions without converting HTML")
	importJobsCmd.Flags().StringVarP(&importConfigPath, "config", "c", "", "Path to a JSON config file")
	if err := importJobsCmd.MarkFlagRequired("jobs"); err != nil {
		panic(fmt.Sprintf("failed to mark jobs flag as required: %v", err))
	}
	rootCmd.AddCommand(importJobsCmd)
}

func runImportJobs(cmd *cobra.Command, _ []string) error {
	list, err := readJobs(importJobsFile)
	if err != nil {
		return err
	}
	if list, err = prepareJobs(list, importKeepHTML); err != nil {
		return err
	}

	cfg, err := loadConfig(importConfigPath)
	if err != nil {
		return err
	}
	dbURL := importDatabase
	if dbURL == "" {
		dbURL = cfg.DatabaseURL
	}
	if dbURL == "" {
		return fmt.Errorf("database URL is required: set --db-url or DATABASE_URL")
	}

	database, err := db.Connect(cmd.Context(), dbURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}
	for _, j := range list {
		if err := database.UpsertJob(cmd.Context(), j); err != nil {
			return fmt.Errorf("failed to import job %s: %w", j.ID, err)
		}
	}
	log.Printf("[import] upserted %d jobs", len(list))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d jobs\n", len(list))
	return nil
}

// prepareJobs checks required fields and converts descriptions to text.
func prepareJobs(list []types.Job, keepHTML bool) ([]types.Job, error) {
	out := make([]types.Job, 0, len(list))
	for i, j := range list {
		if j.ID == "" || j.Title == "" || j.Company == "" {
			return nil, fmt.Errorf("job %d: id, title and company are required", i)
		}
		if !keepHTML {
			text, err := jobs.PlainText(j.Description)
			if err != nil {
				return nil, fmt.Errorf("job %s: %w", j.ID, err)
			}
			j.Description = text
		}
		out = append(out, j)
	}
	return out, nil
}
