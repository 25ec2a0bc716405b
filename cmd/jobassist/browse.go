package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/types"
)

var (
	browseJobsFile   string
	browseDatabase   string
	browseSearch     string
	browseJobType    string
	browseLocation   string
	browsePosted     string
	browsePageSize   int
	browsePages      int
	browseConfigPath string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List job postings page by page",
	Long: `Searches job postings and prints them one page at a time, the same way the
job browser loads them. Jobs come from --jobs when given, otherwise from the
database at --db-url or DATABASE_URL. --pages 0 loads every page.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVarP(&browseJobsFile, "jobs", "j", "", "Path to jobs JSON file")
	browseCmd.Flags().StringVar(&browseDatabase, "db-url", "", "Database URL (default: DATABASE_URL)")
	browseCmd.Flags().StringVarP(&browseSearch, "search", "s", "", "Match job titles containing this text")
	browseCmd.Flags().StringVar(&browseJobType, "type", "", "Job type (full-time, part-time, contract, internship)")
	browseCmd.Flags().StringVar(&browseLocation, "location", "", "Match locations containing this text")
	browseCmd.Flags().StringVar(&browsePosted, "posted", "", "Posted within: 24h, week or month")
	browseCmd.Flags().IntVar(&browsePageSize, "page-size", types.DefaultPageSize, "Jobs per page")
	browseCmd.Flags().IntVar(&browsePages, "pages", 1, "Number of pages to load")
	browseCmd.Flags().StringVarP(&browseConfigPath, "config", "c", "", "Path to a JSON config file")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	posted, err := types.ParseDatePosted(browsePosted)
	if err != nil {
		return err
	}
	filters := types.SearchFilters{
		SearchText: strings.TrimSpace(browseSearch),
		JobType:    types.JobType(strings.TrimSpace(browseJobType)),
		Location:   strings.TrimSpace(browseLocation),
		DatePosted: posted,
		PageSize:   browsePageSize,
	}

	var searcher jobs.Searcher
	if browseJobsFile != "" {
		list, err := readJobs(browseJobsFile)
		if err != nil {
			return err
		}
		searcher = jobs.NewMemorySearcher(list)
	} else {
		cfg, err := loadConfig(browseConfigPath)
		if err != nil {
			return err
		}
		dbURL := browseDatabase
		if dbURL == "" {
			dbURL = cfg.DatabaseURL
		}
		if dbURL == "" {
			return fmt.Errorf("no job source: set --jobs, --db-url or DATABASE_URL")
		}
		database, err := db.Connect(cmd.Context(), dbURL)
		if err != nil {
			return err
		}
		defer database.Close()
		searcher = database
	}

	feed := jobs.NewFeed(searcher)
	if _, err := feed.Reset(cmd.Context(), filters); err != nil {
		return err
	}
	for page := 1; feed.HasMore() && (browsePages <= 0 || page < browsePages); page++ {
		added, err := feed.LoadMore(cmd.Context())
		if err != nil {
			return err
		}
		if added == 0 {
			break
		}
	}

	out := cmd.OutOrStdout()
	list := feed.Jobs()
	for i, j := range list {
		line := fmt.Sprintf("%3d. %s | %s", i+1, j.Title, j.Company)
		if j.Location != "" {
			line += " | " + j.Location
		}
		if !j.PostedAt.IsZero() {
			line += " | " + j.PostedAt.Format("2006-01-02")
		}
		_, _ = fmt.Fprintln(out, line)
	}
	if len(list) == 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No jobs found")
		return nil
	}
	more := ""
	if feed.HasMore() {
		more = ", more available"
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Showing %d jobs%s\n", len(list), more)
	return nil
}
