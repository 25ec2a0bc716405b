package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/dates"
	"github.com/jonathan/job-assistant/internal/server"
)

var validateProfileFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a profile JSON file",
	Long: `Checks a profile against the profile schema and validates every date range.
Exits with an error when the schema check fails or any date is invalid.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateProfileFile, "profile", "p", "", "Path to profile JSON file (required)")
	if err := validateCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	p, err := readProfile(validateProfileFile)
	if err != nil {
		return err
	}

	issues := dates.InvalidFields(p, dates.Today(time.Now()))
	if issues == nil {
		issues = []dates.InvalidField{}
	}
	out, err := json.MarshalIndent(server.DateIssuesResponse{
		HasInvalidDates: len(issues) > 0,
		InvalidFields:   issues,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if len(issues) > 0 {
		return fmt.Errorf("%d invalid date field(s) in %s", len(issues), validateProfileFile)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Profile %s is valid\n", validateProfileFile)
	return nil
}
