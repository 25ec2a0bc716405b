// Package main provides the entry point for the job assistant server and
// its command-line tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobassist",
	Short: "Job application assistant",
	Long: "jobassist serves the profile editor, resume upload, document export and job browser API, " +
		"and offers the same operations as local commands.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
