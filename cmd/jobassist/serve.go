package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/server"
	"github.com/jonathan/job-assistant/internal/types"
)

var (
	servePort       int
	serveConfigPath string
	serveJobsFile   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing the profile, upload, export and job endpoints.
Backends are chosen from the environment: service URLs first, then DATABASE_URL,
then in-memory stores.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to a JSON config file")
	serveCmd.Flags().StringVar(&serveJobsFile, "jobs", "", "JSON file of job postings to load at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = strconv.Itoa(servePort)
	}

	var seed []types.Job
	if serveJobsFile != "" {
		if seed, err = readJobs(serveJobsFile); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := server.BuildDeps(ctx, cfg, seed)
	if err != nil {
		return fmt.Errorf("failed to set up backends: %w", err)
	}

	srvCfg, err := server.ConfigFrom(cfg)
	if err != nil {
		deps.Close()
		return err
	}
	srv, err := server.New(srvCfg, deps)
	if err != nil {
		deps.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(ctx)
}
