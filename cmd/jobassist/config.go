package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/jonathan/job-assistant/internal/types"
)

// loadConfig reads the environment, overlays the optional JSON file and
// validates the result.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}

	var fileCfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		fileCfg = *loaded
	}

	merged := cfg.MergeWithDefaults(fileCfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// readProfile loads and validates a profile document. Both the current
// and the v1 snake_case shapes are accepted.
func readProfile(path string) (*types.ResumeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	p, err := schemas.DecodeProfile(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return p, nil
}

// readJobs loads a JSON array of job postings.
func readJobs(path string) ([]types.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file: %w", err)
	}
	var list []types.Job
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse jobs JSON: %w", err)
	}
	return list, nil
}

// writeOutput writes data to path, creating the parent directory.
func writeOutput(path string, data []byte) error {
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
