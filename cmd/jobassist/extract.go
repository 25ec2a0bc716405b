package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/ingestion"
)

var (
	extractInputFile  string
	extractOutputFile string
	extractMetaFile   string
	extractParse      bool
	extractConfigPath string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract text from a PDF or DOCX resume",
	Long: `Reads a resume file and prints its cleaned text. With --parse the text is sent
to the configured resume parser and the resulting profile JSON is printed instead.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractInputFile, "in", "i", "", "Path to resume file (required)")
	extractCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Output file (default: stdout)")
	extractCmd.Flags().StringVar(&extractMetaFile, "meta", "", "Also write upload metadata JSON to this file")
	extractCmd.Flags().BoolVar(&extractParse, "parse", false, "Parse the text into a profile")
	extractCmd.Flags().StringVarP(&extractConfigPath, "config", "c", "", "Path to a JSON config file")
	if err := extractCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(extractInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	up := ingestion.Upload{
		Filename: filepath.Base(extractInputFile),
		MIMEType: ingestion.MIMETypeFromFilename(extractInputFile),
		Data:     data,
	}

	var out []byte
	var meta *ingestion.Metadata
	if extractParse {
		cfg, err := loadConfig(extractConfigPath)
		if err != nil {
			return err
		}
		parser, closeFn, err := resumeParser(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		uploader := &ingestion.Uploader{Parser: parser, MaxBytes: int(cfg.MaxUploadBytes)}
		res, err := uploader.Parse(cmd.Context(), up)
		if err != nil {
			return err
		}
		if out, err = json.MarshalIndent(res.Profile, "", "  "); err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		meta = res.Metadata
	} else {
		uploader := &ingestion.Uploader{}
		var text string
		text, meta, err = uploader.Extract(up)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Extracted %d characters from %s (%s)\n", meta.TextChars, meta.Filename, meta.Kind)
		out = []byte(text + "\n")
	}

	if extractMetaFile != "" {
		metaJSON, err := meta.ToJSON()
		if err != nil {
			return err
		}
		if err := writeOutput(extractMetaFile, metaJSON); err != nil {
			return err
		}
	}

	if extractOutputFile == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	return writeOutput(extractOutputFile, out)
}
