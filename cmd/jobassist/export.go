package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/rendering"
)

var (
	exportProfileFile string
	exportFormat      string
	exportOutput      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a profile as a PDF or DOCX resume",
	Long: `Renders a profile JSON file into a resume document. When --out is a directory
or omitted, the file is named "<Name>_Resume.<ext>".`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportProfileFile, "profile", "p", "", "Path to profile JSON file (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "Output format: pdf or docx")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file or directory")
	if err := exportCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := rendering.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	p, err := readProfile(exportProfileFile)
	if err != nil {
		return err
	}

	data, err := rendering.ExportResume(p, format)
	if err != nil {
		return err
	}

	path := outputPath(exportOutput, rendering.Filename(p.PersonalInfo.Name, "Resume", format))
	if err := writeOutput(path, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

// outputPath resolves --out against a generated file name. An empty value
// or one ending in a separator names a directory.
func outputPath(out, name string) string {
	if out == "" {
		return name
	}
	if strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(filepath.Separator)) {
		return filepath.Join(out, name)
	}
	return out
}
