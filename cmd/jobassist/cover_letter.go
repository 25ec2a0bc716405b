package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/rendering"
	"github.com/jonathan/job-assistant/internal/types"
)

var (
	coverResumeFile string
	coverCompany    string
	coverJobFile    string
	coverLetterFile string
	coverName       string
	coverFormat     string
	coverOutput     string
	coverConfigPath string
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Generate and export a cover letter",
	Long: `Generates a cover letter from a resume and a job description, then exports it
as PDF or DOCX. With --letter an existing plain-text letter is exported as is.

The resume may be a PDF, a DOCX or a plain-text file. The job description may be HTML.`,
	RunE: runCoverLetter,
}

func init() {
	coverLetterCmd.Flags().StringVarP(&coverResumeFile, "resume", "r", "", "Path to resume (PDF, DOCX or text)")
	coverLetterCmd.Flags().StringVar(&coverCompany, "company", "", "Company name")
	coverLetterCmd.Flags().StringVarP(&coverJobFile, "job", "j", "", "Path to job description (text or HTML)")
	coverLetterCmd.Flags().StringVar(&coverLetterFile, "letter", "", "Export this plain-text letter instead of generating one")
	coverLetterCmd.Flags().StringVarP(&coverName, "name", "n", "", "Applicant name used in the file name")
	coverLetterCmd.Flags().StringVarP(&coverFormat, "format", "f", "pdf", "Output format: pdf or docx")
	coverLetterCmd.Flags().StringVarP(&coverOutput, "out", "o", "", "Output file or directory")
	coverLetterCmd.Flags().StringVarP(&coverConfigPath, "config", "c", "", "Path to a JSON config file")
	rootCmd.AddCommand(coverLetterCmd)
}

func runCoverLetter(cmd *cobra.Command, _ []string) error {
	format, err := rendering.ParseFormat(coverFormat)
	if err != nil {
		return err
	}

	var letter string
	if coverLetterFile != "" {
		data, err := os.ReadFile(coverLetterFile)
		if err != nil {
			return fmt.Errorf("failed to read letter file: %w", err)
		}
		letter = string(data)
	} else {
		if letter, err = generateCoverLetter(cmd); err != nil {
			return err
		}
	}

	data, err := rendering.ExportCoverLetter(letter, format)
	if err != nil {
		return err
	}
	path := outputPath(coverOutput, rendering.Filename(coverName, "Cover_Letter", format))
	if err := writeOutput(path, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

func generateCoverLetter(cmd *cobra.Command) (string, error) {
	if coverResumeFile == "" || coverJobFile == "" {
		return "", fmt.Errorf("--resume and --job are required unless --letter is set")
	}
	resumeText, err := readResumeText(coverResumeFile)
	if err != nil {
		return "", err
	}
	jobDesc, err := os.ReadFile(coverJobFile)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}

	cfg, err := loadConfig(coverConfigPath)
	if err != nil {
		return "", err
	}
	gen, closeFn, err := coverLetterGenerator(cmd.Context(), cfg)
	if err != nil {
		return "", err
	}
	defer closeFn()

	letters := &jobs.CoverLetters{Generator: gen}
	return letters.Generate(cmd.Context(), types.CoverLetterRequest{
		ResumeText:     resumeText,
		CompanyName:    coverCompany,
		JobDescription: string(jobDesc),
	})
}

// readResumeText extracts text from PDF and DOCX resumes and reads any
// other file as plain text.
func readResumeText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	mimeType := ingestion.MIMETypeFromFilename(path)
	if _, err := ingestion.DetectKind(mimeType); err != nil {
		return string(data), nil
	}
	uploader := &ingestion.Uploader{}
	text, _, err := uploader.Extract(ingestion.Upload{Filename: filepath.Base(path), MIMEType: mimeType, Data: data})
	return text, err
}
