package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-assistant/internal/types"
)

// Generator writes a cover letter for a resume and a job description.
type Generator interface {
	GenerateCoverLetter(ctx context.Context, req types.CoverLetterRequest) (string, error)
}

// CoverLetters validates cover-letter requests and hands them to a
// generator.
type CoverLetters struct {
	Generator Generator
}

// Generate returns the generated letter as plain text. The job description
// may be HTML; it is converted to text before generation.
func (c *CoverLetters) Generate(ctx context.Context, req types.CoverLetterRequest) (string, error) {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.ResumeText = strings.TrimSpace(req.ResumeText)

	desc, err := PlainText(req.JobDescription)
	if err != nil {
		return "", &ValidationError{Field: "job_description", Message: err.Error()}
	}
	req.JobDescription = desc

	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return "", &ValidationError{Field: field, Message: coverLetterFieldMessage(field)}
		}
		return "", &ValidationError{Field: "request", Message: err.Error()}
	}
	if c.Generator == nil {
		return "", errors.New("cover letter generation is not configured")
	}

	letter, err := c.Generator.GenerateCoverLetter(ctx, req)
	if err != nil {
		log.Printf("[cover-letter] generation failed for %s: %v", req.CompanyName, err)
		return "", fmt.Errorf("failed to generate cover letter: %w", err)
	}
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return "", errors.New("failed to generate cover letter: empty response")
	}
	return letter, nil
}

func coverLetterFieldMessage(field string) string {
	switch field {
	case "CompanyName":
		return "Company name is required"
	case "JobDescription":
		return "Job description is required"
	case "ResumeText":
		return "A resume is required"
	default:
		return field + " is required"
	}
}
