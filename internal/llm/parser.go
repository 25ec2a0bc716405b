package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/jonathan/job-assistant/internal/types"
)

// ResumeParser turns resume text into a profile with a model call.
type ResumeParser struct {
	Client Client
	Tier   ModelTier
}

// ParseResume implements the upload adapter's parser.
func (p *ResumeParser) ParseResume(ctx context.Context, filename, text string) (*types.ResumeProfile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("resume text is empty")
	}
	tier := p.Tier
	if tier == "" {
		tier = TierStandard
	}

	raw, err := p.Client.GenerateJSON(ctx, BuildExtractionPrompt(ResumeSchema(), text), tier)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	profile, err := schemas.DecodeProfile([]byte(CleanJSONBlock(raw)))
	if err != nil {
		log.Printf("[llm] rejected parse result for %s: %v", filename, err)
		return nil, fmt.Errorf("malformed parse result: %w", err)
	}
	return profile, nil
}

// CoverLetterWriter generates cover letters with a model call.
type CoverLetterWriter struct {
	Client Client
	Tier   ModelTier
}

// GenerateCoverLetter returns the letter as plain text.
func (w *CoverLetterWriter) GenerateCoverLetter(ctx context.Context, req types.CoverLetterRequest) (string, error) {
	tier := w.Tier
	if tier == "" {
		tier = TierAdvanced
	}
	letter, err := w.Client.GenerateContent(ctx, CoverLetterPrompt(req), tier)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stripFence(strings.TrimSpace(letter))), nil
}
