// Package llm wraps the Gemini API for the generation tasks the assistant
// runs itself: parsing resume text when no parser service is configured and
// writing cover letters.
package llm

import (
	"os"
	"strconv"
)

// ModelTier selects a model by capability.
type ModelTier string

const (
	// TierLite is for short extraction tasks.
	TierLite ModelTier = "lite"
	// TierStandard is for structured output such as resume parsing.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form writing.
	TierAdvanced ModelTier = "advanced"
)

// Config holds the model names and sampling settings.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
	// MaxOutputTokens caps a response; zero leaves the model default.
	MaxOutputTokens int32
}

// DefaultGeminiConfig returns the default Gemini models.
func DefaultGeminiConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.2,
	}
}

// ConfigFromEnv starts from the defaults and applies GEMINI_MODEL_LITE,
// GEMINI_MODEL_STANDARD, GEMINI_MODEL_ADVANCED and GEMINI_TEMPERATURE.
func ConfigFromEnv() *Config {
	c := DefaultGeminiConfig()
	for tier, key := range map[ModelTier]string{
		TierLite:     "GEMINI_MODEL_LITE",
		TierStandard: "GEMINI_MODEL_STANDARD",
		TierAdvanced: "GEMINI_MODEL_ADVANCED",
	} {
		if v := os.Getenv(key); v != "" {
			c.Models[tier] = v
		}
	}
	if v := os.Getenv("GEMINI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			c.Temperature = float32(f)
		}
	}
	return c
}

// GetModel returns the model for a tier, falling back to standard and
// then lite. It returns "" when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}
