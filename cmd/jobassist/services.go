package main

import (
	"context"
	"errors"
	"log"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/llm"
	"github.com/jonathan/job-assistant/internal/remote"
)

// errNoBackend is returned when a command needs a parser or generator but
// neither a service URL nor a Gemini key is configured.
var errNoBackend = errors.New("no backend configured: set the service URL or GEMINI_API_KEY")

func remoteClient(cfg *config.Config) *remote.Client {
	return remote.New(remote.Config{
		ParserURL:      cfg.ParserAPIURL,
		CoverLetterURL: cfg.CoverLetterAPIURL,
		APIKey:         cfg.RemoteAPIKey,
		Timeout:        cfg.RemoteTimeout,
		RPS:            cfg.RemoteRPS,
		Burst:          int(cfg.RemoteRPS) + 1,
	})
}

func geminiClient(ctx context.Context, cfg *config.Config) (*llm.GeminiClient, func(), error) {
	if cfg.APIKey == "" {
		return nil, nil, errNoBackend
	}
	client, err := llm.NewGeminiClient(ctx, llm.ConfigFromEnv(), cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {
		if err := client.Close(); err != nil {
			log.Printf("[cli] failed to close Gemini client: %v", err)
		}
	}, nil
}

// resumeParser returns the parse service when configured, else Gemini.
func resumeParser(ctx context.Context, cfg *config.Config) (ingestion.ResumeParser, func(), error) {
	if cfg.ParserAPIURL != "" {
		return remoteClient(cfg), func() {}, nil
	}
	client, closeFn, err := geminiClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return &llm.ResumeParser{Client: client, Tier: llm.TierStandard}, closeFn, nil
}

// coverLetterGenerator returns the cover letter service when configured,
// else Gemini.
func coverLetterGenerator(ctx context.Context, cfg *config.Config) (jobs.Generator, func(), error) {
	if cfg.CoverLetterAPIURL != "" {
		return remoteClient(cfg), func() {}, nil
	}
	client, closeFn, err := geminiClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return &llm.CoverLetterWriter{Client: client, Tier: llm.TierAdvanced}, closeFn, nil
}
