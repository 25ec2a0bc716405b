package server

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/editor"
	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/llm"
	"github.com/jonathan/job-assistant/internal/remote"
	"github.com/jonathan/job-assistant/internal/types"
)

// BuildDeps picks a backend for each collaborator. Remote services win
// over the database, and the database wins over the in-memory stores.
// Model-backed parsing and cover letters are used when no service URL
// is configured and a Gemini API key is. Seed jobs are loaded into the
// database or the in-memory board, whichever serves job search.
func BuildDeps(ctx context.Context, cfg *config.Config, seed []types.Job) (Deps, error) {
	var (
		deps    Deps
		closers []func()
	)
	fail := func(err error) (Deps, error) {
		for _, c := range closers {
			c()
		}
		return Deps{}, err
	}

	client := remote.New(remote.Config{
		ProfileURL:     cfg.ProfileAPIURL,
		JobsURL:        cfg.JobsAPIURL,
		ParserURL:      cfg.ParserAPIURL,
		MatchURL:       cfg.MatchAPIURL,
		CoverLetterURL: cfg.CoverLetterAPIURL,
		APIKey:         cfg.RemoteAPIKey,
		Timeout:        cfg.RemoteTimeout,
		RPS:            cfg.RemoteRPS,
		Burst:          int(cfg.RemoteRPS) + 1,
		LegacyProfiles: cfg.LegacyProfiles,
	})

	var database *db.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fail(fmt.Errorf("failed to connect to database: %w", err))
		}
		closers = append(closers, conn.Close)
		if err := conn.Migrate(ctx); err != nil {
			return fail(fmt.Errorf("failed to migrate database: %w", err))
		}
		database = conn
	}

	switch {
	case cfg.ProfileAPIURL != "":
		log.Printf("[wiring] profiles: %s", cfg.ProfileAPIURL)
		deps.Profiles = client
	case database != nil:
		log.Printf("[wiring] profiles: postgres")
		deps.Profiles = database
	default:
		log.Printf("[wiring] profiles: in-memory")
		deps.Profiles = editor.NewMemoryStore()
	}

	switch {
	case cfg.JobsAPIURL != "":
		log.Printf("[wiring] jobs: %s", cfg.JobsAPIURL)
		deps.Jobs = client
		deps.Interactions = client
		deps.Tracker = client
		deps.Tailored = client
	case database != nil:
		log.Printf("[wiring] jobs: postgres")
		for _, j := range seed {
			if err := database.UpsertJob(ctx, j); err != nil {
				return fail(err)
			}
		}
		deps.Jobs = database
		deps.Interactions = database
		deps.Tracker = database
	default:
		log.Printf("[wiring] jobs: in-memory")
		deps.Jobs = jobs.NewMemorySearcher(seed)
		deps.Interactions = jobs.NewMemoryInteractions()
	}

	if cfg.MatchAPIURL != "" {
		deps.Matcher = client
	}

	var gemini *llm.GeminiClient
	if cfg.APIKey != "" && (cfg.ParserAPIURL == "" || cfg.CoverLetterAPIURL == "") {
		g, err := llm.NewGeminiClient(ctx, llm.ConfigFromEnv(), cfg.APIKey)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() {
			if err := g.Close(); err != nil {
				log.Printf("[wiring] failed to close Gemini client: %v", err)
			}
		})
		gemini = g
	}

	switch {
	case cfg.ParserAPIURL != "":
		deps.Parser = client
	case gemini != nil:
		deps.Parser = &llm.ResumeParser{Client: gemini, Tier: llm.TierStandard}
	default:
		log.Printf("[wiring] resume parsing disabled: set PARSER_API_URL or GEMINI_API_KEY")
	}

	switch {
	case cfg.CoverLetterAPIURL != "":
		deps.CoverLetters = client
	case gemini != nil:
		deps.CoverLetters = &llm.CoverLetterWriter{Client: gemini, Tier: llm.TierAdvanced}
	default:
		log.Printf("[wiring] cover letter generation disabled: set COVER_LETTER_API_URL or GEMINI_API_KEY")
	}

	jwtCfg, err := config.OptionalJWTConfig()
	if err != nil {
		return fail(err)
	}
	if jwtCfg != nil {
		deps.Tokens = NewJWTService(jwtCfg).AsTokenValidator()
	} else {
		log.Printf("[wiring] JWT_SECRET not set; requests are not authenticated")
	}

	deps.Close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return deps, nil
}

// ConfigFrom converts the loaded configuration into server settings.
func ConfigFrom(cfg *config.Config) (Config, error) {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		return Config{}, fmt.Errorf("invalid port %q: %w", cfg.Port, err)
	}
	return Config{Port: port, MaxUploadBytes: cfg.MaxUploadBytes}, nil
}
