package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": "9090",
		"profile_api_url": "https://profiles.example.com",
		"max_upload_bytes": 2048,
		"legacy_profiles": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://profiles.example.com", cfg.ProfileAPIURL)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.True(t, cfg.LegacyProfiles)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("JOBS_API_URL", "https://jobs.example.com")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("REMOTE_TIMEOUT", "5s")
	t.Setenv("REMOTE_RPS", "2.5")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("LEGACY_PROFILES", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres://localhost/jobs", cfg.DatabaseURL)
	assert.Equal(t, "https://jobs.example.com", cfg.JobsAPIURL)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 2.5, cfg.RemoteRPS)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.True(t, cfg.LegacyProfiles)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"REMOTE_TIMEOUT", "soon"},
		{"REMOTE_RPS", "fast"},
		{"MAX_UPLOAD_BYTES", "big"},
		{"LEGACY_PROFILES", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config", cfg: Config{}},
		{name: "valid urls", cfg: Config{Port: "8080", ParserAPIURL: "http://localhost:8000"}},
		{name: "bad port", cfg: Config{Port: "eighty"}, wantErr: "'port'"},
		{name: "port out of range", cfg: Config{Port: "70000"}, wantErr: "'port'"},
		{name: "relative url", cfg: Config{JobsAPIURL: "/api"}, wantErr: "'jobs_api_url'"},
		{name: "ftp url", cfg: Config{MatchAPIURL: "ftp://match"}, wantErr: "'match_api_url'"},
		{name: "negative rps", cfg: Config{RemoteRPS: -1}, wantErr: "'remote_rps'"},
		{name: "negative upload", cfg: Config{MaxUploadBytes: -1}, wantErr: "'max_upload_bytes'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	file := Config{JobsAPIURL: "https://file.example.com", RemoteRPS: 1}
	env := Config{JobsAPIURL: "https://env.example.com", ProfileAPIURL: "https://profiles.example.com", Verbose: true}

	merged := env.MergeWithDefaults(file)

	assert.Equal(t, "https://env.example.com", merged.JobsAPIURL, "set values win")
	assert.Equal(t, "https://profiles.example.com", merged.ProfileAPIURL)
	assert.Equal(t, 1.0, merged.RemoteRPS, "file fills zero values")
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, DefaultRemoteTimeout, merged.RemoteTimeout)
	assert.Equal(t, int64(DefaultMaxUploadBytes), merged.MaxUploadBytes)
	assert.True(t, merged.Verbose)
}
