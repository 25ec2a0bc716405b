package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/types"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
	tier     ModelTier
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, tier ModelTier) (string, error) {
	f.prompt, f.tier = prompt, tier
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeClient) Close() error { return nil }

func TestGetModel(t *testing.T) {
	c := DefaultGeminiConfig()
	assert.Equal(t, "gemini-2.5-flash-lite", c.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-pro", c.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash", c.GetModel("unknown"))

	c = &Config{Models: map[ModelTier]string{TierLite: "only-lite"}}
	assert.Equal(t, "only-lite", c.GetModel(TierAdvanced))

	assert.Equal(t, "", (&Config{}).GetModel(TierStandard))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GEMINI_MODEL_ADVANCED", "custom-pro")
	t.Setenv("GEMINI_TEMPERATURE", "0.7")

	c := ConfigFromEnv()
	assert.Equal(t, "custom-pro", c.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash", c.GetModel(TierStandard))
	assert.InDelta(t, 0.7, c.Temperature, 0.0001)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"bare fence", "```\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"plain", `{"key": "value"}`, `{"key": "value"}`},
		{"preamble", "Here is the JSON:\n{\"company\": \"Acme\"}", `{"company": "Acme"}`},
		{"trailing prose", "{\"key\": \"value\"}\n\nAnything else?", `{"key": "value"}`},
		{"array", "Items:\n[\"a\", \"b\"]", `["a", "b"]`},
		{"braces in strings", `Result: {"template": "Hello {name}!"}`, `{"template": "Hello {name}!"}`},
		{"escaped quotes", `Result: {"message": "He said \"hi\""}`, `{"message": "He said \"hi\""}`},
		{"no json", "not json", "not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt(ResumeSchema(), "Ada Lovelace\nEngineer")

	assert.Contains(t, prompt, `"personalInfo"`)
	assert.Contains(t, prompt, `"workExperience"`)
	assert.Contains(t, prompt, "Native, Professional, Intermediate, Basic")
	assert.Contains(t, prompt, "Ada Lovelace\nEngineer")
}

func TestResumeParser_ParseResume(t *testing.T) {
	client := &fakeClient{response: "```json\n{\"personalInfo\": {\"name\": \"Ada\", \"email\": \"ada@example.com\"}, \"workExperience\": [{\"company\": \"Acme\"}]}\n```"}
	parser := &ResumeParser{Client: client}

	p, err := parser.ParseResume(context.Background(), "cv.pdf", "Ada\nAcme")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.PersonalInfo.Name)
	require.Len(t, p.WorkExperience, 1)
	assert.Equal(t, "Acme", p.WorkExperience[0].Company)
	assert.Equal(t, TierStandard, client.tier)
}

func TestResumeParser_RejectsMalformedResult(t *testing.T) {
	parser := &ResumeParser{Client: &fakeClient{response: `{"summary": "no personal info"}`}}
	_, err := parser.ParseResume(context.Background(), "cv.pdf", "text")
	assert.ErrorContains(t, err, "malformed parse result")
}

func TestResumeParser_ClientError(t *testing.T) {
	parser := &ResumeParser{Client: &fakeClient{err: errors.New("quota exceeded")}}
	_, err := parser.ParseResume(context.Background(), "cv.pdf", "text")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestCoverLetterWriter(t *testing.T) {
	client := &fakeClient{response: "\nDear Acme team,\n\nThanks.\n"}
	w := &CoverLetterWriter{Client: client}

	letter, err := w.GenerateCoverLetter(context.Background(), types.CoverLetterRequest{
		ResumeText:     "Ada Lovelace",
		CompanyName:    "Acme",
		JobDescription: "Build engines",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear Acme team,\n\nThanks.", letter)
	assert.Equal(t, TierAdvanced, client.tier)
	assert.Contains(t, client.prompt, "position at Acme")
	assert.Contains(t, client.prompt, "Build engines")
}
