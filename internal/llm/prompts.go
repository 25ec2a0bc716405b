package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

// SchemaField describes one key of the JSON the model must return.
type SchemaField struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// ExtractionSchema is an instruction plus the expected output shape.
type ExtractionSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// BuildExtractionPrompt renders the schema and the input text as a prompt.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder
	sb.WriteString(schema.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		fmt.Fprintf(&sb, "  %q: %s", field.Name, typeHint)
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Copy values from the text; do not invent entries.\n")
	sb.WriteString("- Use YYYY-MM-DD for dates (YYYY-MM-01 when only the month is known).\n")
	sb.WriteString("- Omit keys you cannot find instead of guessing.\n\n")
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

const datesShape = `{"startDate": "string", "completionDate": "string", "isCurrent": bool}`

// ResumeSchema is the extraction schema for the canonical profile shape.
func ResumeSchema() ExtractionSchema {
	levels := make([]string, 0, 4)
	for _, p := range types.Proficiencies() {
		levels = append(levels, string(p))
	}
	return ExtractionSchema{
		Name:        "ResumeProfile",
		Description: "You are a resume parser. Convert the resume text below into a structured profile.",
		Fields: []SchemaField{
			{Name: "personalInfo", Type: `{"name", "email", "phone", "location", "linkedin", "github"}`, Required: true},
			{Name: "summary", Type: `"string"`},
			{Name: "education", Type: `[{"schoolName", "degree", "fieldOfStudy", "location", "gpa", "description", "dates": ` + datesShape + `}]`},
			{Name: "workExperience", Type: `[{"company", "jobTitle", "location", "description", "achievements": ["string"], "dates": ` + datesShape + `}]`},
			{Name: "skills", Type: `{"category": ["skill"]}`, Description: "group skills by category"},
			{Name: "projects", Type: `[{"name", "description", "technologies": ["string"], "link", "dates": ` + datesShape + `}]`},
			{Name: "certifications", Type: `[{"name", "description"}]`},
			{Name: "achievements", Type: `[{"name", "description"}]`},
			{Name: "languages", Type: `[{"name", "proficiencyLevel"}]`, Description: "proficiencyLevel is one of " + strings.Join(levels, ", ")},
			{Name: "publications", Type: `[{"title", "description", "authors": ["string"]}]`},
		},
	}
}

// CoverLetterPrompt asks for a plain-text cover letter.
func CoverLetterPrompt(req types.CoverLetterRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a cover letter for a position at %s.\n\n", req.CompanyName)
	sb.WriteString("Rules:\n")
	sb.WriteString("- Plain text only, no markdown.\n")
	sb.WriteString("- Three or four short paragraphs separated by blank lines.\n")
	sb.WriteString("- Only claim experience that appears in the resume.\n")
	sb.WriteString("- Start with a greeting line and end with a sign-off and the candidate's name.\n\n")
	sb.WriteString("Job description:\n\"\"\"\n")
	sb.WriteString(req.JobDescription)
	sb.WriteString("\n\"\"\"\n\nResume:\n\"\"\"\n")
	sb.WriteString(req.ResumeText)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}
