package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

// Format is an export file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat accepts "pdf" or "docx" (case-insensitive); "" means pdf.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatDOCX {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

// ExportResume renders a profile in the given format.
func ExportResume(p *types.ResumeProfile, format Format) ([]byte, error) {
	doc := BuildDocument(p)
	switch format {
	case FormatPDF:
		return RenderPDF(doc)
	case FormatDOCX:
		return RenderDOCX(Paragraphs(doc))
	default:
		return nil, &RenderError{Format: format, Message: "unsupported format"}
	}
}

// ExportCoverLetter renders a plain-text cover letter in the given format.
func ExportCoverLetter(text string, format Format) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &RenderError{Format: format, Message: "cover letter is empty"}
	}
	switch format {
	case FormatPDF:
		return RenderCoverLetterPDF(text)
	case FormatDOCX:
		return RenderDOCX(CoverLetterParagraphs(text))
	default:
		return nil, &RenderError{Format: format, Message: "unsupported format"}
	}
}

// Filename builds a download name such as "Ada_Lovelace_Resume.pdf".
func Filename(name, kind string, format Format) string {
	base := strings.Join(strings.Fields(name), "_")
	if base == "" {
		return kind + "." + string(format)
	}
	return base + "_" + kind + "." + string(format)
}
