// Package ingestion turns an uploaded resume file into text and hands the
// text to a resume parser.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

// Kind is a supported upload document type.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOC  Kind = "doc"
	KindDOCX Kind = "docx"
)

// MIME types accepted for upload.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DefaultMaxBytes bounds upload size when the Uploader sets none.
const DefaultMaxBytes = 10 << 20

// MsgUnsupportedType is shown for any upload that is not PDF or Word.
const MsgUnsupportedType = "Please upload a PDF or Word document."

// ErrorKind classifies upload failures.
type ErrorKind string

const (
	ErrUnsupportedType ErrorKind = "unsupported_type"
	ErrTooLarge        ErrorKind = "too_large"
	ErrExtraction      ErrorKind = "extraction"
	ErrParse           ErrorKind = "parse"
)

// UploadError is a user-facing upload failure. Message is safe to show.
type UploadError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *UploadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("upload error (%s): %s", e.Kind, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// DetectKind maps a MIME type to a document kind. Parameters such as
// "; charset=binary" are ignored.
func DetectKind(mimeType string) (Kind, error) {
	mediaType := strings.ToLower(strings.TrimSpace(mimeType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	switch mediaType {
	case MIMEPDF:
		return KindPDF, nil
	case MIMEDOC:
		return KindDOC, nil
	case MIMEDOCX:
		return KindDOCX, nil
	default:
		return "", &UploadError{Kind: ErrUnsupportedType, Message: MsgUnsupportedType}
	}
}

// MIMETypeFromFilename guesses a MIME type from the file extension, for
// callers (CLI, generic multipart clients) that do not supply one.
func MIMETypeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MIMEPDF
	case ".doc":
		return MIMEDOC
	case ".docx":
		return MIMEDOCX
	default:
		return mime.TypeByExtension(filepath.Ext(filename))
	}
}

// ResumeParser turns resume text into a structured profile.
type ResumeParser interface {
	ParseResume(ctx context.Context, filename, text string) (*types.ResumeProfile, error)
}

// Upload is one file received from a client.
type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Result is a successfully parsed upload.
type Result struct {
	Profile  *types.ResumeProfile `json:"profile"`
	Text     string               `json:"-"`
	Metadata *Metadata            `json:"metadata"`
}

// Uploader runs the detect, extract, parse sequence. It never retries.
type Uploader struct {
	Parser   ResumeParser
	MaxBytes int
}

// Extract validates the upload and returns its cleaned text without
// calling the parser.
func (u *Uploader) Extract(up Upload) (string, *Metadata, error) {
	kind, err := DetectKind(up.MIMEType)
	if err != nil {
		return "", nil, err
	}

	limit := u.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if len(up.Data) > limit {
		return "", nil, &UploadError{
			Kind:    ErrTooLarge,
			Message: fmt.Sprintf("File is too large (max %d MB).", limit>>20),
		}
	}

	text, err := ExtractTextLimit(kind, up.Data, int64(limit)*DOCXExpansion)
	if err != nil {
		log.Printf("[upload] extraction failed for %s (%s): %v", up.Filename, kind, err)
		msg := "Could not read text from the uploaded file."
		switch {
		case errors.Is(err, ErrDocNotSupported):
			msg = "Legacy .doc files are not supported. Please upload a PDF or DOCX."
		case errors.Is(err, ErrDocumentTooLarge):
			msg = "The document is too large to read."
		}
		return "", nil, &UploadError{Kind: ErrExtraction, Message: msg, Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", nil, &UploadError{Kind: ErrExtraction, Message: "The uploaded file contains no readable text."}
	}

	meta := NewMetadata(up.Filename, kind, up.Data)
	meta.TextChars = len(text)
	return text, meta, nil
}

// Parse extracts the upload's text and sends it to the parser.
func (u *Uploader) Parse(ctx context.Context, up Upload) (*Result, error) {
	text, meta, err := u.Extract(up)
	if err != nil {
		return nil, err
	}
	if u.Parser == nil {
		return nil, &UploadError{Kind: ErrParse, Message: "Resume parsing is not configured."}
	}

	profile, err := u.Parser.ParseResume(ctx, up.Filename, text)
	if err != nil {
		log.Printf("[upload] parse failed for %s: %v", up.Filename, err)
		return nil, &UploadError{Kind: ErrParse, Message: "Failed to parse resume. Please try again.", Cause: err}
	}
	if profile == nil {
		return nil, &UploadError{Kind: ErrParse, Message: "Failed to parse resume. Please try again."}
	}

	log.Printf("[upload] parsed %s: %d chars, %d jobs, %d schools",
		up.Filename, meta.TextChars, len(profile.WorkExperience), len(profile.Education))
	return &Result{Profile: profile, Text: text, Metadata: meta}, nil
}
