package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrDocNotSupported is returned for legacy binary .doc files, which are
// accepted by the type check but have no text extractor.
var ErrDocNotSupported = errors.New("legacy .doc files are not supported, please save as PDF or DOCX")

// ErrDocumentTooLarge is returned when a DOCX body inflates past the
// extraction limit.
var ErrDocumentTooLarge = errors.New("document body is too large to read")

// DOCXExpansion caps word/document.xml at this multiple of the upload limit.
const DOCXExpansion = 4

// ExtractText returns the cleaned plain text of a document, bounded by the
// default upload limit.
func ExtractText(kind Kind, data []byte) (string, error) {
	return ExtractTextLimit(kind, data, DefaultMaxBytes*DOCXExpansion)
}

// ExtractTextLimit is ExtractText with an explicit cap on the decompressed
// size of a DOCX body.
func ExtractTextLimit(kind Kind, data []byte, maxBody int64) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read %s: %v", kind, r)
		}
	}()

	switch kind {
	case KindPDF:
		text, err = extractPDF(data)
	case KindDOCX:
		text, err = extractDOCX(data, maxBody)
	case KindDOC:
		return "", ErrDocNotSupported
	default:
		return "", fmt.Errorf("no extractor for %q", kind)
	}
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractDOCX(data []byte, maxBody int64) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		if f.UncompressedSize64 > uint64(maxBody) {
			return "", fmt.Errorf("document.xml declares %d bytes: %w", f.UncompressedSize64, ErrDocumentTooLarge)
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()

		// The header size is not trusted.
		body, err := io.ReadAll(io.LimitReader(rc, maxBody+1))
		if err != nil {
			return "", fmt.Errorf("failed to read document.xml: %w", err)
		}
		if int64(len(body)) > maxBody {
			return "", ErrDocumentTooLarge
		}
		return documentXMLText(bytes.NewReader(body))
	}
	return "", errors.New("no word/document.xml found in docx")
}

// documentXMLText walks WordprocessingML and keeps the run text, with a
// newline per paragraph and a tab per <w:tab/>.
func documentXMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
