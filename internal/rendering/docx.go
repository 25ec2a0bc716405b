package rendering

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// ParagraphStyle selects the formatting of a DOCX paragraph.
type ParagraphStyle string

const (
	StyleName       ParagraphStyle = "name"
	StyleContact    ParagraphStyle = "contact"
	StyleHeading    ParagraphStyle = "heading"
	StyleEntryTitle ParagraphStyle = "entry-title"
	StyleEntryMeta  ParagraphStyle = "entry-meta"
	StyleBody       ParagraphStyle = "body"
	StyleBullet     ParagraphStyle = "bullet"
)

// Paragraph is one DOCX paragraph.
type Paragraph struct {
	Style ParagraphStyle
	Text  string
	// Aside is right-aligned on the same line (entry dates).
	Aside string
}

// Paragraphs flattens a document into the DOCX paragraph sequence.
func Paragraphs(doc *Document) []Paragraph {
	var out []Paragraph
	h := doc.Header
	if h.Name != "" {
		out = append(out, Paragraph{Style: StyleName, Text: h.Name})
	}
	if len(h.Contact) > 0 {
		out = append(out, Paragraph{Style: StyleContact, Text: strings.Join(h.Contact, " | ")})
	}
	if len(h.Links) > 0 {
		out = append(out, Paragraph{Style: StyleContact, Text: strings.Join(h.Links, " | ")})
	}

	for _, s := range doc.Sections {
		out = append(out, Paragraph{Style: StyleHeading, Text: s.Title})
		for _, e := range s.Entries {
			if e.Title != "" || e.Dates != "" {
				out = append(out, Paragraph{Style: StyleEntryTitle, Text: e.Title, Aside: e.Dates})
			}
			if line := joinNonEmpty(" - ", e.Subtitle, e.Meta); line != "" {
				out = append(out, Paragraph{Style: StyleEntryMeta, Text: line})
			}
			for _, line := range nonEmpty(strings.Split(e.Body, "\n")...) {
				out = append(out, Paragraph{Style: StyleBody, Text: line})
			}
			for _, b := range e.Bullets {
				out = append(out, Paragraph{Style: StyleBullet, Text: b})
			}
		}
	}
	return out
}

// CoverLetterParagraphs returns one body paragraph per line of text.
func CoverLetterParagraphs(text string) []Paragraph {
	lines := splitLines(text)
	out := make([]Paragraph, 0, len(lines))
	for _, line := range lines {
		out = append(out, Paragraph{Style: StyleBody, Text: line})
	}
	return out
}

// RenderDOCX serializes paragraphs as an Office Open XML document.
func RenderDOCX(paragraphs []Paragraph) (out []byte, err error) {
	defer recoverRender(FormatDOCX, &err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentXML(paragraphs)},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, &RenderError{Format: FormatDOCX, Message: MsgGenerateFailed, Cause: err}
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, &RenderError{Format: FormatDOCX, Message: MsgGenerateFailed, Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &RenderError{Format: FormatDOCX, Message: MsgGenerateFailed, Cause: err}
	}
	return buf.Bytes(), nil
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// Letter page with 0.75in margins, in twentieths of a point.
const sectPrXML = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
	`<w:pgMar w:top="1080" w:right="1080" w:bottom="1080" w:left="1080" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`

// rightTabPos is the right margin position used for entry dates.
const rightTabPos = 10080

func documentXML(paragraphs []Paragraph) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		writeParagraph(&sb, p)
	}
	sb.WriteString(sectPrXML)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func writeParagraph(sb *strings.Builder, p Paragraph) {
	sb.WriteString("<w:p><w:pPr>")
	switch p.Style {
	case StyleName, StyleContact:
		sb.WriteString(`<w:jc w:val="center"/>`)
	case StyleHeading:
		sb.WriteString(`<w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="808080"/></w:pBdr>`)
		sb.WriteString(`<w:spacing w:before="240" w:after="80"/>`)
	case StyleEntryTitle:
		fmt.Fprintf(sb, `<w:tabs><w:tab w:val="right" w:pos="%d"/></w:tabs><w:spacing w:before="120"/>`, rightTabPos)
	case StyleBullet:
		sb.WriteString(`<w:ind w:left="360" w:hanging="200"/>`)
	}
	sb.WriteString("</w:pPr>")

	text := p.Text
	if p.Style == StyleBullet {
		text = "• " + text
	}
	writeRun(sb, text, runProps(p.Style))
	if p.Aside != "" {
		sb.WriteString(`<w:r><w:tab/></w:r>`)
		writeRun(sb, p.Aside, `<w:sz w:val="20"/>`)
	}
	sb.WriteString("</w:p>")
}

func runProps(style ParagraphStyle) string {
	switch style {
	case StyleName:
		return `<w:b/><w:sz w:val="36"/>`
	case StyleHeading:
		return `<w:b/><w:caps/><w:sz w:val="26"/>`
	case StyleEntryTitle:
		return `<w:b/><w:sz w:val="22"/>`
	case StyleEntryMeta:
		return `<w:i/><w:sz w:val="20"/>`
	default:
		return `<w:sz w:val="20"/>`
	}
}

func writeRun(sb *strings.Builder, text, props string) {
	if text == "" {
		return
	}
	sb.WriteString("<w:r>")
	if props != "" {
		sb.WriteString("<w:rPr>" + props + "</w:rPr>")
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(EscapeXML(text))
	sb.WriteString("</w:t></w:r>")
}
