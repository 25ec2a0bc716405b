package rendering

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "DejaVu"
	pdfMargin     = 18.0
	pdfLineHeight = 5.0
	pdfDatesWidth = 45.0
)

// Cover letters shrink from the regular size down to the minimum until
// they fit on one page.
const (
	letterFontSize    = 11.0
	letterMinFontSize = 8.0
	letterFontStep    = 0.5
	letterLeading     = 0.5 // mm per point of font size
)

// DejaVu Sans Condensed covers Latin, Greek and Cyrillic, so names and
// places are not limited to the cp1252 core fonts.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	fontItalic []byte
)

// pdfWriter wraps fpdf with the resume layout helpers.
type pdfWriter struct {
	pdf   *fpdf.Fpdf
	width float64
}

func newPDFWriter(title string) *pdfWriter {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddUTF8FontFromBytes(pdfFont, "", fontRegular)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", fontBold)
	pdf.AddUTF8FontFromBytes(pdfFont, "I", fontItalic)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("job-assistant", true)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	return &pdfWriter{pdf: pdf, width: pageW - 2*pdfMargin}
}

// pdfText makes s safe for the embedded font, which only maps the Basic
// Multilingual Plane. Other runes and invalid bytes become '?'.
func pdfText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == utf8.RuneError || r > 0xFFFF {
			return '?'
		}
		return r
	}, s)
}

func (w *pdfWriter) header(h Header) {
	if h.Name != "" {
		w.pdf.SetFont(pdfFont, "B", 20)
		w.pdf.CellFormat(0, 10, pdfText(h.Name), "", 1, "C", false, 0, "")
	}
	w.pdf.SetFont(pdfFont, "", 10)
	if len(h.Contact) > 0 {
		w.pdf.CellFormat(0, pdfLineHeight, pdfText(strings.Join(h.Contact, "  |  ")), "", 1, "C", false, 0, "")
	}
	if len(h.Links) > 0 {
		w.pdf.CellFormat(0, pdfLineHeight, pdfText(strings.Join(h.Links, "  |  ")), "", 1, "C", false, 0, "")
	}
	w.pdf.Ln(3)
}

func (w *pdfWriter) section(s Section) {
	w.pdf.Ln(2)
	w.pdf.SetFont(pdfFont, "B", 13)
	w.pdf.CellFormat(0, 7, pdfText(strings.ToUpper(s.Title)), "", 1, "L", false, 0, "")
	y := w.pdf.GetY()
	w.pdf.SetDrawColor(120, 120, 120)
	w.pdf.Line(pdfMargin, y, pdfMargin+w.width, y)
	w.pdf.Ln(1.5)

	for _, e := range s.Entries {
		w.entry(e)
	}
}

func (w *pdfWriter) entry(e Entry) {
	if e.Title != "" || e.Dates != "" {
		w.pdf.SetFont(pdfFont, "B", 11)
		titleWidth := w.width
		if e.Dates != "" {
			titleWidth -= pdfDatesWidth
		}
		w.pdf.CellFormat(titleWidth, 6, pdfText(e.Title), "", 0, "L", false, 0, "")
		if e.Dates != "" {
			w.pdf.SetFont(pdfFont, "", 10)
			w.pdf.CellFormat(pdfDatesWidth, 6, pdfText(e.Dates), "", 0, "R", false, 0, "")
		}
		w.pdf.Ln(6)
	}

	if line := joinNonEmpty(" - ", e.Subtitle, e.Meta); line != "" {
		w.pdf.SetFont(pdfFont, "I", 10)
		w.pdf.MultiCell(0, pdfLineHeight, pdfText(line), "", "L", false)
	}
	if e.Body != "" {
		w.pdf.SetFont(pdfFont, "", 10)
		w.pdf.MultiCell(0, pdfLineHeight, pdfText(e.Body), "", "L", false)
	}
	if len(e.Bullets) > 0 {
		w.pdf.SetFont(pdfFont, "", 10)
		for _, b := range e.Bullets {
			w.pdf.SetX(pdfMargin + 3)
			w.pdf.MultiCell(w.width-3, pdfLineHeight, pdfText("• "+b), "", "L", false)
		}
	}
	w.pdf.Ln(1.5)
}

func (w *pdfWriter) output(dst io.Writer) error {
	if w.pdf.Err() {
		return w.pdf.Error()
	}
	return w.pdf.Output(dst)
}

// RenderPDF serializes a document as PDF.
func RenderPDF(doc *Document) (out []byte, err error) {
	defer recoverRender(FormatPDF, &err)

	w := newPDFWriter(doc.Header.Name)
	w.header(doc.Header)
	for _, s := range doc.Sections {
		w.section(s)
	}

	var buf bytes.Buffer
	if err := w.output(&buf); err != nil {
		return nil, &RenderError{Format: FormatPDF, Message: MsgGenerateFailed, Cause: err}
	}
	return buf.Bytes(), nil
}

// RenderCoverLetterPDF lays a plain-text letter out on a single page, one
// paragraph per input line. Long letters are set in a smaller font, and
// whatever still does not fit at the minimum size is cut off.
func RenderCoverLetterPDF(text string) (out []byte, err error) {
	defer recoverRender(FormatPDF, &err)

	lines := splitLines(text)
	w := newPDFWriter("Cover Letter")
	_, pageH := w.pdf.GetPageSize()
	room := pageH - pdfMargin - w.pdf.GetY()

	size := letterFontSize
	for size > letterMinFontSize && w.letterHeight(lines, size) > room {
		size -= letterFontStep
	}
	if !w.letter(lines, size, pageH-pdfMargin) {
		log.Printf("[render] cover letter truncated to one page at %.1fpt", size)
	}

	var buf bytes.Buffer
	if err := w.output(&buf); err != nil {
		return nil, &RenderError{Format: FormatPDF, Message: MsgGenerateFailed, Cause: err}
	}
	return buf.Bytes(), nil
}

// letterHeight is the height the paragraphs take when wrapped at size.
func (w *pdfWriter) letterHeight(lines []string, size float64) float64 {
	w.pdf.SetFont(pdfFont, "", size)
	lineH := size * letterLeading
	h := 0.0
	for _, line := range lines {
		if line == "" {
			h += lineH
			continue
		}
		h += float64(len(w.pdf.SplitText(pdfText(line), w.width))) * lineH
	}
	return h
}

// letter writes the paragraphs without breaking the page. It reports
// false when lines were dropped at bottom.
func (w *pdfWriter) letter(lines []string, size, bottom float64) bool {
	w.pdf.SetAutoPageBreak(false, pdfMargin)
	w.pdf.SetFont(pdfFont, "", size)
	lineH := size * letterLeading
	for _, line := range lines {
		if line == "" {
			w.pdf.Ln(lineH)
			continue
		}
		for _, l := range w.pdf.SplitText(pdfText(line), w.width) {
			if w.pdf.GetY()+lineH > bottom {
				return false
			}
			w.pdf.CellFormat(w.width, lineH, l, "", 1, "L", false, 0, "")
		}
	}
	return true
}

// recoverRender converts a renderer panic into a RenderError.
func recoverRender(format Format, err *error) {
	if r := recover(); r != nil {
		*err = &RenderError{Format: format, Message: MsgGenerateFailed, Cause: fmt.Errorf("panic: %v", r)}
	}
}

func joinNonEmpty(sep string, values ...string) string {
	return strings.Join(nonEmpty(values...), sep)
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}
