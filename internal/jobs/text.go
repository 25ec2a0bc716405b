package jobs

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	inlineSpace = regexp.MustCompile(`[ \t\f\v\r]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
)

// blockTags end a line when rendered as plain text.
const blockTags = "p, div, li, br, h1, h2, h3, h4, h5, h6, tr, section, article, ul, ol"

// PlainText converts a job description from HTML to readable text. Block
// elements become line breaks and list items become "- " bullets.
// Input without markup is returned with whitespace normalized.
func PlainText(html string) (string, error) {
	if !strings.Contains(html, "<") {
		return normalizeText(html), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, iframe").Remove()
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	doc.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return normalizeText(doc.Text()), nil
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
