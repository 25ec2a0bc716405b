package llm

import (
	"strings"

	"github.com/tidwall/gjson"
)

// CleanJSONBlock strips markdown fences and surrounding prose from a model
// response and returns the first complete JSON object or array in it. The
// input is returned trimmed when no valid JSON value is found.
func CleanJSONBlock(text string) string {
	text = stripFence(strings.TrimSpace(text))
	if gjson.Valid(text) {
		return text
	}
	for i, r := range text {
		if r != '{' && r != '[' {
			continue
		}
		if v := balancedPrefix(text[i:]); v != "" && gjson.Valid(v) {
			return v
		}
	}
	return text
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop a language tag such as "json" on the opening line.
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		if tag := text[:nl]; !strings.ContainsAny(tag, " {[") {
			text = text[nl+1:]
		}
	}
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// balancedPrefix returns the shortest prefix of s whose brackets balance,
// ignoring brackets inside strings. s must start with '{' or '['.
func balancedPrefix(s string) string {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
