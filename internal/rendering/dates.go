package rendering

import (
	"strings"

	"github.com/jonathan/job-assistant/internal/dates"
	"github.com/jonathan/job-assistant/internal/types"
)

// Present is rendered as the end of a current entry.
const Present = "Present"

// FormatMonthYear renders an ISO date as "Mon YYYY" ("2022-03-15" → "Mar 2022").
// Values that do not parse are returned trimmed but otherwise unchanged.
func FormatMonthYear(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, ok := dates.Parse(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2006")
}

// FormatRange renders a date range as "Mar 2022 - Present".
func FormatRange(d types.Dates) string {
	start := FormatMonthYear(d.StartDate)
	end := FormatMonthYear(d.CompletionDate)
	if d.IsCurrent {
		end = Present
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + " - " + end
	}
}
