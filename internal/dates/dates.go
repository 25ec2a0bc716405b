// Package dates validates the start/completion date ranges carried by
// education, work experience and project entries.
package dates

import (
	"strings"
	"time"

	"github.com/jonathan/job-assistant/internal/types"
)

// Field selects which side of a date range is being checked.
type Field string

const (
	FieldStart Field = "start"
	FieldEnd   Field = "end"
)

// Label returns the human-readable field name.
func (f Field) Label() string {
	if f == FieldEnd {
		return "Completion Date"
	}
	return "Start Date"
}

// Status is the display classification of a date input.
type Status string

const (
	StatusValid    Status = "valid"
	StatusInvalid  Status = "invalid"
	StatusDisabled Status = "disabled"
)

// Result is the outcome of checking one field.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Messages returned by Check.
const (
	MsgStartRequired = "Start date is required"
	MsgEndRequired   = "Completion date is required"
	MsgStartInvalid  = "Start date is not a valid date"
	MsgEndInvalid    = "Completion date is not a valid date"
	MsgStartFuture   = "Start date cannot be in the future"
	MsgEndFuture     = "Completion date cannot be in the future"
	MsgStartOrder    = "Start date must be before completion date"
	MsgEndOrder      = "Completion date must be after start date"
)

var layouts = []string{"2006-01-02", "2006-01"}

// Parse reads a YYYY-MM-DD or YYYY-MM date. A trailing time component
// (as produced by some APIs) is ignored.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i == 10 {
		s = s[:i]
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Today returns the calendar day of now as a UTC midnight, comparable with
// the values returned by Parse.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Check validates one field of a date range against today.
//
// Precedence: disabled end field for current entries, required, parseable,
// start in the future, completion in the future, then range order.
func Check(d types.Dates, field Field, today time.Time) Result {
	today = Today(today)

	if field == FieldEnd && d.IsCurrent {
		return Result{Status: StatusDisabled}
	}

	startRaw := strings.TrimSpace(d.StartDate)
	endRaw := strings.TrimSpace(d.CompletionDate)

	switch field {
	case FieldStart:
		if startRaw == "" {
			return invalid(MsgStartRequired)
		}
		start, ok := Parse(startRaw)
		if !ok {
			return invalid(MsgStartInvalid)
		}
		if start.After(today) {
			return invalid(MsgStartFuture)
		}
		if d.IsCurrent || endRaw == "" {
			return Result{Status: StatusValid}
		}
		if end, ok := Parse(endRaw); ok && end.Before(start) {
			return invalid(MsgStartOrder)
		}
	case FieldEnd:
		if endRaw == "" {
			return invalid(MsgEndRequired)
		}
		end, ok := Parse(endRaw)
		if !ok {
			return invalid(MsgEndInvalid)
		}
		if end.After(today) {
			return invalid(MsgEndFuture)
		}
		if start, ok := Parse(startRaw); ok && end.Before(start) {
			return invalid(MsgEndOrder)
		}
	}
	return Result{Status: StatusValid}
}

func invalid(msg string) Result {
	return Result{Status: StatusInvalid, Message: msg}
}

// ErrorMessage returns only the message of Check ("" when valid or disabled).
func ErrorMessage(d types.Dates, field Field, today time.Time) string {
	return Check(d, field, today).Message
}

// StatusOf returns only the status of Check.
func StatusOf(d types.Dates, field Field, today time.Time) Status {
	return Check(d, field, today).Status
}

// IsValid reports whether both sides of the range pass.
func IsValid(d types.Dates, today time.Time) bool {
	return StatusOf(d, FieldStart, today) != StatusInvalid &&
		StatusOf(d, FieldEnd, today) != StatusInvalid
}
