package editor

import (
	"fmt"

	"github.com/jonathan/job-assistant/internal/types"
)

// ErrProfileNotFound indicates the store has no profile for the user.
var ErrProfileNotFound = types.ErrProfileNotFound

// ValidationError indicates a draft or field failed minimal validation.
// The draft is kept so the user can correct it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// IndexError indicates an entry index outside the section.
type IndexError struct {
	Section types.Section
	Index   int
	Len     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range (len %d)", e.Section, e.Index, e.Len)
}

// PersistError wraps a failed store round trip. The local profile is
// left untouched.
type PersistError struct {
	Section types.Section
	Cause   error
}

func (e *PersistError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("failed to save profile: %v", e.Cause)
	}
	return fmt.Sprintf("failed to save %s: %v", e.Section, e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
