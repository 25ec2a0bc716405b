package rendering

import "fmt"

// MsgGenerateFailed is the user-facing text for any export failure.
const MsgGenerateFailed = "Failed to generate document"

// RenderError represents a document serialization failure. No partial
// output is produced when it is returned.
type RenderError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error (%s): %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error (%s): %s", e.Format, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
