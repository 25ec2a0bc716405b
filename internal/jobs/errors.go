package jobs

import (
	"errors"
	"fmt"

	"github.com/jonathan/job-assistant/internal/types"
)

// ErrNotFound indicates the interaction does not exist for the user.
var ErrNotFound = errors.New("job interaction not found")

// TransitionError indicates a status change the tracker does not allow.
type TransitionError struct {
	From types.InteractionStatus
	To   types.InteractionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move interaction from %s to %s", e.From, e.To)
}

// ValidationError indicates a request is missing required input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
