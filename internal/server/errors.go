package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-assistant/internal/editor"
	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/remote"
	"github.com/jonathan/job-assistant/internal/rendering"
	"github.com/jonathan/job-assistant/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrForbidden indicates the caller acted on another user's data.
type ErrForbidden struct {
	UserID string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("not allowed to act for user %s", e.UserID)
}

// ErrUnavailable indicates an optional collaborator is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr   *ErrValidation
		forbiddenErr    *ErrForbidden
		unavailableErr  *ErrUnavailable
		editorValErr    *editor.ValidationError
		indexErr        *editor.IndexError
		jobsValErr      *jobs.ValidationError
		transitionErr   *jobs.TransitionError
		uploadErr       *ingestion.UploadError
		renderErr       *rendering.RenderError
		apiErr          *remote.APIError
		fieldErrs       validator.ValidationErrors
		invalidValueErr *validator.InvalidValidationError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &editorValErr),
		errors.As(err, &jobsValErr), errors.As(err, &fieldErrs), errors.As(err, &invalidValueErr):
		return http.StatusBadRequest
	case errors.As(err, &forbiddenErr):
		return http.StatusForbidden
	case errors.As(err, &indexErr),
		errors.Is(err, types.ErrProfileNotFound), errors.Is(err, jobs.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.As(err, &uploadErr):
		switch uploadErr.Kind {
		case ingestion.ErrUnsupportedType:
			return http.StatusUnsupportedMediaType
		case ingestion.ErrTooLarge:
			return http.StatusRequestEntityTooLarge
		case ingestion.ErrExtraction:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusBadGateway
		}
	case errors.As(err, &unavailableErr), errors.Is(err, remote.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the text shown to the client for err.
func publicMessage(err error, status int) string {
	var (
		uploadErr *ingestion.UploadError
		renderErr *rendering.RenderError
		editorErr *editor.ValidationError
		jobsErr   *jobs.ValidationError
		apiErr    *remote.APIError
	)
	switch {
	case errors.As(err, &uploadErr):
		return uploadErr.Message
	case errors.As(err, &renderErr):
		return rendering.MsgGenerateFailed
	case errors.As(err, &editorErr):
		return editorErr.Message
	case errors.As(err, &jobsErr):
		return jobsErr.Message
	case errors.As(err, &apiErr) && status != http.StatusServiceUnavailable:
		return "Upstream service error: " + apiErr.Message
	case status == http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}

// fail writes err as a JSON error with the mapped status.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] request failed: %v", err)
	}
	s.errorResponse(w, status, publicMessage(err, status))
}
