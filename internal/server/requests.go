package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/job-assistant/internal/rendering"
	"github.com/jonathan/job-assistant/internal/server/middleware"
	"github.com/jonathan/job-assistant/internal/types"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 2 << 20

// actingUser returns the user a request acts for. With authentication
// enabled it is the token subject, and a different explicit ID is
// rejected. Without authentication the explicit ID is required.
func (s *Server) actingUser(r *http.Request, explicit string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	if s.deps.Tokens != nil {
		authed, err := middleware.GetUserID(r)
		if err != nil {
			return "", &ErrForbidden{UserID: explicit}
		}
		if explicit != "" && explicit != authed {
			return "", &ErrForbidden{UserID: explicit}
		}
		return authed, nil
	}
	if explicit == "" {
		return "", &ErrValidation{Field: "userId", Message: "userId is required"}
	}
	return explicit, nil
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if err == io.EOF {
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: "Invalid JSON: " + err.Error()}
	}
	return nil
}

// readBody reads a bounded raw body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if len(data) == 0 {
		return nil, &ErrValidation{Field: "body", Message: "request body is empty"}
	}
	return data, nil
}

// pathIndex parses a non-negative integer path value.
func pathIndex(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &ErrValidation{Field: name, Message: fmt.Sprintf("invalid %s: %q", name, raw)}
	}
	return n, nil
}

// pathSection parses the {section} path value.
func pathSection(r *http.Request) (types.Section, error) {
	section, err := types.ParseSection(r.PathValue("section"))
	if err != nil {
		return "", &ErrValidation{Field: "section", Message: err.Error()}
	}
	return section, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrValidation{Field: key, Message: fmt.Sprintf("invalid %s: %q", key, raw)}
	}
	return n, nil
}

// queryFormat parses the export format query parameter.
func queryFormat(r *http.Request) (rendering.Format, error) {
	format, err := rendering.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return "", &ErrValidation{Field: "format", Message: err.Error()}
	}
	return format, nil
}

// writeDocument sends a rendered document as an attachment.
func (s *Server) writeDocument(w http.ResponseWriter, filename string, format rendering.Format, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
