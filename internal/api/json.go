package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"tmsopt/internal/auth"
	"tmsopt/internal/routing"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// maxBodyBytes caps request bodies; matrices are the bulk of a request.
const maxBodyBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	w.Header().Set("Allow", allow)
	writeProblem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" not supported", r.URL.Path)
}

// writeError maps service and auth errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *routing.ValidationError
		ierr *routing.InfeasibleError
		cerr *routing.ConfigurationError
	)
	switch {
	case errors.As(err, &verr):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid request", verr.Error(), r.URL.Path)
	case errors.As(err, &ierr):
		writeProblem(w, http.StatusUnprocessableEntity, "Unprocessable", "No solution found", r.URL.Path)
	case errors.As(err, &cerr):
		writeProblem(w, http.StatusInternalServerError, "Routing configuration error", cerr.Error(), r.URL.Path)
	case errors.Is(err, auth.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Missing Authorization header", r.URL.Path)
	case errors.Is(err, auth.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "Invalid token", r.URL.Path)
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal error", err.Error(), r.URL.Path)
	}
}
