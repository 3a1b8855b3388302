package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dajer93/lunchplanner-api/internal/repository"
	"github.com/dajer93/lunchplanner-api/internal/services"
	"github.com/go-playground/validator/v10"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, destination interface{}) error {
	return json.NewDecoder(r.Body).Decode(destination)
}

// writeRepositoryError maps the repository error taxonomy onto HTTP
// statuses. NotFound stays NotFound even for foreign-owned absent ids,
// so existence of other users' records never leaks.
func writeRepositoryError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, repository.ErrForbidden):
		writeError(w, http.StatusForbidden, "not authorized to access this "+resource)
	case errors.Is(err, repository.ErrEmailExists):
		writeError(w, http.StatusConflict, "user with this email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// firstValidationError turns a validator result into a single message
// naming the first offending field; batch requests are rejected as a
// whole on that first failure.
func firstValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		return fmt.Sprintf("field '%s' failed on the '%s' rule", first.Field(), first.Tag())
	}
	return "invalid request body"
}
