package errors

import (
	"encoding/json"
	"net/http"
)

// WriteError maps err through ToAppError and writes it as JSON.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := ToAppError(err)
	if appErr == nil {
		appErr = Internal("An unexpected error occurred", nil)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())

	response := ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}

	// Return error so caller can log - no recovery possible after WriteHeader
	return json.NewEncoder(w).Encode(response)
}
