package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes err as {"error": ...} and returns the status used.
// Internal errors are not echoed to the client.
func WriteError(w http.ResponseWriter, err error) int {
	status := StatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	WriteJSON(w, status, errorBody{Error: msg})
	return status
}

// DecodeJSON decodes the request body into v, reporting failures as
// validation errors.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

// Fail writes err and logs it: server faults at error level, client
// errors at debug.
func Fail(log *slog.Logger, w http.ResponseWriter, r *http.Request, op string, err error) {
	status := WriteError(w, err)
	viewer, _ := GetUserIDFromContext(r.Context())
	attrs := []any{"op", op, "status", status, "viewer", viewer, "err", err}
	if status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", attrs...)
		return
	}
	log.DebugContext(r.Context(), "request rejected", attrs...)
}
