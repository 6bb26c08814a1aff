package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

type errorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

// writeErr maps the error taxonomy onto HTTP statuses in one place.
func writeErr(w http.ResponseWriter, err error) {
	var app *apperr.AppError
	if !errors.As(err, &app) {
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: apperr.CodeInternal, Message: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch app.Code {
	case apperr.CodeInvalidArgument:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeAlreadyExists:
		status = http.StatusConflict
	case apperr.CodePermissionDenied, apperr.CodeBlocked:
		status = http.StatusForbidden
	case apperr.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case apperr.CodeFailedPrecondition:
		status = http.StatusConflict
	}
	writeJSON(w, status, errorBody{Code: app.Code, Message: app.Message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErr(w, apperr.InvalidArg("malformed request body"))
		return false
	}
	return true
}
