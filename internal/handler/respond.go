package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/csshost/csshost/internal/repository"
	"github.com/csshost/csshost/internal/service"
	"github.com/csshost/csshost/internal/storage"
	"github.com/csshost/csshost/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondServiceError maps the error taxonomy onto HTTP statuses: validation
// 400, bad credentials 401, denied 403, missing 404, quota 413, upstream
// storage 502, everything else 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validation.ErrUnsupportedType),
		errors.Is(err, validation.ErrTooLarge),
		errors.Is(err, validation.ErrInvalidName),
		errors.Is(err, validation.ErrInvalidEmail),
		errors.Is(err, validation.ErrWeakPassword):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrFileNotFound),
		errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, storage.ErrObjectNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrQuotaExceeded):
		respondError(w, http.StatusRequestEntityTooLarge, "storage quota exceeded")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStorageWrite), errors.Is(err, service.ErrStorageRead):
		slog.Error("object storage failure", "error", err)
		respondError(w, http.StatusBadGateway, "storage unavailable")
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
