package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"studycoach-backend/internal/middleware"
	"studycoach-backend/internal/models"
	"studycoach-backend/internal/repository"
	"studycoach-backend/internal/services"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return errorRespWithFields(code, message, nil, r)
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	requestID := middleware.GetRequestID(r.Context())
	if requestID == "" {
		requestID = r.Header.Get("X-Request-ID")
	}
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: requestID,
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidURL):
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_URL", services.InvalidURLMessage, r))
	case errors.Is(err, services.ErrTranscriptUnavailable):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("TRANSCRIPT_UNAVAILABLE", services.TranscriptUnavailableMessage, r))
	case errors.Is(err, services.ErrSessionNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResp("SESSION_EXPIRED", "Session has expired", r))
	case errors.Is(err, services.ErrEntryNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "History entry not found", r))
	case errors.Is(err, repository.ErrJobNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
	case errors.Is(err, services.ErrQueueUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResp("QUEUE_UNAVAILABLE", "Background processing is unavailable", r))
	default:
		log.Printf("Internal error on %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("PAYLOAD_TOO_LARGE", "Request body too large", r))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return false
	}
	return true
}
