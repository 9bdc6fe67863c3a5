package handlers

import (
	"log"
	"net/http"
	"strings"

	"studycoach-backend/internal/models"
)

type feedbackSubmitter interface {
	Submit(fb models.Feedback) error
}

type FeedbackHandler struct {
	feedback feedbackSubmitter
}

func NewFeedbackHandler(feedback feedbackSubmitter) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var fb models.Feedback
	if !decodeJSON(w, r, &fb) {
		return
	}

	if strings.TrimSpace(fb.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"message": "Message is required"}, r))
		return
	}

	if err := h.feedback.Submit(fb); err != nil {
		log.Printf("failed to record feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record feedback", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Thank you for your feedback!"})
}
