package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studycoach-backend/internal/middleware"
	"studycoach-backend/internal/models"
	"studycoach-backend/internal/services"
)

type jobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Delete(ctx context.Context, id uuid.UUID)
}

// jobQueue is satisfied by a thin wrapper over a Redis list.
type jobQueue interface {
	Push(ctx context.Context, queue string, payload []byte) error
}

type JobHandler struct {
	jobRepo jobRepository
	queue   jobQueue
}

func NewJobHandler(jobRepo jobRepository, queue jobQueue) *JobHandler {
	return &JobHandler{jobRepo: jobRepo, queue: queue}
}

// Enqueue accepts a bundle request for background processing.
func (h *JobHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		handleServiceError(w, r, services.ErrQueueUnavailable)
		return
	}

	var req models.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, ok := services.ResolveIdentifier(req.URL); !ok {
		handleServiceError(w, r, services.ErrInvalidURL)
		return
	}

	job := &models.Job{
		SessionID: middleware.GetSessionID(r.Context()),
		URL:       req.URL,
		Level:     req.Level,
	}
	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}

	jobBytes, _ := json.Marshal(job)
	if err := h.queue.Push(r.Context(), models.StudyJobQueue, jobBytes); err != nil {
		log.Printf("failed to enqueue study-generation job %s: %v", job.ID, err)
		h.jobRepo.Delete(r.Context(), job.ID)
		handleServiceError(w, r, services.ErrQueueUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.ID,
		"status": job.Status,
	})
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// Jobs of other sessions are reported as missing
	if job.SessionID != middleware.GetSessionID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}

	writeJSON(w, http.StatusOK, job)
}
