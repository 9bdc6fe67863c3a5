package models

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID          uuid.UUID  `json:"id"`
	SessionID   uuid.UUID  `json:"session_id"`
	URL         string     `json:"url"`
	Level       Level      `json:"level"`
	Status      string     `json:"status"` // "pending" | "processing" | "completed" | "failed"
	EntryID     *uuid.UUID `json:"entry_id,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StatusUpdate struct {
	JobID    *uuid.UUID `json:"job_id,omitempty"`
	Step     int        `json:"step"`
	StepName string     `json:"step_name"`
}

type CompletedEvent struct {
	JobID    *uuid.UUID `json:"job_id,omitempty"`
	EntryID  uuid.UUID  `json:"entry_id"`
	Degraded bool       `json:"degraded"`
}

type ErrorEvent struct {
	JobID        *uuid.UUID `json:"job_id,omitempty"`
	ErrorCode    string     `json:"error_code"`
	ErrorMessage string     `json:"error_message"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// StudyJobQueue is the Redis list background bundle jobs are pushed to.
const StudyJobQueue = "queue:study-generation"
