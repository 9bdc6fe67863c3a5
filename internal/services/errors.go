package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL means no video identifier could be extracted from the URL.
	ErrInvalidURL = errors.New("invalid YouTube URL: no video identifier found")
	// ErrTranscriptUnavailable covers missing captions, private or removed videos,
	// network failures and timeouts of the transcript service.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	// ErrGenerationFailed means a model call produced no usable text.
	ErrGenerationFailed = errors.New("generation failed")

	ErrSessionNotFound  = errors.New("session not found")
	ErrEntryNotFound    = errors.New("history entry not found")
	ErrQueueUnavailable = errors.New("job queue unavailable")
)

// TranscriptError wraps the transcript service failure for a video.
// errors.Is(err, ErrTranscriptUnavailable) holds for every TranscriptError.
type TranscriptError struct {
	VideoID string
	Err     error
}

func (e *TranscriptError) Error() string {
	return fmt.Sprintf("transcript unavailable for video %s: %v", e.VideoID, e.Err)
}

func (e *TranscriptError) Unwrap() error { return e.Err }

func (e *TranscriptError) Is(target error) bool { return target == ErrTranscriptUnavailable }

// GenerationError wraps a failed model call.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("gemini %s: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

const (
	InvalidURLMessage            = "Please enter a valid YouTube URL."
	TranscriptUnavailableMessage = "Could not extract the transcript. Please check the video URL."
)

// ClassifyError maps a pipeline error to the code and message reported to
// the user in progress events.
func ClassifyError(err error) (code, message string) {
	switch {
	case errors.Is(err, ErrInvalidURL):
		return "INVALID_URL", InvalidURLMessage
	case errors.Is(err, ErrTranscriptUnavailable):
		return "TRANSCRIPT_UNAVAILABLE", TranscriptUnavailableMessage
	default:
		return "JOB_FAILED", err.Error()
	}
}
