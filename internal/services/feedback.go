package services

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"studycoach-backend/internal/models"
)

var feedbackSeparator = strings.Repeat("-", 40)

// FeedbackService appends contact form submissions to a plain text log.
type FeedbackService struct {
	mu   sync.Mutex
	path string
}

func NewFeedbackService(path string) *FeedbackService {
	return &FeedbackService{path: path}
}

func (s *FeedbackService) Submit(fb models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open feedback log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "Name: %s\nEmail: %s\nMessage: %s\n%s\n", fb.Name, fb.Email, fb.Message, feedbackSeparator); err != nil {
		return fmt.Errorf("write feedback: %w", err)
	}
	return nil
}
