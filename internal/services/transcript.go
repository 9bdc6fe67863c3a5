package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"studycoach-backend/internal/models"
)

// TranscriptSource is the external captioning service.
type TranscriptSource interface {
	Fragments(ctx context.Context, videoID string) ([]models.TranscriptFragment, error)
}

type TranscriptFetcher struct {
	source  TranscriptSource
	timeout time.Duration
}

func NewTranscriptFetcher(source TranscriptSource, timeout time.Duration) *TranscriptFetcher {
	return &TranscriptFetcher{source: source, timeout: timeout}
}

// Fetch resolves the video id in url and returns the flattened transcript.
// It returns ErrInvalidURL when the URL has no id and a *TranscriptError for
// any failure of the transcript service.
func (f *TranscriptFetcher) Fetch(ctx context.Context, url string) (string, error) {
	videoID, ok := ResolveIdentifier(url)
	if !ok {
		return "", ErrInvalidURL
	}
	return f.FetchByID(ctx, videoID)
}

func (f *TranscriptFetcher) FetchByID(ctx context.Context, videoID string) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	fragments, err := f.source.Fragments(ctx, videoID)
	if err != nil {
		log.Printf("[transcript] %s: %v", videoID, err)
		return "", &TranscriptError{VideoID: videoID, Err: err}
	}
	if len(fragments) == 0 {
		return "", &TranscriptError{VideoID: videoID, Err: errors.New("no caption fragments returned")}
	}

	text := JoinFragments(fragments)
	if strings.TrimSpace(text) == "" {
		return "", &TranscriptError{VideoID: videoID, Err: errors.New("transcript has no text")}
	}
	return text, nil
}

// JoinFragments concatenates fragment texts with single spaces, keeping order.
func JoinFragments(fragments []models.TranscriptFragment) string {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}
