package services

import (
	"context"
	"strings"
	"sync"

	"studycoach-backend/internal/models"
)

type fakeSource struct {
	fragments []models.TranscriptFragment
	err       error
	calls     int
	lastID    string
}

func (f *fakeSource) Fragments(ctx context.Context, videoID string) ([]models.TranscriptFragment, error) {
	f.calls++
	f.lastID = videoID
	if f.err != nil {
		return nil, f.err
	}
	return f.fragments, nil
}

func fragmentsOf(texts ...string) []models.TranscriptFragment {
	out := make([]models.TranscriptFragment, len(texts))
	for i, t := range texts {
		out[i] = models.TranscriptFragment{Text: t, Start: float64(i), Duration: 1}
	}
	return out
}

// fakeGenerator answers by prompt prefix and records every prompt.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	failOn  map[string]error
	reply   func(prompt string) string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	for prefix, err := range g.failOn {
		if strings.HasPrefix(prompt, prefix) {
			return "", err
		}
	}
	if g.reply != nil {
		return g.reply(prompt), nil
	}
	return "generated", nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}
