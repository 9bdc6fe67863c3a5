package models

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactKind names one of the four generated study artifacts.
type ArtifactKind string

const (
	ArtifactSummary      ArtifactKind = "summary"
	ArtifactFlashcards   ArtifactKind = "flashcards"
	ArtifactRevisionPlan ArtifactKind = "revision_plan"
	ArtifactResources    ArtifactKind = "resources"
)

// ArtifactKinds lists every artifact in bundle order.
var ArtifactKinds = []ArtifactKind{
	ArtifactSummary,
	ArtifactFlashcards,
	ArtifactRevisionPlan,
	ArtifactResources,
}

func ParseArtifactKind(s string) (ArtifactKind, bool) {
	for _, k := range ArtifactKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Title is the heading used for display and exports.
func (k ArtifactKind) Title() string {
	switch k {
	case ArtifactSummary:
		return "Summary"
	case ArtifactFlashcards:
		return "Flashcards"
	case ArtifactRevisionPlan:
		return "Revision Plan"
	case ArtifactResources:
		return "Resources"
	default:
		return string(k)
	}
}

type TranscriptFragment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Artifact is the outcome of one generation call. When Failed is set, Text
// holds the fallback sentence and Error the reason.
type Artifact struct {
	Kind   ArtifactKind `json:"kind"`
	Text   string       `json:"text"`
	Failed bool         `json:"failed"`
	Error  string       `json:"error,omitempty"`
}

type StudyMaterialBundle struct {
	ID              uuid.UUID      `json:"id"`
	VideoID         string         `json:"video_id"`
	SourceURL       string         `json:"source_url"`
	Level           Level          `json:"level"`
	Summary         string         `json:"summary"`
	Flashcards      string         `json:"flashcards"`
	RevisionPlan    string         `json:"revision_plan"`
	Resources       string         `json:"resources"`
	FailedArtifacts []ArtifactKind `json:"failed_artifacts"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Text returns the artifact text stored in the bundle for kind.
func (b *StudyMaterialBundle) Text(kind ArtifactKind) string {
	switch kind {
	case ArtifactSummary:
		return b.Summary
	case ArtifactFlashcards:
		return b.Flashcards
	case ArtifactRevisionPlan:
		return b.RevisionPlan
	case ArtifactResources:
		return b.Resources
	default:
		return ""
	}
}

// Degraded reports whether any artifact fell back to the error sentence.
func (b *StudyMaterialBundle) Degraded() bool {
	return len(b.FailedArtifacts) > 0
}

type HistoryEntry struct {
	ID        uuid.UUID            `json:"id"`
	VideoURL  string               `json:"video_url"`
	Timestamp time.Time            `json:"timestamp"`
	Bundle    *StudyMaterialBundle `json:"bundle"`
}

// HistoryItem is the list view of a HistoryEntry.
type HistoryItem struct {
	ID        uuid.UUID `json:"id"`
	VideoURL  string    `json:"video_url"`
	VideoID   string    `json:"video_id"`
	Level     Level     `json:"level"`
	Timestamp time.Time `json:"timestamp"`
	Preview   string    `json:"preview"`
	Degraded  bool      `json:"degraded"`
}

type VideoInfo struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title,omitempty"`
	Author          string `json:"author,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	ThumbnailURL    string `json:"thumbnail_url"`
}

type GenerateRequest struct {
	URL   string `json:"url"`
	Level Level  `json:"level"`
}

type TranscriptRequest struct {
	URL string `json:"url"`
}

type TranscriptResponse struct {
	VideoID    string `json:"video_id"`
	Transcript string `json:"transcript"`
	WordCount  int    `json:"word_count"`
}

type Feedback struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type BundleResponse struct {
	EntryID uuid.UUID            `json:"entry_id"`
	Bundle  *StudyMaterialBundle `json:"bundle"`
}

type ArtifactRequest struct {
	URL   string `json:"url"`
	Level Level  `json:"level"`
}

type ResolveResponse struct {
	Found bool `json:"found"`
	*VideoInfo
}
