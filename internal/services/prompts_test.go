package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"studycoach-backend/internal/models"
)

func TestSummaryPrompt_LevelStyles(t *testing.T) {
	tests := []struct {
		level string
		style string
	}{
		{"Beginner", "super simple language like you're teaching someone new to the topic"},
		{"beginner", "super simple language like you're teaching someone new to the topic"},
		{"INTERMEDIATE", "clear language suitable for college students who know the basics"},
		{"Advanced", "technical and detailed language suitable for professionals or advanced learners"},
		{"expert", "clear language for general learners"},
		{"", "clear language for general learners"},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			prompt := SummaryPrompt("transcript body", models.ParseLevel(tc.level))
			assert.Contains(t, prompt, tc.style)
			assert.True(t, strings.HasSuffix(prompt, "Transcript:\ntranscript body"))
		})
	}
}

func TestPromptsCarryTranscriptVerbatim(t *testing.T) {
	transcript := "Line one.\n  Line two with  spacing & symbols <>"

	for _, kind := range models.ArtifactKinds {
		prompt := BuildPrompt(kind, models.LevelBeginner, transcript)
		assert.True(t, strings.HasSuffix(prompt, transcript), "kind %s", kind)
	}
}

func TestPromptsAreIdempotent(t *testing.T) {
	for _, kind := range models.ArtifactKinds {
		a := BuildPrompt(kind, models.LevelAdvanced, "same input")
		b := BuildPrompt(kind, models.LevelAdvanced, "same input")
		assert.Equal(t, a, b, "kind %s", kind)
	}
}

func TestResourcesPrompt_IgnoresLevel(t *testing.T) {
	a := BuildPrompt(models.ArtifactResources, models.LevelBeginner, "x")
	b := BuildPrompt(models.ArtifactResources, models.LevelAdvanced, "x")
	assert.Equal(t, a, b)
	assert.Contains(t, a, "suggest 2 to 3 YouTube videos or resources")
}

func TestPromptInstructions(t *testing.T) {
	assert.Contains(t, FlashcardsPrompt("x", models.LevelBeginner), "generate 5–10 flashcards in Q&A format")
	assert.Contains(t, RevisionPlanPrompt("x", models.LevelBeginner), "Create a 5-day revision plan")
	assert.Contains(t, RevisionPlanPrompt("x", models.LevelBeginner), "3. Time estimate (in minutes)")
	assert.Contains(t, SummaryPrompt("x", models.LevelBeginner), "within 300 words")
}

func TestBuildPrompt_UnknownKind(t *testing.T) {
	assert.Empty(t, BuildPrompt(models.ArtifactKind("quiz"), models.LevelBeginner, "x"))
}
