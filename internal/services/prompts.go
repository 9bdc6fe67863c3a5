package services

import (
	"fmt"

	"studycoach-backend/internal/models"
)

const (
	summaryInstruction = "You're a helpful study coach. Summarize the following video transcript into clear, bullet-point notes " +
		"within 300 words, using %s. Transcript:\n"
	flashcardsInstruction = "You're an AI tutor creating flashcards. From the transcript, generate 5–10 flashcards in Q&A format " +
		"using %s. Make the answers short and factual. Transcript:\n"
	revisionPlanInstruction = "Create a 5-day revision plan based on the transcript, using %s. " +
		"For each day, include:\n" +
		"1. Topics to revise\n2. One quiz-style question\n3. Time estimate (in minutes). Transcript:\n"
	resourcesInstruction = "From this transcript, suggest 2 to 3 YouTube videos or resources that help learners go deeper. " +
		"Include a short reason for each recommendation. Transcript:\n"
)

// BuildPrompt composes the instruction for kind followed by the transcript
// verbatim. Unknown kinds yield an empty string.
func BuildPrompt(kind models.ArtifactKind, level models.Level, transcript string) string {
	switch kind {
	case models.ArtifactSummary:
		return SummaryPrompt(transcript, level)
	case models.ArtifactFlashcards:
		return FlashcardsPrompt(transcript, level)
	case models.ArtifactRevisionPlan:
		return RevisionPlanPrompt(transcript, level)
	case models.ArtifactResources:
		return ResourcesPrompt(transcript)
	default:
		return ""
	}
}

func SummaryPrompt(transcript string, level models.Level) string {
	return fmt.Sprintf(summaryInstruction, level.Style()) + transcript
}

func FlashcardsPrompt(transcript string, level models.Level) string {
	return fmt.Sprintf(flashcardsInstruction, level.Style()) + transcript
}

func RevisionPlanPrompt(transcript string, level models.Level) string {
	return fmt.Sprintf(revisionPlanInstruction, level.Style()) + transcript
}

// ResourcesPrompt does not depend on the difficulty level.
func ResourcesPrompt(transcript string) string {
	return resourcesInstruction + transcript
}
