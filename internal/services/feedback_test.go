package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studycoach-backend/internal/models"
)

func TestFeedbackService_Submit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.txt")
	s := NewFeedbackService(path)

	require.NoError(t, s.Submit(models.Feedback{Name: "Ada", Email: "ada@example.com", Message: "Great tool"}))
	require.NoError(t, s.Submit(models.Feedback{Name: "Lin", Email: "", Message: "More levels please"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	sep := strings.Repeat("-", 40)
	want := "Name: Ada\nEmail: ada@example.com\nMessage: Great tool\n" + sep + "\n" +
		"Name: Lin\nEmail: \nMessage: More levels please\n" + sep + "\n"
	assert.Equal(t, want, string(data))
}

func TestFeedbackService_UnwritablePath(t *testing.T) {
	s := NewFeedbackService(filepath.Join(t.TempDir(), "missing", "feedback.txt"))
	assert.Error(t, s.Submit(models.Feedback{Message: "x"}))
}
