package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studycoach-backend/internal/models"
)

func testBundle(videoID, summary string) *models.StudyMaterialBundle {
	return &models.StudyMaterialBundle{
		ID:              uuid.New(),
		VideoID:         videoID,
		SourceURL:       WatchURL(videoID),
		Level:           models.LevelBeginner,
		Summary:         summary,
		FailedArtifacts: []models.ArtifactKind{},
		CreatedAt:       time.Now(),
	}
}

func TestSession_HistoryNewestFirst(t *testing.T) {
	store := NewSessionStore(time.Hour)
	s := store.Create()

	first := s.Append(testBundle("aaaaaaaaaaa", "first"))
	second := s.Append(testBundle("bbbbbbbbbbb", "second"))

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.Equal(t, "bbbbbbbbbbb", s.Latest().VideoID)

	// The returned slice is a copy.
	history[0] = models.HistoryEntry{}
	assert.Equal(t, second.ID, s.History()[0].ID)
}

func TestSession_Entry(t *testing.T) {
	s := NewSessionStore(time.Hour).Create()
	e := s.Append(testBundle("aaaaaaaaaaa", "x"))

	got, err := s.Entry(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaaaaa", got.Bundle.VideoID)

	_, err = s.Entry(uuid.New())
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestSession_TranscriptCache(t *testing.T) {
	s := NewSessionStore(time.Hour).Create()

	_, ok := s.CachedTranscript("aaaaaaaaaaa")
	assert.False(t, ok)

	s.CacheTranscript("aaaaaaaaaaa", "hello world")
	text, ok := s.CachedTranscript("aaaaaaaaaaa")
	assert.True(t, ok)
	assert.Equal(t, "hello world", text)

	_, ok = s.CachedTranscript("bbbbbbbbbbb")
	assert.False(t, ok)
}

func TestSessionStore_IsolatesSessions(t *testing.T) {
	store := NewSessionStore(time.Hour)
	a := store.Create()
	b := store.Create()

	a.Append(testBundle("aaaaaaaaaaa", "x"))

	assert.Len(t, a.History(), 1)
	assert.Empty(t, b.History())
	assert.Nil(t, b.Latest())
	assert.Equal(t, 2, store.Len())
}

func TestSessionStore_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Hour)
	store.now = func() time.Time { return now }

	s := store.Create()

	now = now.Add(30 * time.Minute)
	_, err := store.Get(s.ID)
	require.NoError(t, err, "activity inside the ttl keeps the session")

	now = now.Add(50 * time.Minute)
	assert.True(t, store.Alive(s.ID), "last access refreshed the idle timer")

	now = now.Add(2 * time.Hour)
	_, err = store.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, store.Len())
}

func TestSessionStore_Sweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Hour)
	store.now = func() time.Time { return now }

	idle := store.Create()
	now = now.Add(45 * time.Minute)
	active := store.Create()
	now = now.Add(30 * time.Minute)

	assert.Equal(t, 1, store.sweep())
	assert.False(t, store.Alive(idle.ID))
	assert.True(t, store.Alive(active.ID))
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(time.Hour)
	s := store.Create()
	store.Delete(s.ID)

	_, err := store.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	store.Stop()
	store.Stop()
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short...", Preview("short"))

	long := strings.Repeat("a", 350)
	p := Preview(long)
	assert.Equal(t, strings.Repeat("a", 300)+"...", p)

	// Counts characters, not bytes.
	assert.Equal(t, strings.Repeat("é", 300)+"...", Preview(strings.Repeat("é", 301)))
}

func TestHistoryItems(t *testing.T) {
	b := testBundle("aaaaaaaaaaa", "summary text")
	b.FailedArtifacts = []models.ArtifactKind{models.ArtifactResources}
	entry := models.HistoryEntry{ID: uuid.New(), VideoURL: b.SourceURL, Timestamp: b.CreatedAt, Bundle: b}

	items := HistoryItems([]models.HistoryEntry{entry})
	require.Len(t, items, 1)
	assert.Equal(t, entry.ID, items[0].ID)
	assert.Equal(t, "aaaaaaaaaaa", items[0].VideoID)
	assert.Equal(t, "summary text...", items[0].Preview)
	assert.True(t, items[0].Degraded)
}
