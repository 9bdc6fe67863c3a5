package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"studycoach-backend/internal/models"
)

const (
	previewLength        = 300
	sessionSweepInterval = time.Minute
)

// Session is the state owned by one user session: the append-only history,
// the most recent bundle and the last fetched transcript.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu                sync.RWMutex
	lastSeen          time.Time
	history           []models.HistoryEntry
	latest            *models.StudyMaterialBundle
	transcriptVideoID string
	transcript        string
}

// Append records bundle as a new history entry.
func (s *Session) Append(bundle *models.StudyMaterialBundle) models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.HistoryEntry{
		ID:        uuid.New(),
		VideoURL:  bundle.SourceURL,
		Timestamp: bundle.CreatedAt,
		Bundle:    bundle,
	}
	s.history = append(s.history, entry)
	s.latest = bundle
	return entry
}

// History returns the entries newest first.
func (s *Session) History() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryEntry, len(s.history))
	for i, e := range s.history {
		out[len(s.history)-1-i] = e
	}
	return out
}

func (s *Session) Entry(id uuid.UUID) (models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.history {
		if e.ID == id {
			return e, nil
		}
	}
	return models.HistoryEntry{}, ErrEntryNotFound
}

func (s *Session) Latest() *models.StudyMaterialBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Session) CacheTranscript(videoID, transcript string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcriptVideoID = videoID
	s.transcript = transcript
}

// CachedTranscript returns the last transcript fetched in this session if it
// belongs to videoID.
func (s *Session) CachedTranscript(videoID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.transcriptVideoID == "" || s.transcriptVideoID != videoID {
		return "", false
	}
	return s.transcript, true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastSeen)
}

// HistoryItems builds the list view of entries.
func HistoryItems(entries []models.HistoryEntry) []models.HistoryItem {
	items := make([]models.HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.HistoryItem{
			ID:        e.ID,
			VideoURL:  e.VideoURL,
			VideoID:   e.Bundle.VideoID,
			Level:     e.Bundle.Level,
			Timestamp: e.Timestamp,
			Preview:   Preview(e.Bundle.Summary),
			Degraded:  e.Bundle.Degraded(),
		})
	}
	return items
}

// Preview returns the first 300 characters of text followed by "...".
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return string(runes) + "..."
}

// SessionStore keeps sessions in memory and drops those idle longer than ttl.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

func (st *SessionStore) Create() *Session {
	now := st.now()
	s := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		lastSeen:  now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns a live session and refreshes its idle timer.
func (st *SessionStore) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := st.now()
	if st.ttl > 0 && s.idleSince(now) > st.ttl {
		st.Delete(id)
		return nil, ErrSessionNotFound
	}

	s.touch(now)
	return s, nil
}

func (st *SessionStore) Delete(id uuid.UUID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Start launches the janitor goroutine.
func (st *SessionStore) Start() {
	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-st.stopChan:
				return
			case <-ticker.C:
				if n := st.sweep(); n > 0 {
					log.Printf("Expired %d idle sessions", n)
				}
			}
		}
	}()
}

func (st *SessionStore) Stop() {
	st.stopOnce.Do(func() { close(st.stopChan) })
}

func (st *SessionStore) sweep() int {
	if st.ttl <= 0 {
		return 0
	}

	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Alive reports whether id names a live session and refreshes it.
func (st *SessionStore) Alive(id uuid.UUID) bool {
	_, err := st.Get(id)
	return err == nil
}
