package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"studycoach-backend/internal/models"
	"studycoach-backend/internal/repository"
	"studycoach-backend/internal/services"
)

type stubGenerator struct {
	err   error
	calls int
}

func (g *stubGenerator) GenerateBundleWithProgress(ctx context.Context, url string, level models.Level, progress services.ProgressFunc) (*models.StudyMaterialBundle, error) {
	g.calls++
	if progress != nil {
		progress(1, "Extracting transcript and analyzing")
	}
	if g.err != nil {
		return nil, g.err
	}
	return &models.StudyMaterialBundle{
		ID:              uuid.New(),
		VideoID:         "dQw4w9WgXcQ",
		SourceURL:       url,
		Level:           level,
		FailedArtifacts: []models.ArtifactKind{models.ArtifactResources},
		CreatedAt:       time.Now(),
	}, nil
}

type capturePublisher struct {
	mu       sync.Mutex
	messages []models.WSMessage
}

func (p *capturePublisher) Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *capturePublisher) last() models.WSMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages[len(p.messages)-1]
}

func newJob(t *testing.T, repo *repository.JobRepo, sessionID uuid.UUID) *models.Job {
	t.Helper()
	job := &models.Job{SessionID: sessionID, URL: "https://youtu.be/dQw4w9WgXcQ", Level: models.LevelAdvanced}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func TestPool_Process_Success(t *testing.T) {
	sessions := services.NewSessionStore(time.Hour)
	session := sessions.Create()
	repo := repository.NewJobRepo()
	pub := &capturePublisher{}
	gen := &stubGenerator{}

	p := NewPool(nil, gen, sessions, repo, pub, 1)
	job := newJob(t, repo, session.ID)
	p.Process(context.Background(), job)

	stored, _ := repo.GetByID(context.Background(), job.ID)
	if stored.Status != models.JobCompleted || stored.EntryID == nil {
		t.Fatalf("expected completed job with entry, got %+v", stored)
	}

	history := session.History()
	if len(history) != 1 || history[0].ID != *stored.EntryID {
		t.Fatalf("expected bundle appended to the job's session")
	}

	msg := pub.last()
	if msg.Type != "completed" {
		t.Fatalf("expected completed event, got %s", msg.Type)
	}
	event := msg.Payload.(models.CompletedEvent)
	if *event.JobID != job.ID || !event.Degraded {
		t.Fatalf("unexpected completed event: %+v", event)
	}
	if pub.messages[0].Type != "status_update" {
		t.Fatalf("expected progress before completion, got %s", pub.messages[0].Type)
	}
}

func TestPool_Process_TranscriptFailureIsNotRetried(t *testing.T) {
	sessions := services.NewSessionStore(time.Hour)
	session := sessions.Create()
	repo := repository.NewJobRepo()
	pub := &capturePublisher{}
	gen := &stubGenerator{err: &services.TranscriptError{VideoID: "dQw4w9WgXcQ", Err: errors.New("no captions")}}

	p := NewPool(nil, gen, sessions, repo, pub, 1)
	job := newJob(t, repo, session.ID)
	p.Process(context.Background(), job)

	stored, _ := repo.GetByID(context.Background(), job.ID)
	if stored.Status != models.JobFailed || stored.Error == nil {
		t.Fatalf("expected failed job, got %+v", stored)
	}
	if *stored.Error != services.TranscriptUnavailableMessage {
		t.Fatalf("unexpected job error %q", *stored.Error)
	}
	if gen.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", gen.calls)
	}
	if len(session.History()) != 0 {
		t.Fatalf("failed job must not add history")
	}

	msg := pub.last()
	event, ok := msg.Payload.(models.ErrorEvent)
	if msg.Type != "error" || !ok || event.ErrorCode != "TRANSCRIPT_UNAVAILABLE" {
		t.Fatalf("unexpected error event: %+v", msg)
	}
}

func TestPool_Process_SessionGone(t *testing.T) {
	sessions := services.NewSessionStore(time.Hour)
	repo := repository.NewJobRepo()
	gen := &stubGenerator{}

	p := NewPool(nil, gen, sessions, repo, &capturePublisher{}, 1)
	job := newJob(t, repo, uuid.New())
	p.Process(context.Background(), job)

	stored, _ := repo.GetByID(context.Background(), job.ID)
	if stored.Status != models.JobFailed {
		t.Fatalf("expected failed job for a missing session, got %s", stored.Status)
	}
	if gen.calls != 0 {
		t.Fatalf("pipeline must not run without a session")
	}
}

type fakeQueue struct {
	mu       sync.Mutex
	payloads [][]byte
	locked   map[string]bool
	unlocked []string
}

func (q *fakeQueue) Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	q.mu.Lock()
	if len(q.payloads) > 0 {
		p := q.payloads[0]
		q.payloads = q.payloads[1:]
		q.mu.Unlock()
		return p, nil
	}
	q.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (q *fakeQueue) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.locked[key] {
		return false, nil
	}
	q.locked[key] = true
	return true, nil
}

func (q *fakeQueue) Unlock(ctx context.Context, key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.unlocked = append(q.unlocked, key)
	return nil
}

func TestPool_StartConsumesQueue(t *testing.T) {
	sessions := services.NewSessionStore(time.Hour)
	session := sessions.Create()
	repo := repository.NewJobRepo()
	job := newJob(t, repo, session.ID)

	payload, _ := json.Marshal(job)
	q := &fakeQueue{payloads: [][]byte{[]byte("not json"), payload}, locked: map[string]bool{}}

	p := NewPool(q, &stubGenerator{}, sessions, repo, services.NopPublisher{}, 1)
	p.Start()

	deadline := time.Now().Add(2 * time.Second)
	for {
		stored, _ := repo.GetByID(context.Background(), job.ID)
		if stored.Status == models.JobCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job was not processed, status %s", stored.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	p.Stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.unlocked) != 1 || q.unlocked[0] != "job_lock:"+job.ID.String() {
		t.Fatalf("expected job lock to be released, got %v", q.unlocked)
	}
}
