package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"studycoach-backend/internal/database"
	"studycoach-backend/internal/models"
	"studycoach-backend/internal/services"
)

const (
	popTimeout = 30 * time.Second
	lockTTL    = 10 * time.Minute
)

type queue interface {
	Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type bundleGenerator interface {
	GenerateBundleWithProgress(ctx context.Context, url string, level models.Level, progress services.ProgressFunc) (*models.StudyMaterialBundle, error)
}

type sessionLookup interface {
	Get(id uuid.UUID) (*services.Session, error)
}

type jobRepository interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Complete(ctx context.Context, id, entryID uuid.UUID) error
	UpdateError(ctx context.Context, id uuid.UUID, errMsg string) error
}

// Pool runs background bundle generation jobs taken from the Redis queue.
// A failed job is reported and never re-queued.
type Pool struct {
	queue       queue
	pipeline    bundleGenerator
	sessions    sessionLookup
	jobRepo     jobRepository
	publisher   services.Publisher
	workerCount int
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func NewPool(
	q queue,
	pipeline bundleGenerator,
	sessions sessionLookup,
	jobRepo jobRepository,
	publisher services.Publisher,
	workerCount int,
) *Pool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Pool{
		queue:       q,
		pipeline:    pipeline,
		sessions:    sessions,
		jobRepo:     jobRepo,
		publisher:   publisher,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	p.wg.Wait()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-p.stopChan
		cancel()
	}()

	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		payload, err := p.queue.Pop(ctx, models.StudyJobQueue, popTimeout)
		if err != nil {
			if !errors.Is(err, database.ErrQueueEmpty) && ctx.Err() == nil {
				log.Printf("Worker %d: queue read failed: %v", id, err)
				time.Sleep(time.Second)
			}
			continue
		}

		var job models.Job
		if err := json.Unmarshal(payload, &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.queue.Lock(ctx, lockKey, lockTTL)
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s for session %s", id, job.ID, job.SessionID)
		p.Process(context.Background(), &job)

		p.queue.Unlock(context.Background(), lockKey)
	}
}

// Process runs one job to completion and records its outcome.
func (p *Pool) Process(ctx context.Context, job *models.Job) {
	p.jobRepo.UpdateStatus(ctx, job.ID, models.JobProcessing)

	session, err := p.sessions.Get(job.SessionID)
	if err != nil {
		p.handleFailure(ctx, job, err)
		return
	}

	jobID := job.ID
	progress := services.ProgressReporter(ctx, p.publisher, job.SessionID, &jobID)

	bundle, err := p.pipeline.GenerateBundleWithProgress(ctx, job.URL, job.Level, progress)
	if err != nil {
		p.handleFailure(ctx, job, err)
		return
	}

	entry := session.Append(bundle)
	p.handleSuccess(ctx, job, entry.ID, bundle.Degraded())
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job, entryID uuid.UUID, degraded bool) {
	p.jobRepo.Complete(ctx, job.ID, entryID)

	jobID := job.ID
	p.publisher.Publish(ctx, job.SessionID, models.WSMessage{
		Type: "completed",
		Payload: models.CompletedEvent{
			JobID:    &jobID,
			EntryID:  entryID,
			Degraded: degraded,
		},
	})

	log.Printf("Job %s completed successfully", job.ID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	code, msg := services.ClassifyError(err)
	log.Printf("Job %s failed: %v", job.ID, err)
	p.jobRepo.UpdateError(ctx, job.ID, msg)

	jobID := job.ID
	p.publisher.Publish(ctx, job.SessionID, models.WSMessage{
		Type: "error",
		Payload: models.ErrorEvent{
			JobID:        &jobID,
			ErrorCode:    code,
			ErrorMessage: msg,
		},
	})
}
