package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"studycoach-backend/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

// JobRepo tracks background generation jobs in memory.
type JobRepo struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*models.Job
	now  func() time.Time
}

func NewJobRepo() *JobRepo {
	return &JobRepo{
		jobs: make(map[uuid.UUID]*models.Job),
		now:  time.Now,
	}
}

func (r *JobRepo) Create(ctx context.Context, j *models.Job) error {
	j.ID = uuid.New()
	j.Status = models.JobPending
	j.CreatedAt = r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *j
	r.jobs[j.ID] = &stored
	return nil
}

// GetByID returns a copy of the job.
func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	out := *j
	return &out, nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.update(id, func(j *models.Job) {
		j.Status = status
		if status == models.JobCompleted || status == models.JobFailed {
			now := r.now()
			j.CompletedAt = &now
		}
	})
}

func (r *JobRepo) Complete(ctx context.Context, id, entryID uuid.UUID) error {
	return r.update(id, func(j *models.Job) {
		now := r.now()
		j.Status = models.JobCompleted
		j.EntryID = &entryID
		j.CompletedAt = &now
	})
}

func (r *JobRepo) UpdateError(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.update(id, func(j *models.Job) {
		now := r.now()
		j.Status = models.JobFailed
		j.Error = &errMsg
		j.CompletedAt = &now
	})
}

// Delete drops a job, used when it could not be queued.
func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	delete(r.jobs, id)
	r.mu.Unlock()
}

func (r *JobRepo) update(id uuid.UUID, fn func(j *models.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	fn(j)
	return nil
}
