package progress

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrAlreadyRunning = errors.New("a duplication is already running for this tramme")

// Registry tracks the duplication jobs of the process, one per tramme.
type Registry struct {
	retention time.Duration

	mu   sync.RWMutex
	jobs map[int64]*Job
}

func NewRegistry(retention time.Duration) *Registry {
	return &Registry{
		retention: retention,
		jobs:      make(map[int64]*Job),
	}
}

// Begin registers a new job for the tramme. The job context derives from
// ctx without its cancellation, so a job outlives the request starting it.
func (r *Registry) Begin(ctx context.Context, trammeID int64) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.jobs[trammeID]; ok && !current.State().Terminal() {
		return nil, ErrAlreadyRunning
	}

	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	job := &Job{
		RunID:     uuid.New(),
		TrammeID:  trammeID,
		state:     StateInitialisation,
		startedAt: time.Now(),
		ctx:       jobCtx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	r.jobs[trammeID] = job

	go r.evictWhenDone(job)
	return job, nil
}

// Get returns the snapshot of the tramme's job, or an idle one.
func (r *Registry) Get(trammeID int64) Snapshot {
	r.mu.RLock()
	job, ok := r.jobs[trammeID]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{State: StateIdle}
	}
	return job.Snapshot()
}

// Cancel signals the running job of the tramme. It reports false when no
// job is running.
func (r *Registry) Cancel(trammeID int64) bool {
	r.mu.RLock()
	job, ok := r.jobs[trammeID]
	r.mu.RUnlock()
	if !ok || job.State().Terminal() {
		return false
	}
	job.cancel()
	return true
}

func (r *Registry) evictWhenDone(job *Job) {
	<-job.done
	if r.retention > 0 {
		time.Sleep(r.retention)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.jobs[job.TrammeID] == job {
		delete(r.jobs, job.TrammeID)
	}
}
