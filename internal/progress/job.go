package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	headAllowance = 5
	tailAllowance = 5
)

// Snapshot is the polled view of a job.
type Snapshot struct {
	State            State      `json:"state"`
	CurrentLayerName string     `json:"currentLayerName"`
	PercentageLayer  int        `json:"percentageLayer"`
	PercentageTotal  int        `json:"percentageTotal"`
	RunID            string     `json:"runId,omitempty"`
	Error            string     `json:"error,omitempty"`
	StartDate        *time.Time `json:"startDate,omitempty"`
}

// Job is written by the single goroutine running the duplication and read
// by pollers through Snapshot.
type Job struct {
	RunID    uuid.UUID
	TrammeID int64

	mu         sync.RWMutex
	state      State
	layerName  string
	layerIndex int
	layerCount int
	pctLayer   int
	pctTotal   int
	startDate  *time.Time
	err        error
	startedAt  time.Time
	finishedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Context is cancelled when the job is cancelled through the registry.
func (j *Job) Context() context.Context {
	return j.ctx
}

// Done is closed once the job reached a terminal state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	s := Snapshot{
		State:            j.state,
		CurrentLayerName: j.layerName,
		PercentageLayer:  j.pctLayer,
		PercentageTotal:  j.pctTotal,
		RunID:            j.RunID.String(),
	}
	if j.err != nil {
		s.Error = j.err.Error()
	}
	if j.startDate != nil {
		d := *j.startDate
		s.StartDate = &d
	}
	return s
}

func (j *Job) State() State {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

// SetState moves the job to a non-terminal stage. Head stages get a small
// share of the total so the bar moves before generation begins.
func (j *Job) SetState(s State) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	j.state = s
	switch s {
	case StateLoadingData:
		j.raiseTotal(1)
	case StateLoadingLayers:
		j.raiseTotal(3)
	case StatePreparingGeneration:
		j.raiseTotal(headAllowance)
	case StateFinalisation:
		j.layerName = ""
		j.raiseTotal(100 - tailAllowance)
	}
}

// EnterLayer starts layer index (0 based) out of count.
func (j *Job) EnterLayer(index, count int, name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	j.state = StateLoadingUnits
	j.layerName = name
	j.layerIndex = index
	j.layerCount = count
	j.pctLayer = 0
	j.raiseTotal(Blend(index, count, 0))
}

// SetDays records that done of total dates of the current layer are processed.
func (j *Job) SetDays(done, total int) {
	pct := 100
	if total > 0 {
		pct = done * 100 / total
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	j.pctLayer = pct
	j.raiseTotal(Blend(j.layerIndex, j.layerCount, pct))
}

func (j *Job) Finish(startDate time.Time) {
	j.terminate(StateDone, nil, func() {
		j.startDate = &startDate
		j.pctLayer = 100
		j.pctTotal = 100
	})
}

func (j *Job) Fail(err error) {
	j.terminate(StateError, err, nil)
}

func (j *Job) Cancelled(err error) {
	j.terminate(StateCancelled, err, nil)
}

func (j *Job) terminate(s State, err error, apply func()) {
	j.mu.Lock()
	if j.state.Terminal() {
		j.mu.Unlock()
		return
	}
	j.state = s
	j.err = err
	j.finishedAt = time.Now()
	if apply != nil {
		apply()
	}
	j.mu.Unlock()

	j.cancel()
	close(j.done)
}

func (j *Job) raiseTotal(pct int) {
	if pct > j.pctTotal {
		j.pctTotal = pct
	}
}

// Blend maps the progress inside one layer onto the whole job, leaving the
// head and tail allowances to the stages around generation.
func Blend(layerIndex, layerCount, pctLayer int) int {
	if layerCount <= 0 {
		return headAllowance
	}
	span := 100 - headAllowance - tailAllowance
	return headAllowance + (layerIndex*100+pctLayer)*span/(layerCount*100)
}
