package dispatch

import (
	"sync/atomic"

	"github.com/hupe1980/esiq/model"
)

// State is the lifecycle state of a Job.
type State int32

const (
	// StatePending means the job has been created but no worker has
	// picked it up yet.
	StatePending State = iota
	// StateRunning means a worker is executing the job's work function.
	StateRunning
	// StateCompleted means the work function returned without error.
	StateCompleted
	// StateFailed means the work function returned an error.
	StateFailed
	// StateCancelled means the job was cancelled before or during
	// execution.
	StateCancelled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Job is one unit of concurrent execution, bound to exactly one chunk.
// Jobs exist only for the duration of a Dispatch call.
type Job struct {
	seq   int
	ids   []model.SystemID
	state atomic.Int32
}

func newJob(seq int, ids []model.SystemID) *Job {
	return &Job{seq: seq, ids: ids}
}

// State returns the job's current lifecycle state.
func (j *Job) State() State {
	return State(j.state.Load())
}

// IDs returns the chunk bound to this job.
func (j *Job) IDs() []model.SystemID {
	return j.ids
}

func (j *Job) setState(s State) {
	j.state.Store(int32(s))
}
