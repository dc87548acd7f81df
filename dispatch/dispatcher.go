package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/esiq/model"
)

// Mode selects the completion policy of a Dispatch call.
type Mode int

const (
	// CollectAll blocks until every job reaches a terminal state and
	// merges all non-empty results.
	CollectAll Mode = iota
	// FirstMatch returns the first non-empty job result observed and
	// cancels the jobs still running. Ties among near-simultaneous
	// producers resolve arbitrarily.
	FirstMatch
)

// WorkFunc executes one chunk. It must visit the chunk's ids in order and
// check ctx between items so cancellation takes effect within one item
// boundary. It returns the successfully fetched records (possibly empty);
// per-item fetch failures are the WorkFunc's business and must not be
// returned as errors unless the whole chunk is to be marked failed.
type WorkFunc func(ctx context.Context, ids []model.SystemID) ([]*model.SolarSystem, error)

// ProgressFunc is invoked after each job reaches a terminal state, with
// the number of terminal jobs so far and the total job count. It is an
// observability hook only; it runs on the collector goroutine and must not
// block.
type ProgressFunc func(done, total int)

// Dispatcher runs chunk jobs on a bounded worker set.
type Dispatcher struct {
	maxWorkers int64
	onProgress ProgressFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMaxWorkers bounds the number of concurrently running jobs.
// Values <= 0 default to GOMAXPROCS.
func WithMaxWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxWorkers = int64(n)
		}
	}
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(d *Dispatcher) {
		d.onProgress = fn
	}
}

// New creates a Dispatcher.
func New(optFns ...Option) *Dispatcher {
	d := &Dispatcher{
		maxWorkers: int64(runtime.GOMAXPROCS(0)),
	}

	for _, fn := range optFns {
		fn(d)
	}

	return d
}

type jobResult struct {
	job  *Job
	recs []*model.SolarSystem
	err  error
}

// Dispatch runs one job per chunk and merges results per mode.
//
// Under CollectAll the returned error aggregates the failures of Failed
// jobs (nil if none); the returned records are valid either way, so a
// partial harvest is distinguishable from an aborted one. Under FirstMatch
// the first observed non-empty result is returned; if no job matches, the
// result is empty with any job failures aggregated as under CollectAll.
//
// Every worker goroutine is joined before Dispatch returns, on every exit
// path.
func (d *Dispatcher) Dispatch(ctx context.Context, chunks [][]model.SystemID, work WorkFunc, mode Mode) ([]*model.SolarSystem, error) {
	if work == nil {
		return nil, errors.New("dispatch: nil work function")
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make([]*Job, len(chunks))
	for i, c := range chunks {
		jobs[i] = newJob(i, c)
	}

	sem := semaphore.NewWeighted(d.maxWorkers)
	resultCh := make(chan jobResult, len(jobs))
	// Buffered so the winning producer never blocks; losers take the
	// default branch and finish as Cancelled.
	firstCh := make(chan jobResult, 1)

	for _, job := range jobs {
		go func(j *Job) {
			if err := sem.Acquire(ctx, 1); err != nil {
				// Cancelled while queued; never ran.
				resultCh <- jobResult{job: j, err: err}
				return
			}
			defer sem.Release(1)

			j.setState(StateRunning)
			recs, err := work(ctx, j.ids)
			if err == nil && mode == FirstMatch && len(recs) > 0 {
				select {
				case firstCh <- jobResult{job: j, recs: recs}:
				default:
				}
			}
			resultCh <- jobResult{job: j, recs: recs, err: err}
		}(job)
	}

	var (
		merged []*model.SolarSystem
		first  []*model.SolarSystem
		errs   *multierror.Error
		done   int
	)

	for done < len(jobs) {
		var res jobResult

		if mode == FirstMatch && first == nil {
			select {
			case win := <-firstCh:
				// Stop the siblings; they notice at their next
				// item boundary and drain through resultCh.
				first = win.recs
				cancel()
				continue
			case res = <-resultCh:
			}
		} else {
			res = <-resultCh
		}

		switch {
		case res.err == nil:
			res.job.setState(StateCompleted)
			merged = append(merged, res.recs...)
		case errors.Is(res.err, context.Canceled):
			res.job.setState(StateCancelled)
		default:
			res.job.setState(StateFailed)
			errs = multierror.Append(errs, fmt.Errorf("job %d: %w", res.job.seq, res.err))
		}

		done++
		if d.onProgress != nil {
			d.onProgress(done, len(jobs))
		}
	}

	if mode == FirstMatch {
		if first == nil {
			// A non-empty result may have completed in the same
			// instant the last job drained; prefer it over empty.
			select {
			case win := <-firstCh:
				first = win.recs
			default:
			}
		}
		// The internal cancel only fires once a match was observed,
		// so with first still nil a non-nil ctx.Err() means the
		// caller aborted the scan; that must not read as a clean
		// zero-match completion.
		if first == nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		return first, errs.ErrorOrNil()
	}

	// The internal cancel only fires via defer under CollectAll, so a
	// non-nil ctx.Err() here means the caller's context ended the run.
	if err := ctx.Err(); err != nil {
		return merged, err
	}

	return merged, errs.ErrorOrNil()
}
