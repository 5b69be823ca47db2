package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/store"
)

// RecordingJob is a fake job that snapshots its context when run and then
// delegates to Fn, if set.
type RecordingJob struct {
	job.Base
	Fn func(ctx context.Context, s *store.Store) error
}

// RunJob implements job.Runnable.
func (j *RecordingJob) RunJob(ctx context.Context) error {
	if j.Fn == nil {
		return nil
	}
	return j.Fn(ctx, j.ContextMap())
}

// Recorder collects the final context of every run of a RecordingJob built by
// its Factory. It is safe for concurrent runs.
type Recorder struct {
	mu       sync.Mutex
	runs     []map[string]any
	Defaults map[string]string
	Fn       func(ctx context.Context, s *store.Store) error
}

// Factory returns a job.Factory producing RecordingJobs seeded with Defaults.
func (r *Recorder) Factory() job.Factory {
	return func() (any, error) {
		j := &RecordingJob{Base: job.NewBase()}
		for k, v := range r.Defaults {
			j.ContextMap().Set(k, v)
		}
		j.Fn = func(ctx context.Context, s *store.Store) error {
			r.mu.Lock()
			r.runs = append(r.runs, s.Snapshot())
			r.mu.Unlock()
			if r.Fn != nil {
				return r.Fn(ctx, s)
			}
			return nil
		}
		return j, nil
	}
}

// Runs returns a copy of the recorded contexts.
func (r *Recorder) Runs() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]map[string]any, len(r.runs))
	copy(out, r.runs)
	return out
}

// NoContextJob is runnable but exposes no context map.
type NoContextJob struct{}

// RunJob implements job.Runnable.
func (NoContextJob) RunJob(context.Context) error { return nil }

// NoEntryPointJob exposes a context map but cannot be run.
type NoEntryPointJob struct {
	job.Base
}
