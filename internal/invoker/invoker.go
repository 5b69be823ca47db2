package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/registry"
	"github.com/specialistvlad/jobhost/internal/store"
)

// Resolver resolves and constructs a job by logical name.
type Resolver interface {
	Resolve(name string) (*registry.Resolved, error)
}

// Merger layers configuration sources over a store.
type Merger interface {
	MergeInto(ctx context.Context, base *store.Store, resources fs.FS, sources []string) (*store.Store, error)
}

// HostBindings are the values supplied by the host for one invocation. The
// engine only passes the streams through; it never closes them.
type HostBindings struct {
	Input    io.Reader
	Output   io.Writer
	Metadata *job.Metadata
}

// Invoker runs jobs. It holds no per-invocation state and is safe for
// concurrent use as long as its Resolver and Merger are.
type Invoker struct {
	resolver Resolver
	merger   Merger
	observe  func(*store.Store)
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithObserver registers fn to be called with the final context after the
// host bindings are injected and before the entry point runs.
func WithObserver(fn func(*store.Store)) Option {
	return func(i *Invoker) { i.observe = fn }
}

// New creates an Invoker.
func New(resolver Resolver, merger Merger, opts ...Option) *Invoker {
	i := &Invoker{resolver: resolver, merger: merger}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run performs exactly one invocation of the job named by d.
func (i *Invoker) Run(ctx context.Context, d job.Descriptor, sources []string, b HostBindings) error {
	ctx = ctxlog.With(ctx, "job", d.Name)
	logger := ctxlog.FromContext(ctx)

	if d.Name == "" {
		return job.NewError(job.ConfigurationError, "", "job name is missing or empty", nil)
	}

	logger.Debug("Resolving job.")
	resolved, err := i.resolver.Resolve(d.Name)
	if err != nil {
		return withJob(err, d.Name, job.ResolutionError)
	}

	base := resolved.Context
	logger.Debug("Merging context sources.", "sources", sources, "base_keys", base.Len())
	if _, err := i.merger.MergeInto(ctx, base, resolved.Resources, sources); err != nil {
		return withJob(err, d.Name, job.ContextLoadError)
	}

	base.Set(job.KeyInputStream, b.Input)
	base.Set(job.KeyOutputStream, b.Output)
	base.Set(job.KeyHostContext, b.Metadata)

	if i.observe != nil {
		i.observe(base)
	}

	logger.Info("Invoking job entry point.", "type", fmt.Sprintf("%T", resolved.Job), "context_keys", base.Len())
	if err := runJob(ctx, resolved.Job); err != nil {
		logger.Error("Job entry point failed.", "error", err)
		return job.NewError(job.ExecutionError, d.Name, "job entry point failed", err)
	}
	logger.Info("Job finished.")
	return nil
}

// runJob calls the entry point, turning a panic into an error so it is
// reported like any other failure.
func runJob(ctx context.Context, j job.Runnable) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return j.RunJob(ctx)
}

// withJob fills in the job name on a typed error. Untyped errors from a
// custom Resolver or Merger are classified as fallback.
func withJob(err error, name string, fallback job.Kind) error {
	var jobErr *job.Error
	if errors.As(err, &jobErr) {
		if jobErr.Job == "" {
			jobErr.Job = name
		}
		return err
	}
	return job.NewError(fallback, name, "", err)
}
