// Package print provides the PrintContext job, which writes its resolved
// context to the host output stream.
package print

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/registry"
)

// Name is the logical name PrintContext is registered under.
const Name = "PrintContext"

// KeyHeader is the context key of the line written before the entries.
const KeyHeader = "print.header"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Job writes every string entry of its context as `key = "value"`, sorted by
// key.
type Job struct {
	job.Base
}

// New returns a Job seeded with its defaults.
func New() (any, error) {
	j := &Job{Base: job.NewBase()}
	j.Context.Set(KeyHeader, "Context:")
	return j, nil
}

// RunJob implements job.Runnable.
func (j *Job) RunJob(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Printing context")

	out := job.OutputStream(j.Context)
	entries := j.Context.Strings()

	if header := job.String(j.Context, KeyHeader, ""); header != "" {
		if _, err := fmt.Fprintln(out, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "      (null)")
		return err
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(out, "      %s = %q\n", k, entries[k]); err != nil {
			return fmt.Errorf("failed to write entry '%s': %w", k, err)
		}
	}
	return nil
}

// Register registers the job with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name, &registry.Registration{New: New})
}
