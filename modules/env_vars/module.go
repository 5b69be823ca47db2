// Package env_vars provides the EnvVars job, which reports the process
// environment as a properties document.
package env_vars

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/magiconair/properties"
	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/registry"
)

// Name is the logical name EnvVars is registered under.
const Name = "EnvVars"

// KeyPrefix selects which variables are written. Empty means all of them.
const KeyPrefix = "env.prefix"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Job writes the matching environment variables to the output stream.
type Job struct {
	job.Base
	environ func() []string
}

// New returns a Job reading the real process environment.
func New() (any, error) {
	return &Job{Base: job.NewBase(), environ: os.Environ}, nil
}

// RunJob implements job.Runnable.
func (j *Job) RunJob(ctx context.Context) error {
	prefix := job.String(j.Context, KeyPrefix, "")
	logger := ctxlog.FromContext(ctx).With("prefix", prefix)

	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, e := range j.environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], prefix) {
			continue
		}
		if _, _, err := p.Set(pair[0], pair[1]); err != nil {
			return fmt.Errorf("failed to record variable '%s': %w", pair[0], err)
		}
	}
	p.Sort()

	logger.Debug("Writing environment variables", "count", p.Len())
	if _, err := p.Write(job.OutputStream(j.Context), properties.UTF8); err != nil {
		return fmt.Errorf("failed to write environment: %w", err)
	}
	return nil
}

// Register registers the job with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name, &registry.Registration{New: New})
}
