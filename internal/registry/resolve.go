package registry

import (
	"fmt"
	"io/fs"

	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/store"
)

// Resolved is a freshly constructed job that passed the capability check.
type Resolved struct {
	Name string
	Job  job.Job
	// Context is the job's own store, as returned by its ContextMap.
	Context   *store.Store
	Resources fs.FS
}

// Resolve looks up name, constructs a default instance and verifies it
// exposes both a context map and an entry point. It never reads
// configuration sources.
func (r *Registry) Resolve(name string) (*Resolved, error) {
	if name == "" {
		return nil, job.NewError(job.ConfigurationError, "", "job name is missing or empty", nil)
	}

	reg, ok := r.jobs[name]
	if !ok {
		return nil, job.NewError(job.ResolutionError, name, "no job implementation registered under this name", nil)
	}

	instance, err := construct(reg.New)
	if err != nil {
		return nil, job.NewError(job.ConstructionError, name, "could not construct default instance", err)
	}
	if instance == nil {
		return nil, job.NewError(job.ConstructionError, name, "factory returned a nil instance", nil)
	}

	holder, ok := instance.(job.ContextHolder)
	if !ok {
		return nil, job.NewError(job.CapabilityError, name, fmt.Sprintf("%T does not expose a context map", instance), nil)
	}
	ctxMap, err := contextMapOf(holder)
	if err != nil {
		return nil, job.NewError(job.CapabilityError, name, fmt.Sprintf("%T context map is not accessible", instance), err)
	}
	if ctxMap == nil {
		return nil, job.NewError(job.CapabilityError, name, fmt.Sprintf("%T exposes a nil context map", instance), nil)
	}

	j, ok := instance.(job.Job)
	if !ok {
		return nil, job.NewError(job.CapabilityError, name, fmt.Sprintf("%T does not expose a RunJob entry point", instance), nil)
	}

	return &Resolved{
		Name:      name,
		Job:       j,
		Context:   ctxMap,
		Resources: reg.Resources,
	}, nil
}

// construct calls the factory, turning a panic into an error.
func construct(factory job.Factory) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()
	return factory()
}

// contextMapOf reads the holder's store. A typed-nil instance panics here
// rather than inside the invoker.
func contextMapOf(holder job.ContextHolder) (s *store.Store, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ContextMap panicked: %v", r)
		}
	}()
	return holder.ContextMap(), nil
}
