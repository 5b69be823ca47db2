package registry

import (
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/jobhost/internal/job"
)

// Module is the interface that all job modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registration holds the compiled Go parts of a job.
type Registration struct {
	// New constructs a default instance of the job.
	New job.Factory
	// Resources holds files bundled with the job. Configuration sources are
	// looked up here before falling back to the filesystem. May be nil.
	Resources fs.FS
}

// Registry holds all registered jobs for a single application instance.
type Registry struct {
	jobs map[string]*Registration
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		jobs: make(map[string]*Registration),
	}
}

// Register registers a job under its logical name. Registering the same name
// twice, or a registration without a factory, is a programmer error and panics.
func (r *Registry) Register(name string, reg *Registration) {
	if name == "" {
		panic("job registration with empty name")
	}
	if reg == nil || reg.New == nil {
		panic(fmt.Sprintf("job '%s' registered without a factory", name))
	}
	if _, exists := r.jobs[name]; exists {
		panic(fmt.Sprintf("job with name '%s' already registered", name))
	}
	slog.Debug("Registering job.", "name", name, "has_resources", reg.Resources != nil)
	r.jobs[name] = reg
}

// RegisterModules registers every module in order.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// Lookup returns the registration for name.
func (r *Registry) Lookup(name string) (*Registration, bool) {
	reg, ok := r.jobs[name]
	return reg, ok
}

// Names returns the registered job names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.jobs))
}

// Len returns the number of registered jobs.
func (r *Registry) Len() int {
	return len(r.jobs)
}
