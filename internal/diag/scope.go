package diag

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/specialistvlad/jobhost/internal/fsutil"
	"github.com/specialistvlad/jobhost/internal/registry"
)

// maxDepth bounds Chain so a scope that is its own ancestor cannot loop.
const maxDepth = 32

// Scope is one link in the chain that jobs are loaded from, child first.
type Scope interface {
	Name() string
	Entries() ([]string, error)
	// Parent returns the enclosing scope, or nil for the root.
	Parent() Scope
}

// Chain lazily walks from s up to the root. The sequence can be ranged over
// any number of times.
func Chain(s Scope) iter.Seq[Scope] {
	return func(yield func(Scope) bool) {
		for depth := 0; s != nil && depth < maxDepth; depth++ {
			if !yield(s) {
				return
			}
			s = s.Parent()
		}
	}
}

// Jobs is the part of the registry a RegistryScope reads.
type Jobs interface {
	Names() []string
	Lookup(name string) (*registry.Registration, bool)
}

// RegistryScope lists registered jobs and the resources bundled with them.
type RegistryScope struct {
	Jobs Jobs
	Next Scope
}

// Name implements Scope.
func (s RegistryScope) Name() string { return "registry" }

// Parent implements Scope.
func (s RegistryScope) Parent() Scope { return s.Next }

// Entries implements Scope. A job with resources contributes one entry per
// file, as "job:path".
func (s RegistryScope) Entries() ([]string, error) {
	if s.Jobs == nil {
		return nil, fmt.Errorf("no registry")
	}
	var out []string
	for _, name := range s.Jobs.Names() {
		reg, _ := s.Jobs.Lookup(name)
		if reg == nil || reg.Resources == nil {
			out = append(out, name)
			continue
		}
		files, err := fsutil.ListFiles(reg.Resources)
		if err != nil {
			return out, fmt.Errorf("listing resources of '%s': %w", name, err)
		}
		if len(files) == 0 {
			out = append(out, name)
		}
		for _, f := range files {
			out = append(out, name+":"+f)
		}
	}
	return out, nil
}

// BuildScope lists the main module and its dependencies as recorded in the
// binary's build information.
type BuildScope struct {
	// Read defaults to debug.ReadBuildInfo.
	Read func() (*debug.BuildInfo, bool)
	Next Scope
}

// Name implements Scope.
func (s BuildScope) Name() string { return "build" }

// Parent implements Scope.
func (s BuildScope) Parent() Scope { return s.Next }

// Entries implements Scope.
func (s BuildScope) Entries() ([]string, error) {
	read := s.Read
	if read == nil {
		read = debug.ReadBuildInfo
	}
	info, ok := read()
	if !ok || info == nil {
		return nil, fmt.Errorf("build info not available")
	}
	out := []string{moduleString(&info.Main)}
	for _, dep := range info.Deps {
		out = append(out, moduleString(dep))
	}
	return out, nil
}

func moduleString(m *debug.Module) string {
	if m.Replace != nil {
		return fmt.Sprintf("%s@%s=>%s", m.Path, m.Version, moduleString(m.Replace))
	}
	if m.Version == "" {
		return m.Path
	}
	return m.Path + "@" + m.Version
}

// ProcessScope lists the process search path. It is always the root.
type ProcessScope struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Name implements Scope.
func (s ProcessScope) Name() string { return "process" }

// Parent implements Scope.
func (s ProcessScope) Parent() Scope { return nil }

// Entries implements Scope.
func (s ProcessScope) Entries() ([]string, error) {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return filepath.SplitList(getenv("PATH")), nil
}

// DefaultChain returns registry → build → process.
func DefaultChain(jobs Jobs) Scope {
	return RegistryScope{
		Jobs: jobs,
		Next: BuildScope{Next: ProcessScope{}},
	}
}
