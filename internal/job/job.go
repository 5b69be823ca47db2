package job

import (
	"context"

	"github.com/specialistvlad/jobhost/internal/store"
)

// Descriptor identifies which job implementation to load.
type Descriptor struct {
	Name string
}

// Factory constructs a default instance of a job. It plays the role of a
// zero-argument constructor; the returned value is checked for the other
// capabilities after construction.
type Factory func() (any, error)

// ContextHolder is implemented by jobs that own a ContextStore. The engine
// merges configuration into, and injects host bindings into, this store.
type ContextHolder interface {
	ContextMap() *store.Store
}

// Runnable is implemented by jobs that expose an entry point. Everything the
// job needs is read from its own ContextStore; ctx only carries the host's
// deadline and the logger.
type Runnable interface {
	RunJob(ctx context.Context) error
}

// Job is the full capability set required by the engine.
type Job interface {
	ContextHolder
	Runnable
}

// Base is an embeddable ContextHolder.
type Base struct {
	Context *store.Store
}

// NewBase returns a Base with an empty store.
func NewBase() Base {
	return Base{Context: store.New()}
}

// ContextMap implements ContextHolder.
func (b *Base) ContextMap() *store.Store {
	return b.Context
}
