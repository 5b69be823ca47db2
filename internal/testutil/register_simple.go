package testutil

import "github.com/specialistvlad/jobhost/internal/registry"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single job.
type SimpleModule struct {
	JobName      string
	Registration *registry.Registration
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.JobName != "" && m.Registration != nil {
		r.Register(m.JobName, m.Registration)
	}
}
