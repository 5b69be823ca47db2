// Package registry maps logical job names to the compiled Go factories that
// construct them.
//
// Job implementations are not discovered at runtime. Each module registers
// its jobs during application startup by implementing Module, after which the
// registry is only read. Resolve looks up a name, constructs a fresh instance
// and checks that it exposes the capability surface the invoker needs, so
// every capability failure is reported once, up front, as a typed error.
package registry
