// Package store provides the ContextStore: the insertion-ordered key/value
// map that carries the merged execution context of a single job run.
//
// A Store only grows. Keys can be added or overwritten but never removed, and
// an overwrite keeps the key's original position. There is no collision
// detection; the last write wins silently, which is what layered
// configuration relies on.
//
// A Store is not safe for concurrent use. Each invocation owns its own Store.
package store
