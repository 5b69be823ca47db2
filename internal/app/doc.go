// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the invocation lifecycle, decoupled from
// any specific entrypoint like a CLI or server.
//
// An App is built once at process start. Its configuration, logger, job
// registry and invoker are read-only afterwards, so Handle may be called
// concurrently by a host that delivers several events at once.
package app
