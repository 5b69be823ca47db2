// Package host exposes an App-like Handler over HTTP. Each POST to /invoke
// is one host event: the request body is the job's input stream, and the
// job's output becomes the response body. /health reports liveness.
package host
