// Package http_request provides the HttpRequest job, which forwards the host
// input to an HTTP endpoint and relays the response body back.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/registry"
)

// Name is the logical name HttpRequest is registered under.
const Name = "HttpRequest"

// Context keys read by the job.
const (
	KeyURL         = "url"
	KeyMethod      = "method"
	KeyTimeout     = "timeout"
	KeyContentType = "content_type"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// transport is shared by every HttpRequest instance to reuse connections.
var transport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// Job performs one HTTP request per invocation.
type Job struct {
	job.Base
	transport http.RoundTripper
}

// New returns a Job seeded with its defaults.
func New() (any, error) {
	j := &Job{Base: job.NewBase(), transport: transport}
	j.Context.Set(KeyMethod, http.MethodGet)
	j.Context.Set(KeyTimeout, "30s")
	return j, nil
}

// newClient builds a client for a single request.
func (j *Job) newClient() (*http.Client, error) {
	raw := job.String(j.Context, KeyTimeout, "30s")
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout '%s': %w", raw, err)
	}
	return &http.Client{Timeout: timeout, Transport: j.transport}, nil
}

// RunJob implements job.Runnable.
func (j *Job) RunJob(ctx context.Context) error {
	url := job.String(j.Context, KeyURL, "")
	if url == "" {
		return fmt.Errorf("context key '%s' is required", KeyURL)
	}
	method := strings.ToUpper(job.String(j.Context, KeyMethod, http.MethodGet))
	logger := ctxlog.FromContext(ctx).With("method", method, "url", url)

	client, err := j.newClient()
	if err != nil {
		return err
	}

	var body io.Reader
	if method != http.MethodGet && method != http.MethodHead {
		body = job.InputStream(j.Context)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if ct := job.String(j.Context, KeyContentType, ""); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if md, ok := job.HostContext(j.Context); ok && md.RequestID != "" {
		req.Header.Set("X-Request-Id", md.RequestID)
	}

	logger.Info("Making HTTP request")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	logger.Info("Received HTTP response", "status", resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request failed with status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	if _, err := io.Copy(job.OutputStream(j.Context), resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// Register registers the job with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name, &registry.Registration{New: New})
}
