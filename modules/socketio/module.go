// Package socketio provides the SocketIO job, a single request/response
// exchange over a Socket.IO connection.
package socketio

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Name is the logical name SocketIO is registered under.
const Name = "SocketIO"

// Context keys read by the job.
const (
	KeyURL                = "url"
	KeyNamespace          = "namespace"
	KeyEmitEvent          = "emit_event"
	KeyOnEvent            = "on_event"
	KeyTimeout            = "timeout"
	KeyInsecureSkipVerify = "insecure_skip_verify"
)

// DefaultsSource is the bundled resource holding the job's defaults.
const DefaultsSource = "socketio.properties"

const defaultTimeout = 10 * time.Second

//go:embed resources
var embedded embed.FS

// Resources holds the files bundled with the job.
var Resources, _ = fs.Sub(embedded, "resources")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Job emits the decoded host input and writes the first reply as JSON.
type Job struct {
	job.Base
}

// New returns an empty Job. Defaults come from DefaultsSource when it is
// listed as a context source.
func New() (any, error) {
	return &Job{Base: job.NewBase()}, nil
}

// settings is the validated view of the job's context.
type settings struct {
	url                *url.URL
	namespace          string
	emitEvent          string
	onEvent            string
	timeout            time.Duration
	insecureSkipVerify bool
}

func (j *Job) settings() (*settings, error) {
	raw := job.String(j.Context, KeyURL, "")
	if raw == "" {
		return nil, fmt.Errorf("context key '%s' is required", KeyURL)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("URL '%s' must be absolute", raw)
	}

	s := &settings{
		url:       parsed,
		namespace: job.String(j.Context, KeyNamespace, "/"),
		emitEvent: job.String(j.Context, KeyEmitEvent, ""),
		onEvent:   job.String(j.Context, KeyOnEvent, ""),
		timeout:   defaultTimeout,
	}
	if s.onEvent == "" {
		return nil, fmt.Errorf("context key '%s' is required", KeyOnEvent)
	}
	if t := job.String(j.Context, KeyTimeout, ""); t != "" {
		if s.timeout, err = time.ParseDuration(t); err != nil {
			return nil, fmt.Errorf("invalid timeout '%s': %w", t, err)
		}
	}
	if v := job.String(j.Context, KeyInsecureSkipVerify, ""); v != "" {
		if s.insecureSkipVerify, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid %s '%s': %w", KeyInsecureSkipVerify, v, err)
		}
	}
	return s, nil
}

// emitData decodes the host input as JSON. An empty input emits no payload.
func emitData(in io.Reader) (any, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("input is not valid JSON: %w", err)
	}
	return data, nil
}

// opResult passes the outcome through the done channel.
type opResult struct {
	value any
	err   error
}

// RunJob implements job.Runnable.
func (j *Job) RunJob(ctx context.Context) error {
	s, err := j.settings()
	if err != nil {
		return err
	}
	data, err := emitData(job.InputStream(j.Context))
	if err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx).With("url", s.url.String(), "onEvent", s.onEvent, "emitEvent", s.emitEvent)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	finish := func(r opResult) {
		select {
		case done <- r:
		default:
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	opts.SetPath(s.url.Path)
	if s.insecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", s.url.Scheme, s.url.Host)
	manager := socket.NewManager(baseURL, opts)
	client := manager.Socket(s.namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		client.Disconnect()
	}()

	client.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", s.namespace, "sid", client.Id())
		if s.emitEvent == "" {
			return
		}
		logger.Info("Emitting event", "event", s.emitEvent)
		var err error
		if data == nil {
			err = client.Emit(s.emitEvent)
		} else {
			err = client.Emit(s.emitEvent, data)
		}
		if err != nil {
			finish(opResult{err: fmt.Errorf("failed to emit '%s': %w", s.emitEvent, err)})
		}
	})

	client.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("socket.io connection failed")
		if len(errs) > 0 {
			if cause, ok := errs[0].(error); ok {
				err = fmt.Errorf("socket.io connection failed: %w", cause)
			}
		}
		finish(opResult{err: err})
	})

	client.On(types.EventName(s.onEvent), func(args ...any) {
		var value any
		if len(args) > 0 {
			value = args[0]
		}
		finish(opResult{value: value})
	})

	client.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return fmt.Errorf("timed out after connecting while waiting for event '%s'", s.onEvent)
		}
		return fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		encoded, err := json.Marshal(res.value)
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		logger.Info("Received response event", "event", s.onEvent, "bytes", len(encoded))
		_, err = fmt.Fprintf(job.OutputStream(j.Context), "%s\n", encoded)
		return err
	}
}

// Register registers the job and its bundled defaults with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name, &registry.Registration{New: New, Resources: Resources})
}
