package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/specialistvlad/jobhost/internal/job"
)

// Request and response headers.
const (
	HeaderRequestID       = "X-Request-Id"
	HeaderFunctionName    = "X-Function-Name"
	HeaderFunctionVersion = "X-Function-Version"
	HeaderRegion          = "X-Region"
	HeaderErrorKind       = "X-Job-Error-Kind"
)

// Handler handles one host event.
type Handler interface {
	Handle(ctx context.Context, in io.Reader, out io.Writer, md *job.Metadata) error
}

// Server is the HTTP host.
type Server struct {
	handler Handler
	logger  *slog.Logger
	srv     *http.Server
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, h Handler, logger *slog.Logger) *Server {
	s := &Server{handler: h, logger: logger}
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	return s
}

// Routes returns the server's request multiplexer.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/invoke", s.invokeHandler)
	return mux
}

// ListenAndServe blocks until the server fails or is shut down. A graceful
// shutdown is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("🩺 Job host server starting", "address", fmt.Sprintf("http://localhost%s/invoke", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Job host server failed unexpectedly", "error", err)
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight invocations
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("🩺 Shutting down job host server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Job host server shutdown failed", "error", err)
		return err
	}
	s.logger.Debug("Job host server shut down gracefully.")
	return nil
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) invokeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	md := metadataFrom(r)
	w.Header().Set(HeaderRequestID, md.RequestID)

	var out bytes.Buffer
	err := s.handler.Handle(r.Context(), r.Body, &out, md)
	if err != nil {
		status, kind := classify(err)
		s.logger.Warn("Invocation failed.", "request_id", md.RequestID, "status", status, "error", err)
		if kind != "" {
			w.Header().Set(HeaderErrorKind, kind)
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := out.WriteTo(w); err != nil {
		s.logger.Debug("Writing response failed.", "request_id", md.RequestID, "error", err)
	}
}

func metadataFrom(r *http.Request) *job.Metadata {
	md := &job.Metadata{
		RequestID:       r.Header.Get(HeaderRequestID),
		FunctionName:    r.Header.Get(HeaderFunctionName),
		FunctionVersion: r.Header.Get(HeaderFunctionVersion),
		Region:          r.Header.Get(HeaderRegion),
	}
	if md.RequestID == "" {
		md.RequestID = uuid.NewString()
	}
	if deadline, ok := r.Context().Deadline(); ok {
		md.Deadline = deadline
	}
	return md
}

// classify maps a failure to an HTTP status and the error kind header value.
func classify(err error) (int, string) {
	var jobErr *job.Error
	if !errors.As(err, &jobErr) {
		return http.StatusInternalServerError, ""
	}
	switch jobErr.Kind {
	case job.ConfigurationError:
		return http.StatusBadRequest, string(jobErr.Kind)
	case job.ResolutionError:
		return http.StatusNotFound, string(jobErr.Kind)
	default:
		return http.StatusInternalServerError, string(jobErr.Kind)
	}
}
