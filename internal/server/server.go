package server

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Config wires the server's dependencies. Metrics and Logger are
// constructor-injected so tests can pass their own; nil means New creates
// a fresh registry and a stdout logger.
type Config struct {
	Addr          string // e.g. ":8000"
	UploadDir     string
	Auth          AuthConfig
	SanitizeNames bool
	Metrics       *Metrics
	Logger        *Logger
}

type Server struct {
	httpServer    *http.Server
	handler       http.Handler
	auth          AuthConfig
	uploadDir     string
	sanitizeNames bool
	metrics       *Metrics
	log           *Logger
}

// New builds the server, wiring the authenticator, handlers and metrics
// registry onto a ServeMux. No network listener is opened until Start.
func New(cfg Config) *Server {
	s := &Server{
		auth:          cfg.Auth,
		uploadDir:     cfg.UploadDir,
		sanitizeNames: cfg.SanitizeNames,
		metrics:       cfg.Metrics,
		log:           cfg.Logger,
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.log == nil {
		s.log = NewLoggerFromEnv()
	}

	mux := http.NewServeMux()

	// Protected routes
	mux.Handle("/upload", s.uploadHandler())
	mux.Handle("/uploads", s.listUploadsHandler())
	mux.Handle("/stats", s.statsHandler())

	// Open routes
	mux.HandleFunc("/debug", s.debugHandler())
	mux.HandleFunc("/metrics", s.metricsHandler())
	mux.HandleFunc("/health", s.healthHandler())

	// Wrap middleware: requestID -> logging -> security headers -> mux
	var handler http.Handler = mux
	handler = securityHeadersMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	s.handler = handler

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler exposes the fully wired route tree for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
