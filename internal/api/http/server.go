// Package http assembles the HTTP surface: the /graphql endpoint plus
// health and metrics endpoints, behind logging, metrics and session-guard
// middleware.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filevault/filevault-server/internal/api/http/middleware"
	"github.com/filevault/filevault-server/internal/logger"
)

// Pinger reports whether the metadata store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TLSConfig holds the certificate pair for HTTPS serving.
type TLSConfig struct {
	CertFileName       string
	PrivateKeyFileName string
}

// Server is the HTTP server with its routes and lifecycle methods.
type Server struct {
	httpServer *http.Server
	tls        *TLSConfig
	logger     *logger.Logger
}

// Options configures the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// TLS enables HTTPS when non-nil.
	TLS *TLSConfig
}

// NewServer builds the router and wraps it in a configured server.
func NewServer(
	opts Options,
	gql *GraphQLHandler,
	authenticate *middleware.Authenticate,
	db Pinger,
	logger *logger.Logger,
) *Server {
	router := chi.NewRouter()

	logging := middleware.NewLogging(logger)
	metrics := middleware.NewMetrics(nil)

	router.Use(logging.Handler)
	router.Use(metrics.Handler)
	router.Use(authenticate.Handler)

	router.Method(http.MethodPost, "/graphql", gql)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	router.Get("/healthz", healthHandler(db))

	return &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      router,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
		tls:    opts.TLS,
		logger: logger,
	}
}

// healthHandler reports liveness and metadata store reachability.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}

		if err := db.Ping(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			body = map[string]string{"status": "degraded", "database": err.Error()}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Start starts serving on the configured address. It blocks until the
// server is stopped.
func (s *Server) Start() error {
	var err error
	if s.tls != nil {
		err = s.httpServer.ListenAndServeTLS(s.tls.CertFileName, s.tls.PrivateKeyFileName)
	} else {
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.httpServer.Addr
}
