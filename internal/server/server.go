// Package server wires the HTTP server: store, counters, services,
// document generation and middleware.
package server

import (
	"context"
	"net"
	"net/http"

	"github.com/contech-dc/contrack/internal/audit"
	"github.com/contech-dc/contrack/internal/config"
	"github.com/contech-dc/contrack/internal/counter"
	"github.com/contech-dc/contrack/internal/docgen"
	"github.com/contech-dc/contrack/internal/middleware"
	"github.com/contech-dc/contrack/internal/request"
	"github.com/contech-dc/contrack/internal/store"
	"github.com/contech-dc/contrack/internal/timefmt"
)

// Server is the HTTP server.
type Server struct {
	cfg         *config.Config
	store       store.Store
	clock       *timefmt.Clock
	svc         *request.Service
	gen         *docgen.Generator
	auditLog    *audit.Logger
	rateLimiter *middleware.RateLimiter
	server      *http.Server
}

// New creates a new Server over the given store.
func New(cfg *config.Config, st store.Store) *Server {
	clock := timefmt.New(cfg.TimeOffset)
	counters := counter.New(st, clock)
	svc := request.NewService(st, counters, clock)
	gen := &docgen.Generator{
		TemplatesDir: cfg.TemplatesDir,
		Renderer:     docgen.DocxRenderer{},
	}
	auditLog := audit.New(st, clock, 256)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	s := &Server{
		cfg:         cfg,
		store:       st,
		clock:       clock,
		svc:         svc,
		gen:         gen,
		auditLog:    auditLog,
		rateLimiter: rateLimiter,
	}

	s.server = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s.routes(),
	}
	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Serve starts the HTTP server on the given listener.
func (s *Server) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	// Shutdown HTTP server first (drains inflight requests),
	// then close audit logger (safe: no more Log() calls after server stops).
	err := s.server.Shutdown(ctx)
	if s.auditLog != nil {
		s.auditLog.Close()
	}
	return err
}
