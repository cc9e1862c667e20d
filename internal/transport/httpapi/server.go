// Package httpapi exposes the terminal over HTTP for the browser
// frontend: the command pipeline, the retrieval endpoints, the live
// event stream and a couple of status surfaces.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lukebdev/termlink/internal/service/chat"
	"github.com/lukebdev/termlink/internal/service/ratelimit"
	"github.com/lukebdev/termlink/internal/service/retrieval"
	"github.com/lukebdev/termlink/internal/service/terminal"
	"github.com/lukebdev/termlink/pkg/log"
)

// Deps collects everything the handlers reach for. Optional pieces may
// be nil; the affected endpoints then report unavailable instead of
// panicking.
type Deps struct {
	Terminal  *terminal.Service
	Assembler *retrieval.Assembler
	Ingestor  *retrieval.Ingestor
	Recorder  *chat.Recorder
	Bus       *chat.Bus
	Limiter   *ratelimit.Limiter

	// AdminToken guards ingestion. Empty fails closed.
	AdminToken string

	// AIEnabled is surfaced on the status endpoint.
	AIEnabled bool

	// BridgeOnline reports operator bridge state for the health surface.
	// Nil means no bridge is configured.
	BridgeOnline func() bool

	Environment string
}

// Server is the HTTP front of the terminal, run as one of the
// application's lifecycle services.
type Server struct {
	http      *http.Server
	deps      Deps
	startedAt time.Time
}

func NewServer(host string, port int, deps Deps) *Server {
	s := &Server{deps: deps, startedAt: time.Now()}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           withLogging(withCORS(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.http.Addr).Msg("http api listening")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http api: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	log.FromCtx(ctx).Info().Msg("http api shutting down")
	return s.http.Shutdown(shutdownCtx)
}

// registerRoutes mounts the API. The baseline scope covers every
// route; chat and rag routes are additionally checked against the
// tighter AI scope.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Interactive pipeline.
	mux.HandleFunc("POST /api/command", s.limited(s.handleCommand, ratelimit.ScopeGlobal, ratelimit.ScopeAI))
	mux.HandleFunc("POST /api/chat/message", s.limited(s.handleChatMessage, ratelimit.ScopeGlobal, ratelimit.ScopeAI))

	// Retrieval diagnostics and privileged ingestion.
	mux.HandleFunc("POST /api/rag/query", s.limited(s.handleRAGQuery, ratelimit.ScopeGlobal, ratelimit.ScopeAI))
	mux.HandleFunc("POST /api/rag/ingest", s.limited(s.admin(s.handleRAGIngest), ratelimit.ScopeGlobal, ratelimit.ScopeAI))
	mux.HandleFunc("POST /api/rag/bilingual-ingest", s.limited(s.admin(s.handleRAGBilingualIngest), ratelimit.ScopeGlobal, ratelimit.ScopeAI))

	// Live conversation surfaces.
	mux.HandleFunc("GET /api/chat/events/{cid}", s.limited(s.handleChatEvents, ratelimit.ScopeGlobal, ratelimit.ScopeAI))
	mux.HandleFunc("GET /api/chat/health", s.limited(s.handleChatHealth, ratelimit.ScopeGlobal, ratelimit.ScopeAI))

	// Plain status surfaces, cheap and unauthenticated.
	mux.HandleFunc("GET /api/status", s.limited(s.handleStatus, ratelimit.ScopeGlobal))
	mux.HandleFunc("GET /api/status/ping", s.limited(s.handlePing, ratelimit.ScopeGlobal))
	mux.HandleFunc("GET /api/recruiter", s.limited(s.handleRecruiter, ratelimit.ScopeGlobal))
}
