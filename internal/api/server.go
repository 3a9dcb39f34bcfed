// Package api implements the HTTP layer: the lead notification endpoint plus
// read-only form and scoring endpoints. Handlers are methods on *Server. Each
// handler file is responsible for one resource group.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nyashahama/provider-scorecard/internal/email"
	"github.com/nyashahama/provider-scorecard/internal/metrics"
	"github.com/nyashahama/provider-scorecard/internal/survey"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string

	// CORSOrigin is the browser origin allowed in production. Empty means "*".
	CORSOrigin string

	// RequestTimeout bounds every request, including the provider call.
	// Zero selects 30 seconds.
	RequestTimeout time.Duration

	Mail MailConfig
}

// MailConfig is the outbound configuration the send handler needs. Missing
// values are a per-request configuration error, not a startup failure.
type MailConfig struct {
	HasAPIKey bool     // RESEND_API_KEY is set
	From      string   // EMAIL_FROM, already formatted as "Name <addr>" if needed
	To        []string // EMAIL_TO, the fixed sales inbox
}

// missing returns the names of the unset variables.
func (m MailConfig) missing() []string {
	var out []string
	if !m.HasAPIKey {
		out = append(out, "RESEND_API_KEY")
	}
	if m.From == "" {
		out = append(out, "EMAIL_FROM")
	}
	if len(m.To) == 0 {
		out = append(out, "EMAIL_TO")
	}
	return out
}

// Server holds all shared dependencies. It carries no per-request state, so
// any number of requests may be served concurrently.
type Server struct {
	// catalog resolves form keys to questions and tier copy.
	catalog *survey.Catalog

	// mailer delivers the lead notification. Exactly one Send per accepted lead.
	mailer email.Sender

	// metrics may be nil; every Recorder method is nil-safe.
	metrics *metrics.Recorder

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe or the Lambda adapter.
func NewServer(
	catalog *survey.Catalog,
	mailer email.Sender,
	rec *metrics.Recorder,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		catalog: catalog,
		mailer:  mailer,
		metrics: rec,
		cfg:     cfg,
		logger:  logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondErr(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondErr(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// ── Health + metrics ──────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		// All methods reach one handler so the 405 can carry an Allow header.
		r.HandleFunc("/send", s.handleSend)

		r.Get("/forms", s.handleListForms)
		r.Get("/forms/{formKey}", s.handleGetForm)
		r.Post("/forms/{formKey}/score", s.handleScore)
	})

	return r
}
