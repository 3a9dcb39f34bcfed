// Package app wires the HTTP handler from a loaded Config. The long-running
// server (cmd/api) and the Lambda function (cmd/lambda) share it so both
// deployments serve the exact same routes.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/nyashahama/provider-scorecard/internal/api"
	"github.com/nyashahama/provider-scorecard/internal/config"
	"github.com/nyashahama/provider-scorecard/internal/email"
	"github.com/nyashahama/provider-scorecard/internal/metrics"
	"github.com/nyashahama/provider-scorecard/internal/survey"
)

// NewLogger returns a JSON logger in production and a debug-level text
// logger everywhere else.
func NewLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// NewHandler builds the router and its dependencies.
func NewHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	// ── Forms ─────────────────────────────────────────────────────────────────
	catalog, err := survey.Load()
	if err != nil {
		return nil, fmt.Errorf("forms: %w", err)
	}
	logger.Info("forms loaded", "forms", catalog.Keys(), "default", catalog.Default().Key)

	// ── Email (Resend) ────────────────────────────────────────────────────────
	// Missing mail settings do not stop the process; /api/send reports them
	// per request so health and scoring keep working.
	if missing := cfg.Mail.Missing(); len(missing) > 0 {
		logger.Warn("mail not configured; lead delivery will fail", "missing", missing)
	}
	mailer := email.NewResendClient(cfg.Mail.ResendAPIKey, cfg.Mail.ResendBaseURL)

	// ── HTTP ──────────────────────────────────────────────────────────────────
	handler := api.NewServer(
		catalog,
		mailer,
		metrics.New(),
		api.Config{
			Env:            cfg.Env,
			CORSOrigin:     cfg.CORSOrigin,
			RequestTimeout: cfg.ReqTimeout,
			Mail: api.MailConfig{
				HasAPIKey: cfg.Mail.ResendAPIKey != "",
				From:      cfg.Mail.FromHeader(),
				To:        cfg.Mail.Recipients(),
			},
		},
		logger,
	)
	return handler, nil
}
