// Command survey runs a provider scorecard in the terminal: it asks every
// question, prints the total and tier, and optionally sends the lead to the
// notification endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyashahama/provider-scorecard/internal/config"
	"github.com/nyashahama/provider-scorecard/internal/submission"
	"github.com/nyashahama/provider-scorecard/internal/survey"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	opts, err := parseFlags(os.Args[1:], options{
		Form:     cfg.DefaultForm,
		Endpoint: cfg.SurveyEndpoint,
		Timeout:  20 * time.Second,
	}, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	catalog, err := survey.Load()
	if err != nil {
		slog.Error("form catalogue error", "err", err)
		os.Exit(1)
	}
	form, ok := catalog.Resolve(opts.Form)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown form %q (available: %v)\n", opts.Form, catalog.Keys())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var submitter submission.Submitter
	if opts.Endpoint != "" {
		submitter = submission.NewClient(opts.Endpoint, opts.Timeout)
	}

	if err := newSession(os.Stdin, os.Stdout, form, submitter).run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		slog.Error("survey aborted", "err", err)
		os.Exit(1)
	}
}
