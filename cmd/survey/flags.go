package main

import (
	"errors"
	"flag"
	"io"
	"time"
)

type options struct {
	Form     string
	Endpoint string
	Timeout  time.Duration
}

// parseFlags reads the command line; empty flags fall back to the values
// loaded from the environment.
func parseFlags(args []string, defaults options, output io.Writer) (options, error) {
	opts := defaults

	fs := flag.NewFlagSet("survey", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.Form, "form", defaults.Form, "Form key (e.g. transporte, cleanway)")
	fs.StringVar(&opts.Endpoint, "endpoint", defaults.Endpoint, "Lead endpoint, e.g. https://example.com/api/send (empty: do not submit)")
	fs.DurationVar(&opts.Timeout, "timeout", defaults.Timeout, "HTTP timeout for the submission")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, errors.New("unexpected arguments")
	}
	if opts.Timeout <= 0 {
		return options{}, errors.New("timeout must be positive")
	}
	return opts, nil
}
