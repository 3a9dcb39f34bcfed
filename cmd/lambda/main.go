// Command lambda serves the same routes as cmd/api from AWS Lambda behind an
// API Gateway HTTP API (payload format 2.0).
package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/nyashahama/provider-scorecard/internal/app"
	"github.com/nyashahama/provider-scorecard/internal/config"
	"github.com/nyashahama/provider-scorecard/internal/lambdaproxy"
)

func main() {
	logger := app.NewLogger(os.Getenv("ENV"))
	slog.SetDefault(logger)

	// Built once per cold start and reused across invocations.
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config error", "error", err)
		os.Exit(1)
	}
	handler, err := app.NewHandler(cfg, logger)
	if err != nil {
		logger.Error("startup error", "error", err)
		os.Exit(1)
	}

	lambda.Start(lambdaproxy.New(handler).Handle)
}
