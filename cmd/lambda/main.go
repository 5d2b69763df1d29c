// Command lambda serves the proxy check behind an API Gateway proxy
// integration. It reads the same configuration as the HTTP server; the
// server, health_check and metrics sections are ignored.
package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/angeloszaimis/proxy-health-gateway/config"
	"github.com/angeloszaimis/proxy-health-gateway/internal/app"
	"github.com/angeloszaimis/proxy-health-gateway/internal/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := app.NewLogger(cfg)

	gw, _, err := app.NewGateway(cfg, log)
	if err != nil {
		log.Error("Failed to configure upstream", slog.Any("err", err))
		os.Exit(1)
	}

	lambda.Start(handler.NewLambdaHandler(log, gw).Handle)
}
