// Package app turns a loaded configuration into the wired check pipeline
// shared by the HTTP server and the Lambda entrypoint.
package app

import (
	"log/slog"
	"time"

	"github.com/angeloszaimis/proxy-health-gateway/config"
	"github.com/angeloszaimis/proxy-health-gateway/internal/gateway"
	"github.com/angeloszaimis/proxy-health-gateway/internal/upstream"
	"github.com/angeloszaimis/proxy-health-gateway/pkg/logger"
)

// NewLogger builds the process logger from the logging section.
func NewLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		AddSource:   cfg.Logging.AddSource,
		Environment: cfg.Server.Environment,
		File: logger.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		},
	})
}

// NewUpstreamClient creates the client for the configured health-check API.
func NewUpstreamClient(cfg *config.Config) (*upstream.Client, error) {
	return upstream.New(cfg.Upstream.URL, upstream.Options{
		Timeout:      cfg.UpstreamTimeout(),
		MaxBodyBytes: cfg.Upstream.MaxBodyBytes,
		UserAgent:    cfg.Upstream.UserAgent,
	})
}

// GatewayOptions maps the method and CORS sections onto gateway.Options.
func GatewayOptions(cfg *config.Config) gateway.Options {
	return gateway.Options{
		CORS: gateway.CORSOptions{
			Enabled:      cfg.CORS.Enabled,
			AllowOrigin:  cfg.CORS.AllowOrigin,
			AllowMethods: cfg.CORS.AllowMethods,
			MaxAge:       time.Duration(cfg.CORS.MaxAge) * time.Second,
		},
		AllowedMethods: cfg.Gateway.AllowedMethods,
	}
}

// NewGateway wires the upstream client into a Gateway.
func NewGateway(cfg *config.Config, log *slog.Logger) (*gateway.Gateway, *upstream.Client, error) {
	client, err := NewUpstreamClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	log.Info("Upstream configured",
		slog.String("url", client.BaseURL()),
		slog.Duration("timeout", client.Timeout()))

	return gateway.New(log, client, GatewayOptions(cfg)), client, nil
}
