package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/angeloszaimis/proxy-health-gateway/config"
	"github.com/angeloszaimis/proxy-health-gateway/internal/app"
	"github.com/angeloszaimis/proxy-health-gateway/internal/handler"
	"github.com/angeloszaimis/proxy-health-gateway/internal/healthcheck"
	"github.com/angeloszaimis/proxy-health-gateway/internal/httpserver"
	"github.com/angeloszaimis/proxy-health-gateway/internal/metrics"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	address := pflag.StringP("address", "a", "", "listen address, overrides server.address")
	pflag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	if *address != "" {
		cfg.Server.Address = *address
	}

	log := app.NewLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gw, client, err := app.NewGateway(cfg, log)
	if err != nil {
		log.Error("Failed to configure upstream", slog.Any("err", err))
		os.Exit(1)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.BufferSize, log)
		collector.Start(ctx)
	}

	var probe handler.UpstreamProbe
	if cfg.HealthCheck.Enabled {
		monitor := healthcheck.NewMonitor(client.BaseURL(), cfg.HealthCheckInterval(), cfg.HealthCheckTimeout(), log, collector)
		go monitor.Run(ctx)
		probe = monitor
	}

	checkHandler := handler.NewCheckHandler(log, gw, collector)

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(checkHandler, probe, collector), httpserver.Options{
		ReadTimeout:     cfg.ReadTimeout(),
		WriteTimeout:    cfg.WriteTimeout(),
		IdleTimeout:     cfg.IdleTimeout(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
	})
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		log.Info("Gateway listening", slog.String("addr", srv.Addr()))
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting gateway", slog.Any("err", err))
			os.Exit(1)
		}
	}

	if collector != nil {
		cancel()
		<-collector.Done()
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
