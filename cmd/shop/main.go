package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"SweetShop/internal/config"
	"SweetShop/internal/inventory"
	"SweetShop/internal/shop"
	"SweetShop/pkg/kit"
)

func main() {
	service := "shop"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("config loaded", zap.Stringer("config", cfg))

	store := inventory.NewStore()
	if cfg.Shop.Seed {
		ids, err := inventory.Seed(store, inventory.SampleSweets)
		if err != nil {
			log.Fatal("seed inventory", zap.Error(err))
		}
		log.Info("inventory seeded", zap.Strings("sweet_ids", ids))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h := shop.NewHandler(&shop.Server{
		Store:             store,
		Log:               log,
		LowStockThreshold: &cfg.Shop.LowStock,
	}, shop.HTTPDeps{
		Log:             log,
		Service:         service,
		Registry:        reg,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsToken:    cfg.Metrics.Token,
		RateLimit:       cfg.RateLimit.Limit,
		RateLimitWindow: cfg.RateLimit.Window,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = kit.RunHTTPServer(ctx, kit.ServerConfig{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: cfg.Server.ReadHeader,
		ShutdownTimeout:   cfg.Server.Shutdown,
	}, h, log)
	if err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
