package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"rfp-service/internal/catalog"
	"rfp-service/internal/config"
	"rfp-service/internal/observability"
	"rfp-service/internal/pricing"
	"rfp-service/internal/proposal/service"
	serverhttp "rfp-service/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	// Both snapshots are loaded once and never change while serving.
	store, err := catalog.LoadFile(cfg.CatalogFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("load catalog")
	}
	sched, err := pricing.LoadScheduleFile(cfg.TestFeesFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.TestFeesFile).Msg("load test fees")
	}
	logger.Info().
		Int("items", store.Len()).
		Int("tests", len(sched.Fees())).
		Int("mandatory_tests", len(sched.Mandatory())).
		Msg("snapshots loaded")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observability.Register(reg)
	observability.CatalogItems.Set(float64(store.Len()))

	svc := service.New(store, sched, service.WithTopK(cfg.TopK), service.WithLogger(logger))
	r := serverhttp.NewRouter(cfg, logger, svc, reg)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
