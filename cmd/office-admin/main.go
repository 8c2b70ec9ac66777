package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nurpe/office-admin/internal/apiclient"
	"github.com/nurpe/office-admin/internal/config"
	httphandler "github.com/nurpe/office-admin/internal/http"
	"github.com/nurpe/office-admin/internal/logger"
	"github.com/nurpe/office-admin/internal/metrics"
	"github.com/nurpe/office-admin/internal/session"
	"github.com/nurpe/office-admin/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	m := metrics.New()
	client := apiclient.New(cfg.API.BaseURL, log,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithMetrics(m),
	)
	factory := view.NewFactory(client, view.InvoiceSettings{
		DefaultVATRate:     cfg.Invoices.DefaultVATRate,
		HighlightThreshold: cfg.Invoices.HighlightThreshold,
	}, m, log)
	registry := session.NewRegistry(factory, cfg.Views.IdleTTL, log)

	handler := httphandler.NewHandler(factory, log)
	router := httphandler.NewRouter(handler, registry, m, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", addr).Str("api", cfg.API.BaseURL).Msg("starting office admin")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return registry.Run(gctx)
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
