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

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/rps-arena/internal/arena"
	"github.com/DoyleJ11/rps-arena/internal/config"
	"github.com/DoyleJ11/rps-arena/internal/httpapi"
	"github.com/DoyleJ11/rps-arena/internal/logging"
	"github.com/DoyleJ11/rps-arena/internal/tcpserver"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.DevLogging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := arena.New(ctx, cfg.Rules, log)
	tcp := tcpserver.New(a, cfg.OutboxSize, log.Named("tcp"))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.SetupRoutes(a, cfg.OutboxSize, log.Named("http")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tcp.ListenAndServe(gctx, cfg.TCPAddr)
	})
	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := multierr.Combine(srv.Shutdown(shutdownCtx), tcp.Close())
		a.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
