// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // #nosec G108
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/sealmeet-indexer/database"
	"github.com/blinklabs-io/sealmeet-indexer/event"
	"github.com/blinklabs-io/sealmeet-indexer/indexer"
	"github.com/blinklabs-io/sealmeet-indexer/internal/config"
	"github.com/blinklabs-io/sealmeet-indexer/sui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 30 * time.Second

func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	// Configure tracing
	if cfg.Tracing {
		shutdownTracing, err := setupTracing(cfg)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(
				context.Background(),
				shutdownTimeout,
			)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				logger.Error("tracing shutdown error", "error", err)
			}
		}()
	}
	// Load database
	db, err := database.New(&database.Config{
		ConnectionString: cfg.DatabaseUrl,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()
	eventBus := event.NewEventBus(prometheus.DefaultRegisterer)
	client := sui.NewClient(cfg.RpcUrl)
	idx, err := indexer.New(indexer.Config{
		Logger:               logger,
		Client:               client,
		Database:             db,
		EventBus:             eventBus,
		PromRegistry:         prometheus.DefaultRegisterer,
		PackageID:            cfg.PackageId,
		CheckpointBufferSize: cfg.CheckpointBufferSize,
		IngestConcurrency:    cfg.IngestConcurrency,
		RetryInterval:        time.Duration(cfg.RetryIntervalMs) * time.Millisecond,
		FirstCheckpoint:      cfg.FirstCheckpoint,
		LastCheckpoint:       cfg.LastCheckpoint,
	})
	if err != nil {
		return err
	}
	// Metrics and debug listener
	http.Handle("/metrics", promhttp.Handler())
	logger.Info(
		"serving prometheus metrics on "+fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		"component",
		"node",
	)
	metricsServer := &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error(
				fmt.Sprintf("failed to start metrics listener: %s", err),
				"component", "node",
			)
			os.Exit(1)
		}
	}()
	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	// Run indexer in goroutine
	errChan := make(chan error, 1)
	go func() {
		//nolint:contextcheck
		err := idx.Run(signalCtx)
		select {
		case errChan <- err:
		case <-signalCtx.Done():
		}
	}()

	shutdownMetrics := func() {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	// Wait for signal or error
	select {
	case <-signalCtx.Done():
		logger.Info("signal received, initiating graceful shutdown")
		idx.Stop()
		shutdownMetrics()
		logger.Info("shutdown complete")
		return nil

	case err := <-errChan:
		if err == nil || errors.Is(err, context.Canceled) {
			// Indexer terminated on its own, e.g. last checkpoint reached
			logger.Info("indexer stopped", "state", idx.State())
			shutdownMetrics()
			return nil
		}
		logger.Error("indexer error", "error", err)
		signalCtxStop()
		shutdownMetrics()
		return err
	}
}
