// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/automaxprocs/maxprocs"
	_ "modernc.org/sqlite"

	"github.com/opencities/cityledger/accesslog"
	"github.com/opencities/cityledger/attachments"
	"github.com/opencities/cityledger/cliparse"
	"github.com/opencities/cityledger/ledger"
	"github.com/opencities/cityledger/lock"
	"github.com/opencities/cityledger/metrics"
	"github.com/opencities/cityledger/objectstore"
	"github.com/opencities/cityledger/router"
	"github.com/opencities/cityledger/tokens"
)

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", "cityledger")
}

func main() {
	// Load .env if present; real env always wins
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Configure logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Configure max processes with our logger wrapper, toss undo func
	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	ctx := context.Background()
	registry := prometheus.NewRegistry()

	// Open the object store
	objects, err := openObjectStore(ctx, cfg, logger, registry)
	if err != nil {
		slog.Error("object store setup failed", "error", err)
		os.Exit(1)
	}

	// Open the access log sink
	logSink, err := openAccessLog(cfg)
	if err != nil {
		slog.Error("access log setup failed", "error", err)
		os.Exit(1)
	}

	// Wire the core
	mtr := metrics.New(registry)
	locks := lock.NewManager(objects, lock.WithMetrics(mtr))
	store := ledger.NewStore(objects, locks, ledger.WithMetrics(mtr))
	resolver := tokens.NewResolver(objects, tokens.WithAccessLog(logSink))
	svc := attachments.NewService(objects)

	// Create router
	mux := router.NewRouter(store, resolver, svc, registry)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "bucket", cfg.Bucket)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openObjectStore picks the backend from the bucket location scheme:
// gcs://<bucket> for production, memory:// for development.
func openObjectStore(ctx context.Context, cfg cliparse.Config, logger *slog.Logger, registry prometheus.Registerer) (objectstore.Store, error) {
	if cfg.Bucket == "memory://" {
		slog.Warn("using in-memory object store; all state is lost on exit")
		return objectstore.NewMemory(), nil
	}
	if bucket, ok := strings.CutPrefix(cfg.Bucket, "gcs://"); ok {
		return objectstore.NewGCS(ctx,
			objectstore.WithBucket(bucket),
			objectstore.WithLogger(logger),
			objectstore.WithCredentialsFile(cfg.GoogleCredentials),
			objectstore.WithPromRegistry(registry),
		)
	}
	return nil, fmt.Errorf("unsupported object store location %q", cfg.Bucket)
}

// openAccessLog opens the configured access log database, or a Nop sink
// when none is configured.
func openAccessLog(cfg cliparse.Config) (accesslog.Appender, error) {
	if cfg.AccessLogDriver == "" {
		return accesslog.Nop{}, nil
	}
	// modernc.org/sqlite registers itself as "sqlite", lib/pq as "postgres",
	// matching the config values directly
	db, err := sql.Open(cfg.AccessLogDriver, cfg.AccessLogDSN)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return accesslog.NewDB(db)
}
