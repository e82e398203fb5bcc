package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	goruntime "runtime"
	"syscall"
	"time"

	"github.com/okian/prode/internal/adapters/cache"
	"github.com/okian/prode/internal/adapters/http/api"
	"github.com/okian/prode/internal/adapters/mq/queue"
	"github.com/okian/prode/internal/adapters/mq/worker"
	"github.com/okian/prode/pkg/logger"
	"github.com/okian/prode/pkg/metrics"
	"github.com/urfave/cli/v2"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 20 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address; overrides the configured addr",
			},
		},
		Action: func(c *cli.Context) error {
			// Root context with cancel on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := bootstrap(ctx, c.App.Writer)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close() }()
			defer func() { _ = logger.Sync() }()

			addr := rt.cfg.Addr
			if a := c.String("addr"); a != "" {
				addr = a
			}

			go startSystemMetricsUpdater(ctx)

			stopRefresh := startRefresh(ctx, rt)
			defer stopRefresh()

			apiServer := api.NewServer(rt.svc,
				api.WithLogger(rt.log.Named("http")),
				api.WithCORSOrigins(rt.cfg.CORSOrigins),
				api.WithRequestTimeout(rt.cfg.RequestTimeout),
			)
			srv := &http.Server{
				Addr:              addr,
				Handler:           apiServer.Router(),
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}
			return serve(ctx, srv, rt.log)
		},
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startRefresh runs the background refresh pool when workers are configured
// and the cache can hold its results. The returned func drains the pool.
func startRefresh(ctx context.Context, rt *stack) func() {
	if rt.cfg.RefreshWorkers == 0 || rt.cfg.CacheBackend == cache.BackendNone {
		return func() {}
	}

	ids := rt.svc.MonthIDs()
	q := queue.NewInMemoryQueue(queue.WithCapacity(max(len(ids), 1) * 2))
	pool := worker.NewPool(rt.cfg.RefreshWorkers, q, rt.svc, rt.log.Named("refresh"))
	pool.Start(ctx)

	scheduleCtx, cancel := context.WithCancel(ctx)
	scheduled := make(chan struct{})
	go func() {
		defer close(scheduled)
		worker.Schedule(scheduleCtx, q, ids, rt.cfg.RefreshInterval, rt.log.Named("refresh"))
	}()

	return func() {
		cancel()
		<-scheduled
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := pool.Shutdown(shutdownCtx); err != nil {
			rt.log.Warn(shutdownCtx, "refresh pool shutdown failed", logger.Error(err))
		}
	}
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m goruntime.MemStats
	goruntime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(goruntime.NumGoroutine())

	if m.NumGC > 0 {
		// Average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
