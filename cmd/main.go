package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/okian/classplay/internal/adapters/http/api"
	"github.com/okian/classplay/internal/adapters/http/site"
	"github.com/okian/classplay/internal/adapters/http/swagger"
	app "github.com/okian/classplay/internal/app"
	"github.com/okian/classplay/internal/config"
	"github.com/okian/classplay/pkg/logger"
	"github.com/okian/classplay/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// We collect our own system metrics on the custom registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithOptions(logger.Options{
		Format:    cfg.LogFormat,
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
	}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		os.Stderr.WriteString("classplay: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// run listens on cfg.Addr and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	return serve(ctx, cfg, log, ln)
}

// serve runs the service on ln until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, cfg *config.Config, log logger.Logger, ln net.Listener) error {
	svc := app.New(app.WithConfig(cfg), app.WithLogger(log.Named("service")))
	if err := svc.Start(ctx); err != nil {
		_ = ln.Close()
		return err
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		// no WriteTimeout: the event streams stay open
	}
	// Shutdown waits for handlers to return. Stopping the service closes
	// every event stream so open pages do not hold it up.
	srv.RegisterOnShutdown(svc.Stop)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		every(gctx, systemMetricsInterval, updateSystemMetrics)
		return nil
	})
	g.Go(func() error {
		every(gctx, serviceMetricsInterval, func() { updateServiceMetrics(svc) })
		return nil
	})
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
		}
		return nil
	})

	err := g.Wait()
	log.Info(context.Background(), "server stopped")
	return err
}

// newMux registers every route of the process.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	site.Register(ctx, mux, svc.MoodPollEnabled())
	return mux
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes the gauges derived from service stats.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	metrics.UpdateQueueSize(stats.QueueLen, stats.QueueCapacity)
}
