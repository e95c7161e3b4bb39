package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitchain/internal/amqp"
	"github.com/mmynk/splitchain/internal/auth"
	"github.com/mmynk/splitchain/internal/config"
	"github.com/mmynk/splitchain/internal/events"
	"github.com/mmynk/splitchain/internal/ledger"
	"github.com/mmynk/splitchain/internal/middleware"
	"github.com/mmynk/splitchain/internal/relay"
	"github.com/mmynk/splitchain/internal/service"
	"github.com/mmynk/splitchain/internal/storage"
	"github.com/mmynk/splitchain/internal/storage/memory"
	"github.com/mmynk/splitchain/internal/storage/sqlite"
	"github.com/mmynk/splitchain/internal/telemetry"
	"github.com/mmynk/splitchain/pkg/api"
	"github.com/mmynk/splitchain/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

// backend is a store that also keeps user accounts.
type backend interface {
	storage.Store
	storage.UserStore
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, "splitchain", cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	bus := events.NewBus(events.DefaultBuffer)
	l := ledger.New(store,
		ledger.WithNotifier(bus),
		ledger.WithMetrics(metrics),
	)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)

	mux := http.NewServeMux()

	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(
		service.NewLedgerService(l, bus, logger),
		connect.WithInterceptors(
			middleware.LoggingInterceptor(logger),
			middleware.MetricsInterceptor(metrics),
			middleware.RequireAuth(jwtManager),
		),
	)
	mux.Handle(ledgerPath, ledgerHandler)

	authPath, authHandler := api.NewAuthServiceHandler(
		service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger),
		connect.WithInterceptors(
			middleware.LoggingInterceptor(logger),
			middleware.MetricsInterceptor(metrics),
		),
	)
	mux.Handle(authPath, authHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// h2c serves HTTP/2 without TLS.
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Connect server starting", "address", server.Addr, "backend", cfg.DataBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("failed to connect to AMQP: %w", err)
		}
		defer publisher.Close()

		r := relay.New(store, publisher, relay.Config{
			Interval:  cfg.RelayInterval,
			BatchSize: cfg.RelayBatchSize,
		}, metrics)
		g.Go(func() error { return r.Run(ctx) })
	} else {
		slog.Info("AMQP_URL not set, outbox relay disabled")
	}

	return g.Wait()
}

func openStore(cfg *config.Config) (backend, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		slog.Info("Storage initialized", "backend", "memory")
		return memory.New(), nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", "sqlite", "database", cfg.DBPath)
		return store, nil
	}
}

// loggingMiddleware logs every HTTP request at debug level; RPC outcomes are
// logged by the Connect interceptor.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Grpc-Status, Grpc-Message")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
