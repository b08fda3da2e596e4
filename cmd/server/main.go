package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"logitrack/internal/auth"
	authhandler "logitrack/internal/auth/handler"
	"logitrack/internal/inventory"
	"logitrack/internal/inventory/cache"
	inventoryhandler "logitrack/internal/inventory/handler"
	jwttoken "logitrack/internal/jwt_token"
	"logitrack/internal/memstore"
	"logitrack/internal/orders"
	ordershandler "logitrack/internal/orders/handler"
	"logitrack/internal/platform/config"
	"logitrack/internal/platform/httpserver"
	"logitrack/internal/platform/logger"
	"logitrack/internal/platform/metrics"
	"logitrack/internal/platform/postgres"
	platformredis "logitrack/internal/platform/redis"
	httptransport "logitrack/internal/transport/http"
	"logitrack/pkg/platform/audit"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		itemStore  inventory.Store
		orderStore orders.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		itemStore = inventory.NewPostgresStore(db)
		orderStore = orders.NewPostgresStore(db)
	} else {
		// One store under one lock, so the cross-table rules hold without
		// the foreign keys Postgres provides.
		mem := memstore.New()
		itemStore = mem.Items()
		orderStore = mem.Orders()
	}

	// Listing cache: Redis when configured, in-process otherwise.
	var listCache inventory.ListCache
	if cfg.RedisURL != "" {
		redisClient, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		listCache = cache.NewRedis(redisClient.Client, itemStore, cfg.InventoryCacheTTL, m)
	} else {
		listCache = cache.NewMemory(itemStore, cfg.InventoryCacheTTL, m)
	}

	// Audit: Kafka when brokers are configured, in-memory otherwise.
	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	} else {
		sink = audit.NewMemorySink()
	}
	recorder := audit.NewRecorder(sink, log, 256)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	authService := auth.NewService(auth.NewInMemoryUserStore(), jwtService, cfg.TokenTTL)
	inventoryService := inventory.NewService(itemStore, listCache, log, m, recorder)
	orderService := orders.NewService(orderStore, itemStore, log, m, recorder)

	router := httptransport.NewRouter(log, m,
		authhandler.New(authService, log),
		inventoryhandler.New(inventoryService, log, jwtService),
		ordershandler.New(orderService, log, jwtService),
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting logitrack", "addr", cfg.Addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := recorder.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
