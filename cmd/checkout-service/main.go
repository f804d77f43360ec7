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

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/logger"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/telemetry"
)

const serviceName = "checkout-service"

func main() {
	if err := run(); err != nil {
		slog.Error("checkout-service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	log := logger.New(logger.Options{Service: serviceName, Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.Setup(ctx, telemetry.Options{
		Service:  serviceName,
		Env:      cfg.AppEnv,
		Endpoint: cfg.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Warn("tracer shutdown", "error", err)
		}
	}()

	if err := db.RunMigrations(cfg.DatabaseDSN, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	orderRepo := order.NewPostgresRepository(pool)

	sessions, closeSessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	publisher, closePublisher, err := openPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	svc := checkout.NewService(orderRepo, publisher, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:   log,
		Cfg:      cfg,
		Checkout: svc,
		Orders:   orderRepo,
		Sessions: sessions,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("checkout-service listening", "port", cfg.Port, "session_store", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func openSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
	case "postgres":
		sqlDB, err := db.OpenSQL(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return session.NewPostgresStore(sqlDB, cfg.SessionTTL), func() { _ = sqlDB.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}
}

func openPublisher(cfg config.Config, log *slog.Logger) (checkout.EventPublisher, func(), error) {
	if cfg.RabbitURL == "" {
		log.Warn("RABBITMQ_URL not set, OrderPlaced events are disabled")
		return events.NopPublisher{}, func() {}, nil
	}

	conn, err := events.Dial(cfg.RabbitURL)
	if err != nil {
		return nil, nil, err
	}
	pub, err := events.NewPublisher(conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("create publisher: %w", err)
	}

	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Warn("publisher close", "error", err)
		}
		_ = conn.Close()
	}, nil
}
