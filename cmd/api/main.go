package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/config"
	httphandler "github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/delivery/http"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/delivery/kafka"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/metrics"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/razorpay"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/repository"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		logger.Error("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
		os.Exit(1)
	}

	pool, err := initDB(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool, "db/migrations", logger); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repository.New(pool)
	m := metrics.New()

	var events usecase.EventPublisher = usecase.NoopPublisher{}
	var kafkaClient *kgo.Client
	if cfg.EventDrivenEnabled == "true" {
		kafkaClient, err = kgo.NewClient(
			kgo.SeedBrokers(strings.Split(cfg.KafkaBrokers, ",")...),
			kgo.ClientID(cfg.KafkaClientID),
		)
		if err != nil {
			logger.Error("failed to create kafka client", "err", err)
			os.Exit(1)
		}
		if err := kafka.EnsureTopics(ctx, kafkaClient, cfg, logger); err != nil {
			logger.Warn("failed to ensure topics", "err", err)
		}
		events = kafka.NewPublisher(kafkaClient, logger)
	}

	provider := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	verifier := razorpay.NewSignatureVerifier(cfg.SignatureSecret)

	coupons := usecase.NewCouponService(store, logger)
	payments := usecase.NewPaymentService(store, provider, verifier, coupons, events, m, logger)
	feedback := usecase.NewFeedbackService(store)
	registrations := usecase.NewRegistrationService(store)

	handler := httphandler.NewHandler(payments, coupons, feedback, registrations, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	handler.Routes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}

	if kafkaClient != nil {
		kafkaClient.Close()
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func initDB(cfg *config.Config) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}
