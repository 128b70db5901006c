package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/eaglebank/client-service/internal/config"
	"github.com/eaglebank/client-service/internal/events"
	"github.com/eaglebank/client-service/internal/handler"
	"github.com/eaglebank/client-service/internal/metrics"
	"github.com/eaglebank/client-service/internal/middleware"
	"github.com/eaglebank/client-service/internal/projection"
	redisClient "github.com/eaglebank/client-service/internal/redis"
	"github.com/eaglebank/client-service/internal/repository"
	"github.com/eaglebank/client-service/internal/service"
)

const (
	consumerGroup   = "client-service-group"
	streamMaxLen    = 10000
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Document store
	var store repository.ClientStore
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		if err := repository.ApplyMigrations(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		store = repository.NewPostgresClientStore(db)
	default:
		log.Println("Using in-memory client store")
		store = repository.NewMemoryClientStore()
	}

	// Redis: document cache, event stream and activity counters
	var (
		publisher  service.EventPublisher
		activity   handler.ActivityReader
		subscriber *events.Subscriber
	)
	if cfg.RedisEnabled {
		redis, err := redisClient.NewClient(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()

		store = repository.NewCachedClientStore(store, redis.Client, cfg.ClientCacheTTL)
		publisher = events.NewPublisher(redis.Client, streamMaxLen)

		activityRepo := repository.NewActivityRepository(redis.Client)
		activity = activityRepo
		subscriber = events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    consumerGroup,
			Consumer: cfg.ConsumerName,
			Stream:   events.ClientEventsStream,
			Handler:  projection.NewActivityProjector(activityRepo).HandleClientEvent,
		})
	} else {
		log.Println("Redis disabled: no cache, events or activity tracking")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	banking := service.NewBankingService(store, publisher, m)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(), m.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(router.Group("/v1"),
		handler.NewClientHandler(banking, banking),
		handler.NewAccountHandler(banking, banking),
		handler.NewActivityHandler(banking, activity),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Client service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if subscriber != nil {
		g.Go(func() error {
			if err := subscriber.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Subscriber stopped: %v", err)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Client service stopped: %v", err)
	}
}
