package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devevents/pkg/cache"
	"devevents/pkg/config"
	"devevents/pkg/contracts"
	"devevents/pkg/kafka"
	kafka_config "devevents/pkg/kafka/config"
	kafkamiddleware "devevents/pkg/kafka/middleware"
	"devevents/pkg/middleware"
	"devevents/pkg/publisher"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
)

const redisDialTimeout = 3 * time.Second

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore middleware.IdempotencyStore
	redis            *redis.Client
	eventCache       cache.EventCache
	publisher        publisher.Publisher
	healthHandler    http.Handler
	appHTTPHandler   http.Handler
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{
		cfg:        cfg,
		eventCache: cache.NopEventCache{},
		publisher:  publisher.NopPublisher{},
	}
}

// InitInfrastructure connects the optional backing services. Redis and
// Kafka are both optional: an unreachable Redis disables caching, while a
// broken Kafka configuration is fatal because it was explicitly enabled.
func (a *Application) InitInfrastructure(ctx context.Context, serviceName string) {
	if a.cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:        a.cfg.RedisAddr,
			Password:    a.cfg.RedisPassword,
			DB:          a.cfg.RedisDB,
			DialTimeout: redisDialTimeout,
		})
		if err != nil {
			a.cfg.Log.Warn("Redis unavailable, event cache disabled", "addr", a.cfg.RedisAddr, "error", err)
		} else {
			a.redis = rdb
			a.eventCache = cache.NewRedisEventCache(rdb, a.cfg.EventCacheTTL, a.cfg.Log)
			a.cfg.Log.Info("Redis event cache enabled", "addr", a.cfg.RedisAddr, "ttl", a.cfg.EventCacheTTL)
		}
	}

	if a.cfg.KafkaEnabled {
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			a.cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
		}
		kafkaCfg.LogConfiguration(a.cfg.Log.Info)

		producer, err := kafka.NewProducer(kafkaCfg, a.cfg.KafkaTopic, a.cfg.Log)
		if err != nil {
			a.cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(a.cfg.Log))
		a.publisher = publisher.NewKafkaPublisher(producer, serviceName)
		a.cfg.Log.Info("Kafka domain-event publishing enabled", "topic", a.cfg.KafkaTopic)
	}
}

func (a *Application) EventCache() cache.EventCache {
	return a.eventCache
}

func (a *Application) Publisher() publisher.Publisher {
	return a.publisher
}

func (a *Application) SetApp(handlers ...contracts.Handler) {
	a.setHealthHandler()
	a.setAppHandler(handlers...)
	a.setAppServer()
}

func (a *Application) setHealthHandler() {
	healthRouter := httprouter.New()
	NewHealthHandler(a.cfg.Client, a.cfg.Log).RegisterRoutes(healthRouter)

	a.healthHandler = middleware.Chain(healthRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
	)
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(handlers ...contracts.Handler) {
	appRouter := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}

	if a.redis != nil {
		a.idempotencyStore = middleware.NewRedisIdempotencyStore(a.redis, a.cfg.IdempotencyTTL, a.cfg.Log)
	} else {
		a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	}

	a.appHTTPHandler = middleware.Chain(appRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.MaxBodySize(int64(a.cfg.MaxRequestSize)),
		middleware.ContentTypeValidation(a.cfg.Log),
		middleware.RequestTimeout(a.cfg.RequestTimeout),
		middleware.Idempotency(a.idempotencyStore, middleware.DefaultIdempotencyHeader),
	)
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

// Handler returns the composed root handler.
func (a *Application) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHTTPHandler)
	return mux
}

func (a *Application) setAppServer() {
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.Close(ctx)
	a.cfg.Log.Info("Server stopped gracefully")
}

// Close releases background workers and backing connections.
func (a *Application) Close(ctx context.Context) {
	if a.idempotencyStore != nil {
		a.idempotencyStore.Stop()
	}
	if err := a.publisher.Close(); err != nil {
		a.cfg.Log.Error("Failed to close publisher", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.cfg.Log.Error("Failed to close redis client", "error", err)
		}
	}
	if a.cfg.Client != nil {
		_ = a.cfg.Client.Disconnect(ctx)
	}
}
