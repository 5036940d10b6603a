package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/mishwar/go-mishwar/internal/config"
	"github.com/mishwar/go-mishwar/internal/database"
	"github.com/mishwar/go-mishwar/internal/handler"
	"github.com/mishwar/go-mishwar/internal/middleware"
	"github.com/mishwar/go-mishwar/internal/notify"
	"github.com/mishwar/go-mishwar/internal/persist"
	"github.com/mishwar/go-mishwar/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize New Relic (optional)
	var nrApp *newrelic.Application
	if cfg.NewRelicEnabled && cfg.NewRelicLicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelicAppName),
			newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigInfoLogger(os.Stdout),
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize New Relic: %v", err)
		} else if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		} else {
			log.Println("New Relic connected")
		}
	}

	// Storage backend for the booking collections
	var (
		adapter persist.Adapter
		pg      *database.PostgresDB
		redis   *database.RedisDB
	)
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pg, err = database.NewPostgres(cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBMaxIdleConnections)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer pg.Close()

		adapter, err = persist.NewPostgresAdapter(pg.DB)
		if err != nil {
			log.Fatalf("Failed to initialize postgres storage: %v", err)
		}
		log.Println("Booking storage: postgres")

	case config.BackendRedis:
		redis, err = database.NewRedis(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()

		adapter = persist.NewRedisAdapter(redis.Client)
		log.Println("Booking storage: redis")

	default:
		adapter, err = persist.NewFileAdapter(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize file storage: %v", err)
		}
		log.Printf("Booking storage: file (%s)", cfg.DataDir)
	}

	// Redis also backs rate limiting and idempotency. When the booking
	// backend is not redis, try to attach a client for those concerns
	// and run without them if unavailable.
	if redis == nil {
		if r, err := database.NewRedis(cfg.RedisURL, cfg.RedisPassword); err == nil {
			redis = r
			defer redis.Close()
		} else {
			log.Printf("Redis unavailable, rate limiting and idempotency disabled: %v", err)
		}
	}

	writer := persist.NewDebouncedWriter(adapter, cfg.DebounceWindow)

	bookingStore := store.NewBookingStore(adapter, writer)
	if cfg.SeedDemoData && bookingStore.Empty() {
		bookingStore.SeedDemoData()
	}

	poller := notify.NewPoller(bookingStore, cfg.NotifyPollInterval)
	poller.Start()

	bookingHandler := handler.NewBookingHandler(bookingStore)
	notificationHandler := handler.NewNotificationHandler(poller)

	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if nrApp != nil {
		r.Use(middleware.NewRelicMiddleware(nrApp))
	}

	if redis != nil {
		rateLimiter := middleware.NewRateLimiter(redis.Client, cfg.RateLimitPerMinute, time.Minute)
		r.Use(rateLimiter.Handler)

		idempotencyMw := middleware.NewIdempotencyMiddleware(redis.Client)
		r.Use(idempotencyMw.Handler)
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		if pg != nil {
			if err := pg.Health(ctx); err != nil {
				http.Error(w, "database unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		if redis != nil {
			if err := redis.Health(ctx); err != nil {
				http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		bookingHandler.RegisterRoutes(r)
		notificationHandler.RegisterRoutes(r)
		if cfg.Env != "production" {
			bookingHandler.RegisterResetRoutes(r)
		}
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	log.Println("API endpoints:")
	log.Println("  POST   /v1/bookings/requests          - Create booking request")
	log.Println("  GET    /v1/bookings/{id}              - Get booking")
	log.Println("  POST   /v1/bookings/{id}/accept       - Accept request")
	log.Println("  POST   /v1/bookings/{id}/reject       - Reject request")
	log.Println("  POST   /v1/bookings/{id}/cancel       - Cancel accepted booking")
	log.Println("  POST   /v1/bookings/{id}/complete     - Complete accepted booking")
	log.Println("  POST   /v1/bookings/{id}/messages     - Append message")
	log.Println("  POST   /v1/bookings/{id}/rating       - Rate completed trip")
	log.Println("  PATCH  /v1/bookings/{id}/payment      - Update payment status")
	log.Println("  GET    /v1/users/{id}/bookings        - List user bookings")
	log.Println("  GET    /v1/users/{id}/bookings/stats  - Booking stats")
	log.Println("  GET    /v1/drivers/{id}/requests      - Driver pending requests")
	log.Println("  GET    /v1/drivers/{id}/notifications - Pending-count notifications")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	// Flush whatever the debounce window is still holding before exit.
	poller.Stop()
	writer.Close()

	log.Println("Server stopped gracefully")
}
