package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"predictor/internal/api/handlers"
	"predictor/internal/api/middleware"
	"predictor/internal/config"
	"predictor/internal/jobs"
	"predictor/internal/metrics"
	"predictor/internal/repository"
	"predictor/internal/service"
	"predictor/internal/websocket"
	"predictor/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize PostgreSQL with connection pooling
	db, err := initPostgres(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")

	// Initialize Redis
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	store := repository.NewPostgresRepository(db)
	cache := repository.NewRedisRepository(redisClient)

	// Run migrations
	if err := store.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Register Prometheus metrics
	metrics.Register()

	// Worker pool for asynchronous prediction persistence
	workerPool := worker.NewWorkerPool(10, 500, store)
	workerPool.Start()

	// WebSocket hub broadcasting leaderboard version changes
	hub := websocket.NewHub(cache)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Competition service: snapshots in, leaderboard and stats out
	competitionService := service.NewCompetitionService(store, store, cache, workerPool)

	// Background cache warmer
	refresher := jobs.NewRefresher(competitionService, jobs.RefresherConfig{
		Interval: 30 * time.Second,
	})
	refCtx, refCancel := context.WithCancel(context.Background())
	defer refCancel()
	if err := refresher.Start(refCtx); err != nil {
		log.Printf("Failed to start leaderboard refresher: %v", err)
	}

	// Handlers and middleware
	handler := handlers.NewHandler(competitionService, hub)
	requireAdmin := middleware.RequireAdmin(func(c *fiber.Ctx, userID string) (string, error) {
		return competitionService.GetUserRole(c.Context(), userID)
	})
	writeLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Premier League Predictor API",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.ActingUserHeader,
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/leaderboard", handler.GetLeaderboard)
	api.Get("/users/:id/stats", handler.GetUserStats)
	api.Get("/fixtures", handler.ListFixtures)
	api.Get("/predictions", handler.ListPredictions)
	api.Post("/predictions", writeLimiter.Handler(), handler.SubmitPrediction)
	api.Get("/results", handler.ListResults)
	api.Post("/results", requireAdmin, handler.SubmitResult)
	api.Get("/health", handler.HealthCheck)

	admin := api.Group("/admin", requireAdmin)
	admin.Get("/overview", handler.GetOverview)
	admin.Get("/users", handler.ListUsers)
	admin.Patch("/users/:id/role", handler.UpdateUserRole)
	admin.Delete("/users/:id", handler.DeleteUser)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// WebSocket route with upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", fiberws.New(func(c *fiberws.Conn) {
		handler.HandleWebSocket(c)
	}))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Premier League Predictor API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/leaderboard",
				"GET /api/v1/users/:id/stats",
				"GET /api/v1/fixtures",
				"GET|POST /api/v1/predictions",
				"GET|POST /api/v1/results",
				"GET /api/v1/admin/overview",
				"GET /api/v1/health",
				"GET /metrics",
				"WS /ws",
			},
			"websocket_clients": hub.GetClientCount(),
		})
	})

	// Graceful shutdown with worker pool flushing
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")

		refresher.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}

		// Flush pending prediction writes before closing connections
		if err := workerPool.Shutdown(30 * time.Second); err != nil {
			log.Printf("Worker pool shutdown error: %v", err)
		}

		if err := store.Close(); err != nil {
			log.Printf("Error closing PostgreSQL: %v", err)
		}
		if err := cache.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}

		log.Println("Server shutdown complete")
	}()

	// Start server
	port := cfg.Server.Port
	log.Printf("Server starting on port %d...", port)
	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initPostgres initializes PostgreSQL connection with connection pooling
func initPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Max connections must cover the worker pool plus request traffic
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// initRedis initializes Redis connection with connection pooling
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   "Request failed",
		"message": err.Error(),
	})
}
