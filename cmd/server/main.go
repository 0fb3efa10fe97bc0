package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/cartwise/grocery-service/config"
	"github.com/cartwise/grocery-service/internal/auth"
	"github.com/cartwise/grocery-service/internal/catalog"
	"github.com/cartwise/grocery-service/internal/database"
	"github.com/cartwise/grocery-service/internal/geocode"
	"github.com/cartwise/grocery-service/internal/handlers"
	"github.com/cartwise/grocery-service/internal/middleware"
	"github.com/cartwise/grocery-service/internal/optimizer"
	"github.com/cartwise/grocery-service/internal/storage"
	"github.com/cartwise/grocery-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting grocery service")

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	if err := database.Migrate(dbURL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	catalogRepo := catalog.NewRepository(database.Pool())

	geocoder := geocode.Cached(geocode.NewClient(geocode.ClientConfig{
		BaseURL:           cfg.Geocoder.BaseURL,
		Country:           cfg.Geocoder.Country,
		Timeout:           cfg.Geocoder.Timeout,
		RequestsPerSecond: cfg.Geocoder.RequestsPerSecond,
		Burst:             cfg.Geocoder.Burst,
	}))

	optimizerSvc := optimizer.NewService(catalogRepo, geocoder)

	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create token issuer")
	}
	authSvc := auth.NewService(auth.NewPostgresRepository(database.Pool()), issuer)

	store, err := buildStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	h := handlers.New(catalogRepo, optimizerSvc, authSvc, store)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimitMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.Burst,
		}))
	}

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/optimize", h.Optimize)
	router.GET("/search", h.SearchProducts)

	router.GET("/stores", h.ListStores)
	router.GET("/stores/:storeId", h.GetStore)
	router.GET("/stores/:storeId/flyers", h.ListStoreFlyers)

	router.POST("/auth/signup", h.Signup)
	router.POST("/auth/login", h.Login)

	authed := router.Group("/")
	authed.Use(middleware.RequireAuth(issuer))
	{
		authed.GET("/auth/me", h.Me)
		authed.POST("/products", h.CreateProduct)
		authed.POST("/flyers", h.CreateFlyer)
		authed.POST("/stores/:storeId/flyers/image", h.UploadFlyerImage)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shut down telemetry")
	}

	logger.Info().Msg("Server exited")
}

func buildStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	switch storage.Type(cfg.Type) {
	case storage.TypeS3:
		return storage.NewS3Storage(ctx, storage.S3Config{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
			PublicURL: cfg.PublicURL,
		})
	case storage.TypeLocal, "":
		return storage.NewLocalStorage(cfg.BasePath, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "grocery-service").Logger()
	zlog.Logger = logger
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
