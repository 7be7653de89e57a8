package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/api"
	"github.com/lalith-99/plotgrid/internal/auth"
	"github.com/lalith-99/plotgrid/internal/config"
	"github.com/lalith-99/plotgrid/internal/events"
	"github.com/lalith-99/plotgrid/internal/middleware"
	"github.com/lalith-99/plotgrid/internal/observ"
	"github.com/lalith-99/plotgrid/internal/repository/cache"
	"github.com/lalith-99/plotgrid/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// ---------------------------------------------------------------
	// 3. Firebase, when the store or the token provider needs it
	// ---------------------------------------------------------------
	var deps dependencies
	defer deps.close()

	if cfg.UsesFirebase() {
		deps.firebase, err = auth.InitializeFirebase(ctx, auth.FirebaseConfig{
			CredentialsPath: cfg.FirebaseCredentialsPath,
			ProjectID:       cfg.FirebaseProjectID,
		})
		if err != nil {
			return err
		}
	}

	// ---------------------------------------------------------------
	// 4. Stores
	//
	// Postgres, Firestore or memory, chosen by STORE_BACKEND. Every
	// backend satisfies the same repository interfaces, so nothing
	// below this block knows which one is running.
	// ---------------------------------------------------------------
	backend, err := openStores(ctx, cfg, &deps, logger)
	if err != nil {
		return err
	}

	// ---------------------------------------------------------------
	// 5. Redis: template cache and the plot event bus
	//
	// Without REDIS_URL the server still runs, with no cache and an
	// in-process bus (live streams then only see changes made through
	// this instance).
	// ---------------------------------------------------------------
	var bus events.Bus = events.NewLocalBus()
	templateRepo := backend.templates
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		deps.redis = redis.NewClient(opts)
		if err := deps.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		backend.health["redis"] = func(ctx context.Context) error { return deps.redis.Ping(ctx).Err() }

		bus = events.NewRedisBus(deps.redis, logger)
		if cfg.CacheTTL > 0 {
			templateRepo = cache.NewTemplateStore(templateRepo, deps.redis, cfg.CacheTTL, logger)
		}
		logger.Info("redis connected", zap.Duration("cache_ttl", cfg.CacheTTL))
	}

	// ---------------------------------------------------------------
	// 6. Token verifier
	// ---------------------------------------------------------------
	var verifier auth.TokenVerifier
	switch cfg.AuthProvider {
	case config.ProviderFirebase:
		verifier, err = auth.NewFirebaseVerifier(ctx, deps.firebase)
		if err != nil {
			return err
		}
	default:
		verifier = auth.NewJWTVerifier(cfg.JWTSecret)
	}

	// ---------------------------------------------------------------
	// 7. Services and handlers
	// ---------------------------------------------------------------
	templateSvc := service.NewTemplateService(templateRepo, logger)
	projectSvc := service.NewProjectService(backend.projects, templateRepo, bus, logger)

	if err := api.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Recovery(), middleware.RequestID(logger), middleware.BodyLimit(cfg.MaxBodyBytes))
	srv.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Health check is PUBLIC so load balancers can reach it.
	srv.GET("/v1/health", api.Health(backend.health))

	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(verifier, logger))
	limit := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware()

	api.NewTemplateHandler(templateSvc, logger).Register(v1, limit)
	api.NewProjectHandler(projectSvc, logger).Register(v1, limit)
	api.NewStreamHandler(projectSvc, cfg.CORSOrigins, logger).Register(v1)

	// ---------------------------------------------------------------
	// 8. Serve until SIGINT/SIGTERM, then drain
	// ---------------------------------------------------------------
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting plotgrid",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreBackend),
			zap.String("auth", cfg.AuthProvider),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	c.ExposeHeaders = []string{middleware.HeaderRequestID, "Content-Disposition"}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
