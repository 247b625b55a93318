package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/api"
	"github.com/elijahbrown/collabhub/internal/config"
	"github.com/elijahbrown/collabhub/internal/db"
	"github.com/elijahbrown/collabhub/internal/gate"
	"github.com/elijahbrown/collabhub/internal/mail"
	"github.com/elijahbrown/collabhub/internal/middleware"
	"github.com/elijahbrown/collabhub/internal/observ"
	"github.com/elijahbrown/collabhub/internal/repository"
	"github.com/elijahbrown/collabhub/internal/repository/memory"
	"github.com/elijahbrown/collabhub/internal/repository/postgres"
	"github.com/elijahbrown/collabhub/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Storage backend: Postgres when configured, otherwise the in-memory
	// store. The memory store loses everything on restart — development
	// convenience only.
	var repo repository.CollaboratorRepository
	if cfg.DatabaseURL != "" {
		database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer database.Close()
		repo = postgres.NewCollaboratorStore(database.Pool())
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store (state is lost on restart)")
		repo = memory.NewCollaboratorStore()
	}

	// Redis is optional: without it the gate snapshot is cached
	// per-process only, which is fine for a single instance.
	var cache *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		cache = redis.NewClient(opts)
		if err := cache.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable at startup, gate snapshot will fall back to the repository", zap.Error(err))
		}
	}

	var mailer mail.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = mail.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		logger.Warn("RESEND_API_KEY not set, email delivery disabled")
		mailer = mail.NewNopMailer(logger)
	}

	svc := service.NewCollaboratorService(repo, mailer, cfg.BaseURL, logger)
	snapshots := gate.NewProvider(svc, cache, cfg.GateSnapshotTTL, logger)
	accessGate := gate.New(snapshots, cfg.CookieDomain, logger)

	authHandler := api.NewAuthHandler(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret, logger)
	collaboratorHandler := api.NewCollaboratorHandler(svc, logger)
	meetingHandler := api.NewMeetingHandler(svc, logger)
	emailHandler := api.NewEmailHandler(svc, logger)
	hubHandler := api.NewHubHandler(svc, accessGate, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// The gate runs on every request, before routing decides anything.
	// It only acts on paths/hosts that match an active collaborator, so
	// /api and /healthz pass straight through (slugs that would collide
	// with them are rejected at creation).
	srv.Use(accessGate.Middleware())

	// Public — load balancers health-check this.
	srv.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := srv.Group("/api")
	apiGroup.POST("/auth/login", authHandler.Login)

	collaborators := apiGroup.Group("/collaborators")
	collaborators.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	collaborators.GET("", collaboratorHandler.List)
	collaborators.POST("", collaboratorHandler.Create)
	collaborators.GET("/:id", collaboratorHandler.GetByID)
	collaborators.PUT("/:id", collaboratorHandler.Update)
	collaborators.DELETE("/:id", collaboratorHandler.Delete)
	collaborators.POST("/:id/meetings", meetingHandler.Add)
	collaborators.DELETE("/:id/meetings", meetingHandler.Remove)
	collaborators.GET("/:id/email", emailHandler.Generate)

	// Collaborator-facing hub pages, gated by the middleware above.
	// Subdomain-addressed hubs land at the host root; their slug is
	// resolved from the Host header ("login" is a reserved slug, so the
	// static routes never shadow a collaborator).
	srv.GET("/", hubHandler.ShowByHost)
	srv.GET("/login", hubHandler.ShowLoginByHost)
	srv.POST("/login", hubHandler.LoginByHost)
	srv.GET("/:slug", hubHandler.Show)
	srv.GET("/:slug/login", hubHandler.ShowLogin)
	srv.POST("/:slug/login", hubHandler.Login)

	logger.Info("starting collabhub",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return srv.Run(":" + cfg.Port)
}
