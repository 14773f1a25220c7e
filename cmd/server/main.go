package main

import (
	"context"
	"enddit/backend/internal/apperr"
	"enddit/backend/internal/auth"
	"enddit/backend/internal/config"
	"enddit/backend/internal/database"
	"enddit/backend/internal/handler"
	"enddit/backend/internal/hub"
	"enddit/backend/internal/identity"
	"enddit/backend/internal/logging"
	"enddit/backend/internal/metrics"
	"enddit/backend/internal/repository"
	"enddit/backend/internal/storage"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	// Swagger imports
	_ "enddit/backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Enddit API
// @version         1.0
// @description     Backend-for-frontend API of the Enddit social app.
// @host            localhost:4000
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewSugar(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("Starting Enddit API server",
		"env", cfg.Env,
		"addr", cfg.HTTPAddr,
		"verify_mode", cfg.Supabase.VerifyMode,
		"storage", cfg.Storage.Backend,
	)

	metricsObj, metricsHandler, err := metrics.Setup("enddit-api")
	if err != nil {
		logger.Fatalw("Failed to setup metrics", "error", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to database", "error", err)
	}
	if cfg.RunMigrations {
		if err := database.Migrate(db, logger); err != nil {
			logger.Fatalw("Failed to migrate database", "error", err)
		}
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		logger.Fatalw("Failed to setup storage", "error", err)
	}

	gotrue := identity.NewGoTrueClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.UpstreamTimeout)
	var verifier identity.Verifier = gotrue
	if cfg.Supabase.VerifyMode == config.VerifyJWT {
		verifier = identity.NewJWTVerifier(cfg.Supabase.JWTSecret)
	}

	users := repository.NewUserStore(db)
	h := handler.New(handler.Deps{
		Users:          users,
		Posts:          repository.NewPostStore(db),
		Friends:        repository.NewFriendStore(db),
		Messages:       repository.NewMessageStore(db),
		Auth:           gotrue,
		Storage:        uploader,
		Hub:            hub.NewHub(),
		Metrics:        metricsObj,
		Ready:          func(ctx context.Context) error { return database.Ping(ctx, db) },
		Logger:         logger,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})

	router := newRouter(cfg, logger, metricsObj)
	router.GET("/metrics", gin.WrapH(metricsHandler))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	h.Register(router, auth.RequireUser(verifier, users, logger))

	// WriteTimeout stays unset: chat streams are long-lived responses.
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infow("API server starting", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatalw("Server startup failed", "error", err)
	case sig := <-shutdown:
		logger.Infow("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
			server.Close()
		}

		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		logger.Infow("Server stopped")
	}
}

func newRouter(cfg *config.Config, logger *zap.SugaredLogger, m *metrics.Metrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		logging.RequestLogger(logger),
		m.Middleware(),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			logger.Errorw("Panic recovered", "path", c.Request.URL.Path, "panic", recovered)
			c.AbortWithStatusJSON(http.StatusInternalServerError, handler.ErrorResponse{Message: apperr.InternalMessage})
		}),
		cors.New(corsConfig(cfg)),
	)
	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.ExposeHeaders = []string{"X-Total-Count", "X-Total-Pages", logging.RequestIDHeader}
	if cfg.AllowsAllOrigins() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return corsCfg
}

func newUploader(cfg *config.Config) (storage.Uploader, error) {
	switch cfg.Storage.Backend {
	case config.StorageS3:
		sess, err := storage.NewS3Session(cfg.Storage.S3Region)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(sess, cfg.Storage.Bucket, cfg.Storage.S3PublicBaseURL), nil
	default:
		return storage.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey, cfg.Storage.Bucket, cfg.UpstreamTimeout), nil
	}
}
