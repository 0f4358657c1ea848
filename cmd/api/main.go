package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ocs-recruitment-backend/config"
	_ "ocs-recruitment-backend/docs" // Important for Swagger
	v1 "ocs-recruitment-backend/internal/delivery/http/v1"
	"ocs-recruitment-backend/internal/repository/postgres"
	"ocs-recruitment-backend/internal/usecase"
	"ocs-recruitment-backend/pkg/database"
	"ocs-recruitment-backend/pkg/logger"
	"ocs-recruitment-backend/pkg/redis"
	"ocs-recruitment-backend/pkg/security"
	"ocs-recruitment-backend/pkg/token"

	"github.com/go-playground/validator/v10"
)

// @title           OCS Recruitment API
// @version         1.0
// @description     Campus recruitment coordination backend using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting recruitment backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional; rate limiting and login tracking degrade
	// gracefully without it)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory fallbacks", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	identityRepo := postgres.NewIdentityRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 6. Setup Token Provider
	tokens := token.NewProvider(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	// 7. Setup UseCases
	validate := validator.New()
	authUC := usecase.NewAuthUsecase(identityRepo, tokens)
	profileUC := usecase.NewProfileUsecase(profileRepo, validate)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, profileRepo)

	// 8. Setup Login Tracker
	trackerCfg := security.DefaultLoginTrackerConfig()
	trackerCfg.MaxAttempts = cfg.FailedLoginMaxAttempts
	trackerCfg.BlockDuration = time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute
	loginTracker := security.NewLoginTracker(trackerCfg)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		ProfileUC:     profileUC,
		ApplicationUC: applicationUC,
		Tokens:        tokens,
		LoginTracker:  loginTracker,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
