package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/sunrise-classroom/content-portal/internal/auth"
	"github.com/sunrise-classroom/content-portal/internal/config"
	"github.com/sunrise-classroom/content-portal/internal/handlers"
	"github.com/sunrise-classroom/content-portal/internal/middleware"
	"github.com/sunrise-classroom/content-portal/internal/services"
	"github.com/sunrise-classroom/content-portal/internal/storage"
	"github.com/sunrise-classroom/content-portal/internal/utils"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.App.Env == "development")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := storage.NewS3Store(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Endpoint, cfg.S3.PublicRead, cfg.PresignTTL)
	if err != nil {
		logger.Fatalw("init object store", "err", err)
	}

	svc := services.NewCatalogService(store, cfg.S3.Folder, logger)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL)
	handler := handlers.NewHandler(svc, tokens, cfg.MaxUploadBytes, logger)

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.MaxUploadBytes),
	})

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, logger)
	handler.Register(app, cfg.Auth.Required, limiter.Handler())
	if cfg.Static.Dir != "" {
		handlers.RegisterStatic(app, cfg.Static.Dir)
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infow("server starting", "addr", addr, "env", cfg.App.Env, "bucket", cfg.S3.Bucket)
		if err := app.Listen(addr); err != nil {
			logger.Fatalw("server stopped", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Errorw("shutdown", "err", err)
	}
	logger.Info("server exited")
}
