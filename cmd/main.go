package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/square-net/server/config"
	"github.com/square-net/server/db"
	authhandler "github.com/square-net/server/internal/auth/handler"
	"github.com/square-net/server/internal/auth/password"
	authrepo "github.com/square-net/server/internal/auth/repository/postgres"
	authservice "github.com/square-net/server/internal/auth/service"
	"github.com/square-net/server/internal/logging"
	"github.com/square-net/server/internal/mailer"
	posthandler "github.com/square-net/server/internal/post/handler"
	postrepo "github.com/square-net/server/internal/post/repository/postgres"
	postservice "github.com/square-net/server/internal/post/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Error(ctx, "database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, cfg.DBURL); err != nil {
		log.Error(ctx, "migration failed", "error", err)
		os.Exit(1)
	}

	smtpMailer, err := mailer.NewSMTPMailer(cfg)
	if err != nil {
		log.Error(ctx, "mailer init failed", "error", err)
		os.Exit(1)
	}

	userRepo := authrepo.NewUserRepository(pool)
	sessionRepo := authrepo.NewSessionRepository(pool)
	postRepo := postrepo.NewPostRepository(pool)

	tokenService := authservice.NewTokenService(
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.ActionTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin, cfg.ActionExpiryMin,
	)
	hasher := password.NewHasher(password.DefaultParams())

	userService := authservice.NewUserService(userRepo, sessionRepo, tokenService, hasher, smtpMailer, cfg, log)
	postService := postservice.NewPostService(postRepo, userRepo, log)

	authHandler := authhandler.NewAuthHandler(userService, tokenService)
	postHandler := posthandler.NewPostHandler(postService)

	app := fiber.New()
	authhandler.RegisterRoutes(app, authHandler)
	posthandler.RegisterRoutes(app, postHandler, authHandler.RequireAuth)

	log.Info(ctx, "server starting", "port", cfg.Port, "env", cfg.Env)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
