package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"devauth/internal/app"
	"devauth/internal/config"
	apihttp "devauth/internal/http"
	"devauth/internal/service"
	"devauth/internal/session"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	dir, err := app.OpenDirectory(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("user directory", zap.Error(err))
	}
	defer dir.Close()

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	authSvc := service.NewAuthService(logger, dir.Users, hasher, cfg.RegisterRedirectDelay)

	cookies := session.CookieOptions{
		Name:   cfg.SessionCookieName,
		Path:   "/",
		Secure: cfg.SessionCookieSecure,
	}
	authHandler := apihttp.NewAuthHandler(logger, authSvc, cookies)
	router := apihttp.NewRouter(logger, authHandler, cookies)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("user_store", cfg.UserStore))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
