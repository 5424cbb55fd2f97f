package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"devauth/internal/app"
	"devauth/internal/config"
	"devauth/internal/service"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	a := newCLIApp(cfg, logger)
	a.openAuth = func(ctx context.Context) (*service.AuthService, func(), error) {
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		dir, err := app.OpenDirectory(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		hasher := service.NewBcryptHasher(cfg.BcryptCost)
		return service.NewAuthService(logger, dir.Users, hasher, cfg.RegisterRedirectDelay), dir.Close, nil
	}

	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}
