package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"medistore/internal/config"
	"medistore/internal/db"
	"medistore/internal/domain"
	"medistore/internal/logging"
	userrepo "medistore/internal/repository/user"
	"medistore/internal/seed"
)

func main() {
	adminEmail := flag.String("admin-email", "", "grant the admin role to this existing user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.AppEnv, "seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{}, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	if *adminEmail != "" {
		users := userrepo.NewPostgres(pool, logger)
		u, err := users.GetByEmail(ctx, *adminEmail)
		if err != nil {
			logger.Fatal("look up admin user", zap.String("email", *adminEmail), zap.Error(err))
		}
		if err := users.SetRole(ctx, u.ID, domain.RoleAdmin); err != nil {
			logger.Fatal("grant admin role", zap.Error(err))
		}
		logger.Info("admin role granted", zap.String("user_id", u.ID))
	}

	logger.Info("seed applied")
}
