package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/you/aarogyam/internal/app"
	"github.com/you/aarogyam/internal/config"
	"github.com/you/aarogyam/internal/infrastructure/auth"
	"github.com/you/aarogyam/internal/infrastructure/logging"
)

// Migrates the schema and seeds the default casbin policies, then exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, "migrate")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := app.OpenDatabase(cfg.DSN, logger)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("schema migrated")

	cas, err := auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		logger.Fatal("casbin", zap.Error(err))
	}
	seeded, err := cas.SeedDefaults()
	if err != nil {
		logger.Fatal("casbin seed", zap.Error(err))
	}

	policies, err := cas.E.GetPolicy()
	if err != nil {
		logger.Fatal("casbin policies", zap.Error(err))
	}
	logger.Info("casbin policies ready", zap.Int("seeded", seeded), zap.Int("total", len(policies)))

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
