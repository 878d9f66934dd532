package main

import (
	"log"
	"os"

	"timeclock/internal/app"
	"timeclock/internal/bootstrap"
	"timeclock/internal/shared/connection"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	gormDB, err := connection.ConnectGORMWithRetry(
		env("DB_HOST", "localhost"),
		env("DB_USER", "timeclock"),
		env("DB_PASSWORD", ""),
		env("DB_NAME", "timeclock"),
		env("DB_PORT", "5432"),
		env("DB_SSLMODE", "disable"),
		5,
	)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("sql handle unavailable", zap.Error(err))
	}

	rdb, err := connection.ConnectRedisWithRetry(env("REDIS_ADDR", "localhost:6379"), 5)
	if err != nil {
		logger.Warn("redis unavailable, idempotency and stats cache disabled", zap.Error(err))
		rdb = nil
	}

	notifier := app.NewOutboxNotifier(sqlDB)
	registry := app.NewRegistry(gormDB, sqlDB, rdb, notifier, logger)
	router := app.NewRouter(registry, rdb)

	addr := ":" + env("PORT", "8080")
	if err := bootstrap.RunServer(addr, router, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
