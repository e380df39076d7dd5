package main

import (
	"context"
	"fmt"

	"github.com/xaenox/copilot-bot/internal/storage"
	"github.com/xaenox/copilot-bot/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger writes to stderr so stdout carries only replies.
func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}

// openStorage prefers Redis when an address is configured, then the
// in-memory store, then PostgreSQL.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if rc := cfg.Redis; rc.Addr != "" {
		logger.Info("Using Redis storage", zap.String("addr", rc.Addr))
		store, err := storage.NewRedisStorage(ctx, storage.RedisConfig{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
			Prefix:   rc.Prefix,
		}, logger.Named("storage"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return store, nil
	}

	db := cfg.Database
	if db.UseInMemory {
		logger.Info("Using in-memory storage")
		return storage.NewMemoryStorage(), nil
	}

	logger.Info("Using PostgreSQL storage", zap.String("host", db.Host), zap.String("dbname", db.DBName))
	store, err := storage.NewPostgresStorage(ctx, storage.DatabaseConfig{
		Host:     db.Host,
		Port:     db.Port,
		User:     db.User,
		Password: db.Password,
		DBName:   db.DBName,
		SSLMode:  db.SSLMode,
	}, logger.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}
