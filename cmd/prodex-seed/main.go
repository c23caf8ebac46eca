// Command prodex-seed loads a JSON product catalog into the store.
//
// Usage:
//
//	prodex-seed -file catalog.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/prodexhq/prodex/internal/config"
	dbRedis "github.com/prodexhq/prodex/internal/db/redis"
	"github.com/prodexhq/prodex/internal/domain"
	logpkg "github.com/prodexhq/prodex/internal/logger"
	catalogrepo "github.com/prodexhq/prodex/internal/repository/catalog"
)

func main() {
	file := flag.String("file", "catalog.json", "path to the JSON catalog file")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Fatal("Failed to read catalog file", zap.String("file", *file), zap.Error(err))
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Fatal("Failed to parse catalog file", zap.String("file", *file), zap.Error(err))
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	if err := catalogrepo.New(store).Replace(ctx, items); err != nil {
		logger.Fatal("Failed to store catalog", zap.Error(err))
	}

	logger.Info("Catalog seeded",
		zap.String("file", *file),
		zap.Int("items", len(items)),
	)
}
