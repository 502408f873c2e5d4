package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"hackcall-backend/internal/repository/postgres"
	"hackcall-backend/pkg/config"
	"hackcall-backend/pkg/constants"
	"hackcall-backend/pkg/database"
	"hackcall-backend/pkg/env"
	"hackcall-backend/pkg/logger"
)

func main() {
	confirm := flag.Bool("confirm", false, "actually delete rows (required)")
	dryRun := flag.Bool("dry-run", false, "print the deletion plan and exit")
	flag.Parse()

	if err := env.LoadDotEnv(); err != nil {
		log.Printf("Warning: failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := logger.Init(&logger.Config{Level: cfg.Log.Level, Format: "text", Output: "stdout"}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	fmt.Printf("Deletion order: %s\n", strings.Join(constants.ResetTableOrder, " -> "))
	if *dryRun {
		return
	}
	if !*confirm {
		fmt.Fprintln(os.Stderr, "Refusing to wipe the database without -confirm")
		os.Exit(2)
	}
	if cfg.IsProduction() {
		logger.Fatal("db-reset refuses to run with ENV=production")
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, &database.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	results, err := postgres.NewResetRepository(db.Pool).DeleteAll(ctx, constants.ResetTableOrder)
	if err != nil {
		logger.Fatal("Database reset failed, transaction rolled back", zap.Error(err))
	}

	var total int64
	for _, r := range results {
		total += r.RowsDeleted
	}
	logger.Info("Database reset complete", zap.Int("tables", len(results)), zap.Int64("rows", total))
}
