package main

import (
	"context"
	"flag"
	"fmt"

	"jackut/backend/internal/graph"
	"jackut/backend/internal/social"
	"jackut/backend/internal/storage"
	"jackut/backend/pkg/config"
	"jackut/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

func main() {
	fixturePath := flag.String("fixture", "scripts/fixtures/demo.yaml", "YAML fixture describing the network to create")
	reset := flag.Bool("reset", false, "Erase all stored data before seeding")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	fixture, err := LoadFixture(*fixturePath)
	if err != nil {
		log.Fatal("Failed to load fixture", zap.Error(err))
	}

	ctx := context.Background()

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	sys, err := social.Open(ctx, store, log.Named("social"))
	if err != nil {
		log.Fatal("Failed to load state", zap.Error(err))
	}

	if *reset {
		log.Info("Erasing existing data...")
		if err := sys.ResetAll(ctx); err != nil {
			log.Fatal("Failed to erase data", zap.Error(err))
		}
	}

	log.Info("Applying fixture", zap.String("fixture", *fixturePath), zap.Int("accounts", len(fixture.Accounts)))
	if err := fixture.Apply(sys); err != nil {
		log.Fatal("Failed to apply fixture", zap.Error(err))
	}

	if err := sys.Save(ctx); err != nil {
		log.Fatal("Failed to save seeded state", zap.Error(err))
	}

	if cfg.MirrorEnabled() {
		if err := seedMirror(ctx, cfg, sys, log); err != nil {
			log.Warn("Failed to seed Neo4j mirror", zap.Error(err))
		}
	}

	log.Info("Database seeding completed successfully!",
		zap.Int("accounts", len(sys.Accounts())),
		zap.String("driver", cfg.StorageDriver),
	)
}

func seedMirror(ctx context.Context, cfg *config.Config, sys *social.System, log *zap.Logger) error {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	repo := graph.NewRepository(driver)

	log.Info("Creating constraints and indexes...")
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	if err := repo.Sync(ctx, sys.Export()); err != nil {
		return err
	}
	total, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	log.Info("Mirror synced", zap.Int64("users", total))
	return nil
}
