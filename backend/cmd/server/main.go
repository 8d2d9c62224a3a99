package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jackut/backend/internal/api"
	"jackut/backend/internal/graph"
	"jackut/backend/internal/social"
	"jackut/backend/internal/storage"
	"jackut/backend/pkg/config"
	"jackut/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Jackut HTTP server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize", zap.Error(err))
	}
	defer a.close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := a.serve(ctx, ":"+cfg.Port); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server exited")
}

// app bundles everything the server owns
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	store  storage.RecordStore
	mirror *graph.Repository
	server *api.Server
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	system, err := social.Open(ctx, store, log.Named("social"))
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: store}

	var mirror api.Mirror
	if cfg.MirrorEnabled() {
		repo, err := openMirror(ctx, cfg)
		if err != nil {
			// the mirror is optional; the server runs without it
			log.Warn("Neo4j mirror disabled", zap.Error(err))
		} else {
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Warn("Failed to create mirror schema", zap.Error(err))
			}
			a.mirror = repo
			mirror = repo
		}
	}

	a.server = api.NewServer(system, mirror, log.Named("api"))
	return a, nil
}

func openMirror(ctx context.Context, cfg *config.Config) (*graph.Repository, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}
	return graph.NewRepository(driver), nil
}

// serve runs the HTTP server until ctx is canceled, then persists the state
func (a *app) serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: a.server.Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("Server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})
	serveErr := g.Wait()

	if a.cfg.SaveOnShutdown {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.persist(saveCtx); err != nil {
			return errors.Join(serveErr, err)
		}
	}
	return serveErr
}

// persist saves the state and refreshes the mirror when one is configured
func (a *app) persist(ctx context.Context) error {
	return a.server.Do(func(sys *social.System) error {
		if err := sys.Shutdown(ctx); err != nil {
			return err
		}
		if a.mirror != nil {
			if err := a.mirror.Sync(ctx, sys.Export()); err != nil {
				a.log.Warn("Failed to sync graph mirror", zap.Error(err))
			}
		}
		return nil
	})
}

func (a *app) close() {
	if a.mirror != nil {
		_ = a.mirror.Close(context.Background())
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("Failed to close storage", zap.Error(err))
	}
}
