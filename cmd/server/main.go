package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jose-Ibz/VIM/internal/api"
	"github.com/Jose-Ibz/VIM/internal/cache"
	"github.com/Jose-Ibz/VIM/internal/config"
	"github.com/Jose-Ibz/VIM/internal/engine"
	"github.com/Jose-Ibz/VIM/internal/service"
	"github.com/Jose-Ibz/VIM/internal/snapshot"
	"github.com/Jose-Ibz/VIM/internal/storage"
	"github.com/Jose-Ibz/VIM/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	runService, err := buildRunService(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	router := api.NewRouter(runService, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func buildRunService(cfg *config.Config) (*service.RunService, error) {
	policy, err := engine.PolicyFromConfig(cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("invalid policy configuration: %w", err)
	}

	reorder, err := buildReorderPolicy(cfg.App, policy)
	if err != nil {
		return nil, err
	}

	var mirror storage.ObjectStorage
	if cfg.Snapshot.MirrorEnabled {
		mirror, err = storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.Snapshot.Endpoint,
			AccessKey: cfg.Snapshot.AccessKey,
			SecretKey: cfg.Snapshot.SecretKey,
			Bucket:    cfg.Snapshot.Bucket,
			UseSSL:    cfg.Snapshot.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize snapshot mirror: %w", err)
		}
	}

	runStore, err := cache.NewRunStore(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run store: %w", err)
	}

	snapshots := snapshot.NewStore(cfg.Snapshot.Dir, mirror)
	return service.NewRunService(engine.New(policy, reorder), runStore, snapshots), nil
}

func buildReorderPolicy(app config.AppConfig, policy engine.Policy) (engine.ReorderPolicy, error) {
	switch app.ReorderPolicy {
	case "", "coverage":
		return engine.NewCoveragePolicy(policy), nil
	case "reorder_point":
		if app.RulesFile == "" {
			return nil, fmt.Errorf("reorder_point policy requires APP_RULES_FILE")
		}
		return engine.LoadReorderPointPolicy(app.RulesFile)
	default:
		return nil, fmt.Errorf("unknown reorder policy %q", app.ReorderPolicy)
	}
}
