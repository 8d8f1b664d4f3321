// Package server собирает HTTP-сервер LeafWise: хранилища, доменные
// сервисы, маршруты и фоновую очистку истекших данных.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"leafwise/internal/app/server/api"
	"leafwise/internal/app/server/config"
	"leafwise/internal/domain/story"
	"leafwise/internal/domain/sync"
	"leafwise/internal/infrastructure/ai"
	"leafwise/internal/infrastructure/storage/objectstore"
	"leafwise/internal/infrastructure/storage/postgres"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Hour
)

// Run блокируется до отмены ctx или фатальной ошибки сервера
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	storage, err := postgres.New(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer storage.Close()

	objects, err := objectstore.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init object store: %w", err)
	}

	model, err := ai.New(ctx, cfg.AI.APIKey, cfg.AI.Model, log)
	if err != nil {
		return fmt.Errorf("init AI client: %w", err)
	}

	srv := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: api.New(storage, objects, model, log),
	}

	go runJanitor(ctx, storage, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("address", cfg.Server.RunAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// runJanitor периодически подчищает истекшие истории, сессии и
// разрешенные конфликты синхронизации
func runJanitor(ctx context.Context, storage *postgres.Storage, log *slog.Logger) {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	storyService := story.NewService(postgres.NewStoryRepository(storage, log), log)
	syncService := sync.NewService(postgres.NewSyncRepository(storage, log), log, nil)
	seasonalRepo := postgres.NewSeasonalRepository(storage, log)

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, err := storyService.PurgeExpired(ctx); err != nil {
			log.Warn("purge expired stories", slog.Any("error", err))
		}
		if _, err := sessionRepo.DeleteExpired(ctx); err != nil {
			log.Warn("purge expired sessions", slog.Any("error", err))
		}
		if _, err := syncService.PurgeResolvedConflicts(ctx); err != nil {
			log.Warn("purge resolved conflicts", slog.Any("error", err))
		}
		if _, err := seasonalRepo.DeleteExpired(ctx, time.Now().UTC()); err != nil {
			log.Warn("purge expired forecasts", slog.Any("error", err))
		}
	}
}
