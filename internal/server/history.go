package server

import (
	"context"
	"fmt"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/repository"
)

// OpenHistoryRepository opens the history backend selected by HISTORY_BACKEND.
func OpenHistoryRepository(ctx context.Context, config commons.Config) (repository.HistoryRepository, error) {
	switch config.HistoryBackend {
	case commons.HistoryBackendFile, "":
		return repository.NewFileHistoryRepository(config.HistoryFile), nil
	case commons.HistoryBackendRedis:
		history, err := repository.NewRedisHistoryRepository(config.RedisAddr, config.RedisPass, repository.DefaultHistoryKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis history: %w", err)
		}
		return history, nil
	case commons.HistoryBackendPostgres:
		history, err := repository.NewPostgresHistoryRepository(config.PostgresConn, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres history: %w", err)
		}
		if err := history.Migrate(ctx); err != nil {
			history.Close()
			return nil, err
		}
		return history, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", config.HistoryBackend)
	}
}
