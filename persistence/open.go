package persistence

import (
	"fmt"

	"go.uber.org/zap"

	"numcom/server/config"
)

// Open builds the match archive selected by cfg
func Open(cfg config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Type {
	case config.StoragePostgres:
		logger.Info("using PostgreSQL match archive")
		return NewPostgresStore(cfg.URL, logger)
	case config.StorageJSON:
		logger.Info("using JSON match archive", zap.String("file", cfg.File))
		return NewJSONStore(cfg.File)
	case config.StorageMemory, "":
		logger.Info("using in-memory match archive")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
