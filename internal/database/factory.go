package database

import (
	"fmt"
	"os"
	"path/filepath"

	"nn-go/internal/config"
	"nn-go/internal/nn"
)

// NewDatabaseFromConfig opens the notes database described by cfg.
// SQLite databases live at <data_dir>/<host_id>.db.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, hostID string) (nn.Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, hostID+".db"))
	case "memory":
		return NewSQLiteDatabase(memoryPath)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
