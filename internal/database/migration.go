package database

import (
	"fmt"
	"path/filepath"

	"github.com/cjsachs/Management-Inventory-System/internal/database/migration"

	"go.uber.org/zap"
)

func RunMigrations(dbURL string, migrationsDir string, logger *zap.Logger) error {
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations directory: %w", err)
	}

	return migration.Migrate(dbURL, "file://"+absPath, logger)
}
