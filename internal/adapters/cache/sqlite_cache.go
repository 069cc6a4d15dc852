package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite implementation of the CacheRepository interface
type SQLiteCache struct {
	sqlStore
}

// NewSQLiteCache creates a new SQLite cache and applies pending migrations
func NewSQLiteCache(ctx context.Context, dbPath string, logger *zap.Logger) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := migrate(ctx, db, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Opened SQLite cache", zap.String("path", dbPath))

	return &SQLiteCache{
		sqlStore: sqlStore{db: db, logger: logger},
	}, nil
}

// Stop closes the database connection
func (c *SQLiteCache) Stop() {
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
