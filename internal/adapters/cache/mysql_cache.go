package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of the CacheRepository interface
type MySQLCache struct {
	sqlStore
}

// NewMySQLCache creates a new MySQL cache and applies pending migrations
func NewMySQLCache(ctx context.Context, dsn string, logger *zap.Logger) (*MySQLCache, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL connector: %w", err)
	}
	db := sql.OpenDB(connector)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	if err := migrate(ctx, db, "mysql"); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Opened MySQL cache", zap.String("address", cfg.Addr), zap.String("database", cfg.DBName))

	return &MySQLCache{
		sqlStore: sqlStore{db: db, logger: logger},
	}, nil
}

// Stop closes the database connection
func (c *MySQLCache) Stop() {
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
