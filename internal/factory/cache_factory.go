package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/mikey/slack-image-bot/internal/adapters/cache"
	"github.com/mikey/slack-image-bot/internal/config"
	"github.com/mikey/slack-image-bot/internal/ports"
	"go.uber.org/zap"
)

// CacheFactory creates cache repositories based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository creates a cache repository based on the configuration
func (f *CacheFactory) CreateCacheRepository(ctx context.Context) (ports.CacheStore, error) {
	cacheCfg := f.cfg.GetCache()

	switch cacheCfg.Type {
	case "dynamodb":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cacheCfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		f.logger.Info("Using DynamoDB cache",
			zap.String("table", cacheCfg.Table),
			zap.String("region", cacheCfg.Region))
		return cache.NewDynamoDBCache(dynamodb.NewFromConfig(awsCfg), cacheCfg.Table, f.logger), nil
	case "memory":
		f.logger.Warn("Using in-memory cache, posted images are forgotten on exit")
		return cache.NewMemoryCache(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return cache.NewSQLiteCache(ctx, cacheCfg.SQLitePath, f.logger)
	case "mysql":
		return cache.NewMySQLCache(ctx, cacheCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}
