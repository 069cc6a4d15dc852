package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/mikey/slack-image-bot/internal/core"
	"go.uber.org/zap"
)

// MemoryCache is an in-memory implementation of the CacheRepository interface.
// Records are lost when the process exits.
type MemoryCache struct {
	records map[string][]string
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		records: make(map[string][]string),
		logger:  logger,
	}
}

// Get retrieves the record for a period key
func (c *MemoryCache) Get(ctx context.Context, periodKey string) (*core.CacheRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids, ok := c.records[periodKey]
	if !ok {
		return nil, core.ErrCacheMiss
	}

	return &core.CacheRecord{
		PeriodKey: periodKey,
		PostedIDs: slices.Clone(ids),
	}, nil
}

// Put stores a record, overwriting any existing one
func (c *MemoryCache) Put(ctx context.Context, record *core.CacheRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := slices.Clone(record.PostedIDs)
	if ids == nil {
		ids = []string{}
	}
	c.records[record.PeriodKey] = ids

	c.logger.Debug("Stored cache record",
		zap.String("period", record.PeriodKey),
		zap.Int("posted", len(ids)))
	return nil
}

// Stop releases the stored records
func (c *MemoryCache) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.records)
}
