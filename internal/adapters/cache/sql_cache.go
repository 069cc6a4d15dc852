package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mikey/slack-image-bot/internal/core"
	"go.uber.org/zap"
)

const tableName = "image_cache"

// sqlStore implements the record queries shared by the SQL repositories.
// REPLACE overwrites the whole row in both SQLite and MySQL.
type sqlStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// Get retrieves the record for a period key
func (s *sqlStore) Get(ctx context.Context, periodKey string) (*core.CacheRecord, error) {
	query, args, err := sq.Select("posted_ids").
		From(tableName).
		Where(sq.Eq{"period_key": periodKey}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var postedIDs string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&postedIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	ids, err := decodeIDs(postedIDs)
	if err != nil {
		return nil, err
	}

	return &core.CacheRecord{PeriodKey: periodKey, PostedIDs: ids}, nil
}

// Put stores a record, overwriting any existing one
func (s *sqlStore) Put(ctx context.Context, record *core.CacheRecord) error {
	postedIDs, err := encodeIDs(record.PostedIDs)
	if err != nil {
		return err
	}

	query, args, err := sq.Replace(tableName).
		Columns("period_key", "posted_ids", "updated_at").
		Values(record.PeriodKey, postedIDs, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to store cache record: %w", err)
	}

	s.logger.Debug("Stored cache record",
		zap.String("period", record.PeriodKey),
		zap.Int("posted", len(record.PostedIDs)))
	return nil
}
