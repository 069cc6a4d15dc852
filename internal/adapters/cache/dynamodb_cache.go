package cache

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mikey/slack-image-bot/internal/core"
	"go.uber.org/zap"
)

// DynamoAPI is the subset of the DynamoDB client used by the cache
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

// dynamoItem is the stored form of a record, keyed by date
type dynamoItem struct {
	Date  string   `dynamodbav:"date"`
	Cache []string `dynamodbav:"cache"`
}

// DynamoDBCache is a DynamoDB implementation of the CacheRepository interface
type DynamoDBCache struct {
	client DynamoAPI
	table  string
	logger *zap.Logger
}

// NewDynamoDBCache creates a new DynamoDB cache for an existing table
func NewDynamoDBCache(client DynamoAPI, table string, logger *zap.Logger) *DynamoDBCache {
	return &DynamoDBCache{
		client: client,
		table:  table,
		logger: logger,
	}
}

// Get retrieves the record for a period key
func (c *DynamoDBCache) Get(ctx context.Context, periodKey string) (*core.CacheRecord, error) {
	out, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key: map[string]types.AttributeValue{
			"date": &types.AttributeValueMemberS{Value: periodKey},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from %s: %w", c.table, err)
	}
	if len(out.Item) == 0 {
		return nil, core.ErrCacheMiss
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to decode item %s: %w", periodKey, err)
	}
	if item.Cache == nil {
		item.Cache = []string{}
	}

	return &core.CacheRecord{PeriodKey: periodKey, PostedIDs: item.Cache}, nil
}

// Put stores a record, overwriting any existing one
func (c *DynamoDBCache) Put(ctx context.Context, record *core.CacheRecord) error {
	ids := record.PostedIDs
	if ids == nil {
		ids = []string{}
	}

	item, err := attributevalue.MarshalMap(dynamoItem{Date: record.PeriodKey, Cache: ids})
	if err != nil {
		return fmt.Errorf("failed to encode item %s: %w", record.PeriodKey, err)
	}

	if _, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put item into %s: %w", c.table, err)
	}

	c.logger.Debug("Stored cache record",
		zap.String("table", c.table),
		zap.String("period", record.PeriodKey),
		zap.Int("posted", len(ids)))
	return nil
}

// Stop is a no-op, the AWS client holds no connections that need closing
func (c *DynamoDBCache) Stop() {}
