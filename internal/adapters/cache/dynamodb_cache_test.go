package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mikey/slack-image-bot/internal/core"
	"go.uber.org/zap"
)

// fakeDynamo stores items in memory keyed by the "date" attribute
type fakeDynamo struct {
	mu     sync.Mutex
	items  map[string]map[string]types.AttributeValue
	getErr error
	tables []string
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tables = append(f.tables, aws.ToString(in.TableName))
	if f.getErr != nil {
		return nil, f.getErr
	}
	key := in.Key["date"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tables = append(f.tables, aws.ToString(in.TableName))
	key := in.Item["date"].(*types.AttributeValueMemberS).Value
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoDBCache(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	repo := NewDynamoDBCache(fake, "image-bot-cache", zap.NewNop())
	defer repo.Stop()

	exerciseRepository(t, repo)

	for _, table := range fake.tables {
		if table != "image-bot-cache" {
			t.Fatalf("request used table %q, want image-bot-cache", table)
		}
	}
}

func TestDynamoDBCacheStoresList(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	repo := NewDynamoDBCache(fake, "cache", zap.NewNop())

	record := &core.CacheRecord{PeriodKey: "2023-cw5", PostedIDs: []string{"a.jpg", "b.jpg"}}
	if err := repo.Put(context.Background(), record); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	list, ok := fake.items["2023-cw5"]["cache"].(*types.AttributeValueMemberL)
	if !ok {
		t.Fatalf("cache attribute = %T, want list", fake.items["2023-cw5"]["cache"])
	}
	if len(list.Value) != 2 {
		t.Fatalf("cache list has %d entries, want 2", len(list.Value))
	}
}

func TestDynamoDBCacheGetError(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	fake.getErr = errors.New("throttled")
	repo := NewDynamoDBCache(fake, "cache", zap.NewNop())

	_, err := repo.Get(context.Background(), "2023-cw5")
	if err == nil || !errors.Is(err, fake.getErr) {
		t.Fatalf("Get() error = %v, want wrapped throttled error", err)
	}
}
