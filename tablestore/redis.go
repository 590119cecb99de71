package tablestore

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "tablestore"

type redisServiceClient struct {
	client *goredis.Client
	prefix string
}

// RedisOption configures the Redis backend
type RedisOption func(*redisServiceClient)

// WithRedisPrefix namespaces every key written by the client
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *redisServiceClient) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewRedisServiceClient connects to the Redis server in the URL
// (redis://[:password@]host:port/db) and checks it is reachable.
func NewRedisServiceClient(url string, opts ...RedisOption) (ServiceClient, error) {
	options, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	c := &redisServiceClient{
		client: goredis.NewClient(options),
		prefix: defaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.client.Ping(context.Background()).Err(); err != nil {
		c.client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return c, nil
}

func (c *redisServiceClient) Table(name string) (TableClient, error) {
	if err := ValidateTableName(name); err != nil {
		return nil, err
	}
	return &redisTableClient{client: c.client, prefix: c.prefix, name: name}, nil
}

func (c *redisServiceClient) Close() error {
	return c.client.Close()
}

// Layout, with partition and row keys query-escaped so ':' never appears in them:
//
//	<prefix>:tables                            set of table names
//	<prefix>:<table>:idx:<partition>           set of row keys
//	<prefix>:<table>:ent:<partition>:<row>     hash with the entity
type redisTableClient struct {
	client *goredis.Client
	prefix string
	name   string
}

func (t *redisTableClient) Name() string {
	return t.name
}

func (t *redisTableClient) tablesKey() string {
	return t.prefix + ":tables"
}

func (t *redisTableClient) partitionKey(partition string) string {
	return fmt.Sprintf("%s:%s:idx:%s", t.prefix, t.name, url.QueryEscape(partition))
}

func (t *redisTableClient) entityKey(partition, row string) string {
	return fmt.Sprintf("%s:%s:ent:%s:%s", t.prefix, t.name, url.QueryEscape(partition), url.QueryEscape(row))
}

// CreateIfNotExists registers the table name; adding an existing member is a no-op
func (t *redisTableClient) CreateIfNotExists(ctx context.Context) error {
	if err := t.client.SAdd(ctx, t.tablesKey(), t.name).Err(); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.name, err)
	}
	return nil
}

// UpsertEntity replaces the entity hash atomically
func (t *redisTableClient) UpsertEntity(ctx context.Context, entity Entity) error {
	partitionKey, rowKey, props, err := properties(entity)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	key := t.entityKey(partitionKey, rowKey)

	pipe := t.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		"partition_key", partitionKey,
		"row_key", rowKey,
		"timestamp", now.Format(time.RFC3339Nano),
		"etag", entity.ConcurrencyToken(),
		"properties", string(props),
	)
	pipe.SAdd(ctx, t.partitionKey(partitionKey), rowKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert entity %s/%s: %w", partitionKey, rowKey, err)
	}

	entity.SetTimestamp(now)
	return nil
}

// ListEntities returns the entities of a partition ordered by row key
func (t *redisTableClient) ListEntities(ctx context.Context, partitionKey string) ([]StoredEntity, error) {
	rows, err := t.client.SMembers(ctx, t.partitionKey(partitionKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list partition %s: %w", partitionKey, err)
	}
	sort.Strings(rows)

	entities := make([]StoredEntity, 0, len(rows))
	for _, row := range rows {
		fields, err := t.client.HGetAll(ctx, t.entityKey(partitionKey, row)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load entity %s/%s: %w", partitionKey, row, err)
		}
		if len(fields) == 0 {
			continue
		}

		stamp, err := time.Parse(time.RFC3339Nano, fields["timestamp"])
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp of %s/%s: %w", partitionKey, row, err)
		}

		entities = append(entities, StoredEntity{
			PartitionKey: fields["partition_key"],
			RowKey:       fields["row_key"],
			Timestamp:    stamp,
			ETag:         fields["etag"],
			Properties:   []byte(fields["properties"]),
		})
	}

	return entities, nil
}
