// Package tablestore is a small client for table-style key-value stores:
// named tables holding entities addressed by a partition key and a row key.
package tablestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blogem/funcionario-api/database"
)

// ErrInvalidTableName is returned for names outside [A-Za-z][A-Za-z0-9]{2,62}
var ErrInvalidTableName = errors.New("invalid table name")

var tableNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]{2,62}$`)

// Entity is what a table client needs from a value it stores
type Entity interface {
	Keys() (partitionKey, rowKey string)
	ConcurrencyToken() string
	SetTimestamp(t time.Time)
}

// StoredEntity is an entity as read back from a table
type StoredEntity struct {
	PartitionKey string
	RowKey       string
	Timestamp    time.Time
	ETag         string
	Properties   json.RawMessage
}

// Decode unmarshals the stored properties into v
func (e StoredEntity) Decode(v any) error {
	return json.Unmarshal(e.Properties, v)
}

// ServiceClient hands out clients for individual tables
type ServiceClient interface {
	Table(name string) (TableClient, error)
	Close() error
}

// TableClient operates on a single table
type TableClient interface {
	Name() string
	CreateIfNotExists(ctx context.Context) error
	UpsertEntity(ctx context.Context, entity Entity) error
	ListEntities(ctx context.Context, partitionKey string) ([]StoredEntity, error)
}

// New returns a service client for the store behind the connection string.
// redis:// and rediss:// select the Redis backend; anything the database
// package understands selects the SQL backend.
func New(conn string) (ServiceClient, error) {
	conn = strings.TrimSpace(conn)
	if strings.HasPrefix(conn, "redis://") || strings.HasPrefix(conn, "rediss://") {
		return NewRedisServiceClient(conn)
	}

	db, err := database.OpenDB(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to open table store: %w", err)
	}
	return NewSQLServiceClient(db), nil
}

// ValidateTableName checks a table name against the naming rules
func ValidateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}
	return nil
}

// properties serializes an entity and checks its keys
func properties(entity Entity) (string, string, []byte, error) {
	if entity == nil {
		return "", "", nil, fmt.Errorf("entity is required")
	}

	partitionKey, rowKey := entity.Keys()
	if partitionKey == "" || rowKey == "" {
		return "", "", nil, fmt.Errorf("partition key and row key are required")
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to serialize entity: %w", err)
	}
	return partitionKey, rowKey, raw, nil
}
