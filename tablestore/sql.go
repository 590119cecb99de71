package tablestore

import (
	"context"
	"fmt"
	"time"

	"github.com/blogem/funcionario-api/database"
)

type sqlServiceClient struct {
	db *database.DB
}

// NewSQLServiceClient stores tables as SQL tables in db
func NewSQLServiceClient(db *database.DB) ServiceClient {
	return &sqlServiceClient{db: db}
}

func (c *sqlServiceClient) Table(name string) (TableClient, error) {
	if err := ValidateTableName(name); err != nil {
		return nil, err
	}
	return &sqlTableClient{db: c.db, name: name}, nil
}

func (c *sqlServiceClient) Close() error {
	return c.db.Close()
}

type sqlTableClient struct {
	db   *database.DB
	name string
}

func (t *sqlTableClient) Name() string {
	return t.name
}

// CreateIfNotExists creates the backing table. The name is validated on
// construction, so it is safe to splice into the statement.
func (t *sqlTableClient) CreateIfNotExists(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			partition_key TEXT NOT NULL,
			row_key TEXT NOT NULL,
			stamped_at TIMESTAMP NOT NULL,
			etag TEXT NOT NULL,
			properties TEXT NOT NULL,
			PRIMARY KEY (partition_key, row_key)
		)
	`, t.name)

	if _, err := t.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.name, err)
	}
	return nil
}

// UpsertEntity inserts the entity or replaces the one with the same keys
func (t *sqlTableClient) UpsertEntity(ctx context.Context, entity Entity) error {
	partitionKey, rowKey, props, err := properties(entity)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	query := t.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (partition_key, row_key, stamped_at, etag, properties)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (partition_key, row_key)
		DO UPDATE SET stamped_at = excluded.stamped_at, etag = excluded.etag, properties = excluded.properties
	`, t.name))

	_, err = t.db.ExecContext(ctx, query,
		partitionKey,
		rowKey,
		now,
		entity.ConcurrencyToken(),
		string(props),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert entity %s/%s: %w", partitionKey, rowKey, err)
	}

	entity.SetTimestamp(now)
	return nil
}

// ListEntities returns the entities of a partition ordered by row key
func (t *sqlTableClient) ListEntities(ctx context.Context, partitionKey string) ([]StoredEntity, error) {
	query := t.db.Rebind(fmt.Sprintf(`
		SELECT partition_key, row_key, stamped_at, etag, properties
		FROM %s
		WHERE partition_key = ?
		ORDER BY row_key ASC
	`, t.name))

	rows, err := t.db.QueryContext(ctx, query, partitionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", t.name, err)
	}
	defer rows.Close()

	entities := []StoredEntity{}
	for rows.Next() {
		var e StoredEntity
		var props string
		if err := rows.Scan(&e.PartitionKey, &e.RowKey, &e.Timestamp, &e.ETag, &props); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		e.Properties = []byte(props)
		entities = append(entities, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}

	return entities, nil
}
