package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/blogem/funcionario-api/models"
	"github.com/blogem/funcionario-api/tablestore"
)

// AuditRepository writes employee audit entries to the table store
type AuditRepository interface {
	Upsert(ctx context.Context, entry *models.FuncionarioLog) error
	ListByPartition(ctx context.Context, partitionKey string) ([]models.FuncionarioLog, error)
}

// tableAuditRepository keeps one table client for the life of the process.
// The table is ensured on first acquisition; a failed ensure is retried on
// the next call.
type tableAuditRepository struct {
	service   tablestore.ServiceClient
	tableName string

	mu    sync.Mutex
	table tablestore.TableClient
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(service tablestore.ServiceClient, tableName string) AuditRepository {
	return &tableAuditRepository{service: service, tableName: tableName}
}

// tableClient returns the table client, creating the table if needed
func (r *tableAuditRepository) tableClient(ctx context.Context) (tablestore.TableClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.table != nil {
		return r.table, nil
	}

	table, err := r.service.Table(r.tableName)
	if err != nil {
		return nil, err
	}

	if err := table.CreateIfNotExists(ctx); err != nil {
		return nil, err
	}

	r.table = table
	return table, nil
}

// Upsert writes the entry, replacing any entry with the same keys
func (r *tableAuditRepository) Upsert(ctx context.Context, entry *models.FuncionarioLog) error {
	table, err := r.tableClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get audit table: %w", err)
	}

	return table.UpsertEntity(ctx, entry)
}

// ListByPartition retrieves the entries of one partition
func (r *tableAuditRepository) ListByPartition(ctx context.Context, partitionKey string) ([]models.FuncionarioLog, error) {
	table, err := r.tableClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit table: %w", err)
	}

	stored, err := table.ListEntities(ctx, partitionKey)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FuncionarioLog, 0, len(stored))
	for _, s := range stored {
		var entry models.FuncionarioLog
		if err := s.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode audit entry %s/%s: %w", s.PartitionKey, s.RowKey, err)
		}
		stamp := s.Timestamp
		entry.Timestamp = &stamp
		entries = append(entries, entry)
	}

	return entries, nil
}
