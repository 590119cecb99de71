package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TipoAcao is the kind of mutation an audit entry records
type TipoAcao string

const (
	Inclusao    TipoAcao = "Inclusao"
	Atualizacao TipoAcao = "Atualizacao"
	Remocao     TipoAcao = "Remocao"
)

const (
	// DefaultPartitionKey is used when no partition key is supplied
	DefaultPartitionKey = "Funcionario"

	// ETagAny makes an upsert unconditional
	ETagAny = "*"
)

// FuncionarioLog is an audit entry: a copy of the record at a point in time
// plus the metadata of the table store.
type FuncionarioLog struct {
	Funcionario

	TipoAcao TipoAcao `json:"tipoAcao"`
	JSON     string   `json:"json"`

	PartitionKey string     `json:"partitionKey"`
	RowKey       string     `json:"rowKey"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
	ETag         string     `json:"eTag"`
}

// NewFuncionarioLog builds an audit entry for the given record. Blank keys fall
// back to the default partition and a random row key.
func NewFuncionarioLog(f *Funcionario, tipoAcao TipoAcao, partitionKey, rowKey string) (*FuncionarioLog, error) {
	if f == nil {
		return nil, fmt.Errorf("funcionario is required")
	}

	snapshot, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize funcionario: %w", err)
	}

	if strings.TrimSpace(partitionKey) == "" {
		partitionKey = DefaultPartitionKey
	}
	if strings.TrimSpace(rowKey) == "" {
		rowKey = uuid.NewString()
	}

	return &FuncionarioLog{
		Funcionario:  *f,
		TipoAcao:     tipoAcao,
		JSON:         string(snapshot),
		PartitionKey: partitionKey,
		RowKey:       rowKey,
		ETag:         ETagAny,
	}, nil
}

// Keys returns the partition and row key of the entry
func (l *FuncionarioLog) Keys() (string, string) {
	return l.PartitionKey, l.RowKey
}

// ConcurrencyToken returns the entry's ETag
func (l *FuncionarioLog) ConcurrencyToken() string {
	return l.ETag
}

// SetTimestamp records the time assigned by the table store
func (l *FuncionarioLog) SetTimestamp(t time.Time) {
	l.Timestamp = &t
}

// Snapshot decodes the JSON snapshot back into a record
func (l *FuncionarioLog) Snapshot() (*Funcionario, error) {
	var f Funcionario
	if err := json.Unmarshal([]byte(l.JSON), &f); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &f, nil
}
