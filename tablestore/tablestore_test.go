package tablestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type testEntity struct {
	Partition string     `json:"partitionKey"`
	Row       string     `json:"rowKey"`
	Value     string     `json:"value"`
	Stamp     *time.Time `json:"timestamp,omitempty"`
}

func (e *testEntity) Keys() (string, string) { return e.Partition, e.Row }
func (e *testEntity) ConcurrencyToken() string { return "*" }
func (e *testEntity) SetTimestamp(t time.Time) { e.Stamp = &t }

// tableClientSuite runs the same contract checks against every backend
type tableClientSuite struct {
	suite.Suite
	newService func(t *testing.T) ServiceClient
	table      TableClient
}

func (s *tableClientSuite) SetupTest() {
	svc := s.newService(s.T())
	table, err := svc.Table("AuditLog")
	s.Require().NoError(err)
	s.table = table
	s.Require().NoError(s.table.CreateIfNotExists(context.Background()))
}

func (s *tableClientSuite) TestCreateIfNotExistsIsIdempotent() {
	ctx := context.Background()
	s.NoError(s.table.CreateIfNotExists(ctx))
	s.NoError(s.table.CreateIfNotExists(ctx))
}

func (s *tableClientSuite) TestUpsertInsertsAndStampsTimestamp() {
	ctx := context.Background()
	before := time.Now().UTC().Add(-time.Second)

	e := &testEntity{Partition: "TI", Row: "1", Value: "first"}
	s.Require().NoError(s.table.UpsertEntity(ctx, e))
	s.Require().NotNil(e.Stamp)
	s.True(e.Stamp.After(before))

	entities, err := s.table.ListEntities(ctx, "TI")
	s.Require().NoError(err)
	s.Require().Len(entities, 1)
	s.Equal("TI", entities[0].PartitionKey)
	s.Equal("1", entities[0].RowKey)
	s.Equal("*", entities[0].ETag)

	var decoded testEntity
	s.Require().NoError(entities[0].Decode(&decoded))
	s.Equal("first", decoded.Value)
}

func (s *tableClientSuite) TestUpsertReplacesSameKeys() {
	ctx := context.Background()

	s.Require().NoError(s.table.UpsertEntity(ctx, &testEntity{Partition: "TI", Row: "1", Value: "first"}))
	s.Require().NoError(s.table.UpsertEntity(ctx, &testEntity{Partition: "TI", Row: "1", Value: "second"}))
	s.Require().NoError(s.table.UpsertEntity(ctx, &testEntity{Partition: "TI", Row: "2", Value: "other"}))
	s.Require().NoError(s.table.UpsertEntity(ctx, &testEntity{Partition: "RH", Row: "1", Value: "elsewhere"}))

	entities, err := s.table.ListEntities(ctx, "TI")
	s.Require().NoError(err)
	s.Require().Len(entities, 2)

	var first testEntity
	s.Require().NoError(entities[0].Decode(&first))
	s.Equal("second", first.Value)
	s.Equal("2", entities[1].RowKey)
}

func (s *tableClientSuite) TestKeysContainingSeparators() {
	ctx := context.Background()

	s.Require().NoError(s.table.UpsertEntity(ctx, &testEntity{Partition: "TI:5", Row: "9", Value: "colon partition"}))
	s.Require().NoError(s.table.UpsertEntity(ctx, &testEntity{Partition: "TI", Row: "5", Value: "plain partition"}))
	s.Require().NoError(s.table.UpsertEntity(ctx, &testEntity{Partition: "TI:5", Row: "10", Value: "second row"}))
	s.Require().NoError(s.table.UpsertEntity(ctx, &testEntity{Partition: "TI", Row: "5:9", Value: "colon row"}))

	entities, err := s.table.ListEntities(ctx, "TI:5")
	s.Require().NoError(err)
	s.Require().Len(entities, 2)
	s.Equal("10", entities[0].RowKey)
	s.Equal("9", entities[1].RowKey)

	entities, err = s.table.ListEntities(ctx, "TI")
	s.Require().NoError(err)
	s.Require().Len(entities, 2)
	s.Equal("5", entities[0].RowKey)
	s.Equal("5:9", entities[1].RowKey)

	var decoded testEntity
	s.Require().NoError(entities[0].Decode(&decoded))
	s.Equal("plain partition", decoded.Value)
}

func (s *tableClientSuite) TestUpsertRequiresKeys() {
	err := s.table.UpsertEntity(context.Background(), &testEntity{Partition: "TI"})
	s.Error(err)
}

func (s *tableClientSuite) TestListEmptyPartition() {
	entities, err := s.table.ListEntities(context.Background(), "nothing-here")
	s.Require().NoError(err)
	s.Empty(entities)
}

func TestSQLTableClient(t *testing.T) {
	suite.Run(t, &tableClientSuite{
		newService: func(t *testing.T) ServiceClient {
			svc, err := New("sqlite://" + filepath.Join(t.TempDir(), "audit.db"))
			require.NoError(t, err)
			t.Cleanup(func() { svc.Close() })
			return svc
		},
	})
}

func TestValidateTableName(t *testing.T) {
	for _, name := range []string{"FuncionarioLog", "abc", "Log2025"} {
		assert.NoError(t, ValidateTableName(name), name)
	}
	for _, name := range []string{"", "ab", "1abc", "funcionario_log", "x; DROP TABLE funcionarios", "a-b-c"} {
		assert.ErrorIs(t, ValidateTableName(name), ErrInvalidTableName, name)
	}
}

func TestServiceClientRejectsInvalidTableName(t *testing.T) {
	svc, err := New("sqlite://" + filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Table("bad name")
	assert.ErrorIs(t, err, ErrInvalidTableName)
}

func TestNewRejectsUnknownScheme(t *testing.T) {
	_, err := New("azure://account/table")
	assert.Error(t, err)
}
