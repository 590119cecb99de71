package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/funcionario-api/database"
	"github.com/blogem/funcionario-api/models"
	"github.com/blogem/funcionario-api/tablestore"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	// Initialize a temporary database using the actual migration system
	db, err := database.InitializeDatabase("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func newFuncionario() *models.Funcionario {
	admissao := time.Date(2023, 8, 14, 9, 30, 0, 0, time.FixedZone("BRT", -3*60*60))
	return &models.Funcionario{
		Nome:              "Ana",
		Endereco:          "Rua das Flores, 100",
		Ramal:             "2201",
		EmailProfissional: "ana@x.com",
		Departamento:      "TI",
		Salario:           decimal.RequireFromString("5000.50"),
		DataAdmissao:      &admissao,
	}
}

func assertSameFields(t *testing.T, expected, actual *models.Funcionario) {
	t.Helper()
	assert.Equal(t, expected.Nome, actual.Nome)
	assert.Equal(t, expected.Endereco, actual.Endereco)
	assert.Equal(t, expected.Ramal, actual.Ramal)
	assert.Equal(t, expected.EmailProfissional, actual.EmailProfissional)
	assert.Equal(t, expected.Departamento, actual.Departamento)
	assert.True(t, expected.Salario.Equal(actual.Salario), "salario %s != %s", expected.Salario, actual.Salario)
	if expected.DataAdmissao == nil {
		assert.Nil(t, actual.DataAdmissao)
	} else {
		require.NotNil(t, actual.DataAdmissao)
		assert.True(t, expected.DataAdmissao.Equal(*actual.DataAdmissao))
	}
}

func TestFuncionarioRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFuncionarioRepository(db)
	ctx := context.Background()

	// Test Create
	f := newFuncionario()
	err := repo.Create(ctx, f)
	require.NoError(t, err)
	assert.NotZero(t, f.ID, "expected ID to be set after creation")

	// Test FindByID
	found, err := repo.FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, found.ID)
	assertSameFields(t, f, found)

	// Test Update
	values := &models.Funcionario{
		ID:                f.ID + 100,
		Nome:              "Ana Souza",
		EmailProfissional: "ana.souza@x.com",
		Departamento:      "Financeiro",
		Salario:           decimal.NewFromInt(6200),
	}
	updated, err := repo.Update(ctx, f.ID, values)
	require.NoError(t, err)
	assert.Equal(t, f.ID, updated.ID, "the ID in the values is ignored")

	reloaded, err := repo.FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, reloaded.ID)
	assertSameFields(t, values, reloaded)
	assert.Empty(t, reloaded.Endereco)

	// Test Delete
	require.NoError(t, repo.Delete(ctx, f.ID))

	// Verify deletion
	_, err = repo.FindByID(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFuncionarioRepositoryNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFuncionarioRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(ctx, 999, newFuncionario())
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	// update of a missing ID must not create it
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM funcionarios").Scan(&count))
	assert.Zero(t, count)
}

func TestFuncionarioRepositoryAssignsDistinctIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFuncionarioRepository(db)
	ctx := context.Background()

	first, second := newFuncionario(), newFuncionario()
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestFuncionarioRepositoryStoreFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFuncionarioRepository(db)
	require.NoError(t, db.Close())

	err := repo.Create(context.Background(), newFuncionario())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	audit := NewAuditRepository(tablestore.NewSQLServiceClient(db), "FuncionarioLog")
	ctx := context.Background()

	f := newFuncionario()
	f.ID = 7

	entry, err := models.NewFuncionarioLog(f, models.Inclusao, f.Departamento, "7")
	require.NoError(t, err)
	require.NoError(t, audit.Upsert(ctx, entry))
	assert.NotNil(t, entry.Timestamp, "the store assigns the timestamp")

	entries, err := audit.ListByPartition(ctx, "TI")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.Inclusao, entries[0].TipoAcao)
	assert.Equal(t, "7", entries[0].RowKey)
	assert.Equal(t, models.ETagAny, entries[0].ETag)
	assert.NotNil(t, entries[0].Timestamp)

	snapshot, err := entries[0].Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 7, snapshot.ID)
	assertSameFields(t, f, snapshot)

	// same partition and row replaces the entry
	f.Nome = "Ana Souza"
	update, err := models.NewFuncionarioLog(f, models.Atualizacao, f.Departamento, "7")
	require.NoError(t, err)
	require.NoError(t, audit.Upsert(ctx, update))

	entries, err = audit.ListByPartition(ctx, "TI")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.Atualizacao, entries[0].TipoAcao)
	assert.Equal(t, "Ana Souza", entries[0].Nome)
}

func TestAuditRepositoryInvalidTable(t *testing.T) {
	db := setupTestDB(t)
	audit := NewAuditRepository(tablestore.NewSQLServiceClient(db), "not a table")

	entry, err := models.NewFuncionarioLog(newFuncionario(), models.Inclusao, "TI", "1")
	require.NoError(t, err)

	err = audit.Upsert(context.Background(), entry)
	assert.ErrorIs(t, err, tablestore.ErrInvalidTableName)
}
