// Package mocks holds testify mocks of the repository interfaces
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blogem/funcionario-api/models"
)

// MockFuncionarioRepository mocks repositories.FuncionarioRepository
type MockFuncionarioRepository struct {
	mock.Mock
}

// NewMockFuncionarioRepository creates a mock that asserts its expectations on cleanup
func NewMockFuncionarioRepository(t mock.TestingT) *MockFuncionarioRepository {
	m := &MockFuncionarioRepository{}
	m.Mock.Test(t)
	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
	return m
}

func (m *MockFuncionarioRepository) FindByID(ctx context.Context, id int) (*models.Funcionario, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*models.Funcionario)
	return f, args.Error(1)
}

func (m *MockFuncionarioRepository) Create(ctx context.Context, funcionario *models.Funcionario) error {
	args := m.Called(ctx, funcionario)
	return args.Error(0)
}

func (m *MockFuncionarioRepository) Update(ctx context.Context, id int, values *models.Funcionario) (*models.Funcionario, error) {
	args := m.Called(ctx, id, values)
	f, _ := args.Get(0).(*models.Funcionario)
	return f, args.Error(1)
}

func (m *MockFuncionarioRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFuncionarioRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAuditRepository mocks repositories.AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

// NewMockAuditRepository creates a mock that asserts its expectations on cleanup
func NewMockAuditRepository(t mock.TestingT) *MockAuditRepository {
	m := &MockAuditRepository{}
	m.Mock.Test(t)
	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
	return m
}

func (m *MockAuditRepository) Upsert(ctx context.Context, entry *models.FuncionarioLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByPartition(ctx context.Context, partitionKey string) ([]models.FuncionarioLog, error) {
	args := m.Called(ctx, partitionKey)
	entries, _ := args.Get(0).([]models.FuncionarioLog)
	return entries, args.Error(1)
}
