package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/blogem/funcionario-api/models"
	"github.com/blogem/funcionario-api/repositories"
)

// FuncionarioService interface defines employee business logic
type FuncionarioService interface {
	GetByID(ctx context.Context, id int) (*models.Funcionario, error)
	Create(ctx context.Context, funcionario *models.Funcionario) (*models.Funcionario, error)
	Update(ctx context.Context, id int, funcionario *models.Funcionario) (*models.Funcionario, error)
	Delete(ctx context.Context, id int) error
	ListLog(ctx context.Context, departamento string) ([]models.FuncionarioLog, error)
	Ping(ctx context.Context) error
}

// funcionarioService implements FuncionarioService interface
type funcionarioService struct {
	funcionarioRepo repositories.FuncionarioRepository
	auditRepo       repositories.AuditRepository
	logger          *slog.Logger
}

// NewFuncionarioService creates a new employee service
func NewFuncionarioService(funcionarioRepo repositories.FuncionarioRepository, auditRepo repositories.AuditRepository, logger *slog.Logger) FuncionarioService {
	if logger == nil {
		logger = slog.Default()
	}
	return &funcionarioService{
		funcionarioRepo: funcionarioRepo,
		auditRepo:       auditRepo,
		logger:          logger,
	}
}

// GetByID retrieves an employee by ID
func (s *funcionarioService) GetByID(ctx context.Context, id int) (*models.Funcionario, error) {
	f, err := s.funcionarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(StageFuncionario, err)
	}
	return f, nil
}

// Create validates and inserts a new employee, then records the insertion
func (s *funcionarioService) Create(ctx context.Context, input *models.Funcionario) (*models.Funcionario, error) {
	if errs := input.Validate(); errs.HasErrors() {
		return nil, errs
	}

	f := &models.Funcionario{}
	f.CopyFrom(input)

	if err := s.funcionarioRepo.Create(ctx, f); err != nil {
		return nil, storeErr(StageFuncionario, err)
	}

	if err := s.writeLog(ctx, f, models.Inclusao); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "funcionario created", "id", f.ID, "departamento", f.Departamento)
	return f, nil
}

// Update validates the new values, overwrites the employee and records the update
func (s *funcionarioService) Update(ctx context.Context, id int, input *models.Funcionario) (*models.Funcionario, error) {
	if errs := input.Validate(); errs.HasErrors() {
		return nil, errs
	}

	if _, err := s.funcionarioRepo.FindByID(ctx, id); err != nil {
		return nil, storeErr(StageFuncionario, err)
	}

	updated, err := s.funcionarioRepo.Update(ctx, id, input)
	if err != nil {
		return nil, storeErr(StageFuncionario, err)
	}

	if err := s.writeLog(ctx, updated, models.Atualizacao); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "funcionario updated", "id", updated.ID, "departamento", updated.Departamento)
	return updated, nil
}

// Delete removes the employee and records the removal with the last known state
func (s *funcionarioService) Delete(ctx context.Context, id int) error {
	snapshot, err := s.funcionarioRepo.FindByID(ctx, id)
	if err != nil {
		return storeErr(StageFuncionario, err)
	}

	if err := s.funcionarioRepo.Delete(ctx, id); err != nil {
		return storeErr(StageFuncionario, err)
	}

	if err := s.writeLog(ctx, snapshot, models.Remocao); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "funcionario deleted", "id", id, "departamento", snapshot.Departamento)
	return nil
}

// ListLog retrieves the audit entries of a department
func (s *funcionarioService) ListLog(ctx context.Context, departamento string) ([]models.FuncionarioLog, error) {
	entries, err := s.auditRepo.ListByPartition(ctx, departamento)
	if err != nil {
		return nil, storeErr(StageAudit, err)
	}
	return entries, nil
}

// Ping checks that the relational store is reachable
func (s *funcionarioService) Ping(ctx context.Context) error {
	return s.funcionarioRepo.Ping(ctx)
}

// writeLog upserts the audit entry for a committed change. A failure here
// leaves the relational change in place; it is reported, not undone.
func (s *funcionarioService) writeLog(ctx context.Context, f *models.Funcionario, tipoAcao models.TipoAcao) error {
	entry, err := models.NewFuncionarioLog(f, tipoAcao, f.Departamento, strconv.Itoa(f.ID))
	if err == nil {
		err = s.auditRepo.Upsert(ctx, entry)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "audit write failed after committed change",
			"id", f.ID,
			"tipoAcao", tipoAcao,
			"error", err,
		)
		return storeErr(StageAudit, fmt.Errorf("failed to write audit log: %w", err))
	}
	return nil
}

// storeErr passes not-found through and wraps anything else as a StoreError
func storeErr(stage Stage, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreError{Stage: stage, Err: err}
}
