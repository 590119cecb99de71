package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blogem/funcionario-api/database"
	"github.com/blogem/funcionario-api/models"
)

// ErrNotFound is returned when no record has the requested ID
var ErrNotFound = errors.New("not found")

// FuncionarioRepository interface defines employee record database operations
type FuncionarioRepository interface {
	FindByID(ctx context.Context, id int) (*models.Funcionario, error)
	Create(ctx context.Context, funcionario *models.Funcionario) error
	Update(ctx context.Context, id int, values *models.Funcionario) (*models.Funcionario, error)
	Delete(ctx context.Context, id int) error
	Ping(ctx context.Context) error
}

// funcionarioRepository implements FuncionarioRepository interface
type funcionarioRepository struct {
	db *database.DB
}

// NewFuncionarioRepository creates a new employee repository
func NewFuncionarioRepository(db *database.DB) FuncionarioRepository {
	return &funcionarioRepository{db: db}
}

// FindByID retrieves an employee by ID
func (r *funcionarioRepository) FindByID(ctx context.Context, id int) (*models.Funcionario, error) {
	query := r.db.Rebind(`
		SELECT id, nome, endereco, ramal, email_profissional, departamento,
		       salario, data_admissao
		FROM funcionarios
		WHERE id = ?
	`)

	var f models.Funcionario
	var dataAdmissao sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.Nome,
		&f.Endereco,
		&f.Ramal,
		&f.EmailProfissional,
		&f.Departamento,
		&f.Salario,
		&dataAdmissao,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("funcionario with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get funcionario: %w", err)
	}

	// Convert NULL to nil
	if dataAdmissao.Valid {
		f.DataAdmissao = &dataAdmissao.Time
	}

	return &f, nil
}

// Create inserts a new employee and sets its store-assigned ID
func (r *funcionarioRepository) Create(ctx context.Context, f *models.Funcionario) error {
	query := r.db.Rebind(`
		INSERT INTO funcionarios (nome, endereco, ramal, email_profissional, departamento, salario, data_admissao)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	return r.withTx(ctx, func(tx *sql.Tx) error {
		var id int
		err := tx.QueryRowContext(ctx, query,
			f.Nome,
			f.Endereco,
			f.Ramal,
			f.EmailProfissional,
			f.Departamento,
			f.Salario,
			nullTime(f.DataAdmissao),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create funcionario: %w", err)
		}

		f.ID = id
		return nil
	})
}

// Update overwrites every mutable field of the employee with the given ID.
// The ID carried by values is ignored.
func (r *funcionarioRepository) Update(ctx context.Context, id int, values *models.Funcionario) (*models.Funcionario, error) {
	query := r.db.Rebind(`
		UPDATE funcionarios
		SET nome = ?, endereco = ?, ramal = ?, email_profissional = ?,
		    departamento = ?, salario = ?, data_admissao = ?
		WHERE id = ?
	`)

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			values.Nome,
			values.Endereco,
			values.Ramal,
			values.EmailProfissional,
			values.Departamento,
			values.Salario,
			nullTime(values.DataAdmissao),
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to update funcionario: %w", err)
		}

		return requireAffected(result, id)
	})
	if err != nil {
		return nil, err
	}

	updated := &models.Funcionario{ID: id}
	updated.CopyFrom(values)
	return updated, nil
}

// Delete deletes an employee by ID
func (r *funcionarioRepository) Delete(ctx context.Context, id int) error {
	query := r.db.Rebind(`DELETE FROM funcionarios WHERE id = ?`)

	return r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return fmt.Errorf("failed to delete funcionario: %w", err)
		}

		return requireAffected(result, id)
	})
}

// Ping checks the database is reachable
func (r *funcionarioRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// withTx runs fn in a transaction and commits it before returning
func (r *funcionarioRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func requireAffected(result sql.Result, id int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("funcionario with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
