package repositories

import (
	"github.com/blogem/funcionario-api/database"
	"github.com/blogem/funcionario-api/tablestore"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Funcionario FuncionarioRepository
	Audit       AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *database.DB, tables tablestore.ServiceClient, auditTable string) *Repositories {
	return &Repositories{
		Funcionario: NewFuncionarioRepository(db),
		Audit:       NewAuditRepository(tables, auditTable),
	}
}
