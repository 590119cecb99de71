package services

import (
	"log/slog"

	"github.com/blogem/funcionario-api/repositories"
)

// Services holds all service instances
type Services struct {
	Funcionario FuncionarioService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, logger *slog.Logger) *Services {
	return &Services{
		Funcionario: NewFuncionarioService(repos.Funcionario, repos.Audit, logger),
	}
}
