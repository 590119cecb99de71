package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// salario travels as a JSON number, not a quoted string
	decimal.MarshalJSONWithoutQuotes = true
}

// Funcionario represents an employee record
type Funcionario struct {
	ID                int             `json:"id" db:"id"`
	Nome              string          `json:"nome" db:"nome" validate:"notblank,max=100" jsonschema:"maxLength=100"`
	Endereco          string          `json:"endereco" db:"endereco" validate:"max=200" jsonschema:"maxLength=200"`
	Ramal             string          `json:"ramal" db:"ramal" validate:"max=200" jsonschema:"maxLength=200"`
	EmailProfissional string          `json:"emailProfissional" db:"email_profissional" validate:"notblank,email,max=100" jsonschema:"format=email,maxLength=100"`
	Departamento      string          `json:"departamento" db:"departamento" validate:"notblank,max=50" jsonschema:"maxLength=50"`
	Salario           decimal.Decimal `json:"salario" db:"salario" validate:"gte=0" jsonschema:"type=number,minimum=0"`
	DataAdmissao      *time.Time      `json:"dataAdmissao" db:"data_admissao" jsonschema:"nullable"`
}

// CopyFrom overwrites every mutable field with the values of other. The ID is
// left untouched.
func (f *Funcionario) CopyFrom(other *Funcionario) {
	f.Nome = other.Nome
	f.Endereco = other.Endereco
	f.Ramal = other.Ramal
	f.EmailProfissional = other.EmailProfissional
	f.Departamento = other.Departamento
	f.Salario = other.Salario
	f.DataAdmissao = other.DataAdmissao
}

// Validate checks the record against its field constraints
func (f *Funcionario) Validate() ValidationErrors {
	return validateStruct(f)
}
