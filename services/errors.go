package services

import (
	"github.com/blogem/funcionario-api/repositories"
)

// ErrNotFound is returned when the requested employee does not exist
var ErrNotFound = repositories.ErrNotFound

// Stage names the half of the dual write that failed
type Stage string

const (
	StageFuncionario Stage = "funcionario"
	StageAudit       Stage = "audit"
)

// StoreError wraps a failure of either store. Its message is the underlying
// message, unchanged.
type StoreError struct {
	Stage Stage
	Err   error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Committed reports whether the relational change was already committed when
// the error happened.
func (e *StoreError) Committed() bool {
	return e.Stage == StageAudit
}
