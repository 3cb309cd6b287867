// Package apperr define a taxonomia de erros compartilhada pelos serviços.
//
// Os serviços embrulham um destes sentinelas com fmt.Errorf("...: %w") e a
// camada HTTP decide o status a partir de errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrRuleViolation = errors.New("business rule violation")
)

// FieldError descreve uma violação de validação em um campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carrega todas as violações de uma submissão.
// Satisfaz errors.Is(err, ErrInvalidInput).
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Fields[0].Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid cria um erro de entrada inválida com mensagem formatada.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// NotFound cria um erro de recurso inexistente.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}
