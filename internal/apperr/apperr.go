package apperr

import (
	"errors"
	"fmt"
)

// Kind classifica a origem de uma falha durante a execução
type Kind string

const (
	Fetch        Kind = "fetch"
	Parse        Kind = "parse"
	Calculation  Kind = "calculation"
	Persistence  Kind = "persistence"
	Notification Kind = "notification"
)

// Error carrega o tipo da falha junto com a operação que falhou
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New embrulha err com o tipo informado. Retorna nil se err for nil.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf cria um erro do tipo informado a partir de uma mensagem formatada
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf retorna o tipo do primeiro *Error na cadeia, ou "" se não houver
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is informa se err (ou algum erro embrulhado) é do tipo kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
