// Package apperr holds the error taxonomy shared by repositories, services
// and HTTP handlers. Callers match kinds with errors.Is.
package apperr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrRemoteRead  = errors.New("remote read failed")
	ErrRemoteWrite = errors.New("remote write failed")
	ErrNotFound    = errors.New("not found")
)

// SQLSTATE codes we classify on.
const (
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

type Error struct {
	Kind  error
	Op    string
	Table string
	Field string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
		if e.Table != "" {
			b.WriteString(" ")
			b.WriteString(e.Table)
		}
	}
	if e.Field != "" {
		b.WriteString(": field ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Validation reports malformed local input on field.
func Validation(field, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Field: field, Err: fmt.Errorf(format, args...)}
}

// Read classifies a failed select against table. sql.ErrNoRows becomes
// ErrNotFound, everything else (including timeouts) ErrRemoteRead.
func Read(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: ErrNotFound, Op: "select", Table: table, Err: err}
	}
	return &Error{Kind: ErrRemoteRead, Op: "select", Table: table, Err: timeoutCause(err)}
}

// Write classifies a failed insert/update against table. A foreign key
// violation stays a remote write error but also matches ErrNotFound.
func Write(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: ErrRemoteWrite, Op: op, Table: table, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case codeForeignKeyViolation:
			return &Error{
				Kind:  ErrRemoteWrite,
				Op:    op,
				Table: table,
				Field: pgErr.Field('n'),
				Err:   fmt.Errorf("%w: %w", ErrNotFound, err),
			}
		case codeNotNullViolation:
			return &Error{Kind: ErrRemoteWrite, Op: op, Table: table, Field: pgErr.Field('c'), Err: err}
		case codeCheckViolation:
			return &Error{Kind: ErrRemoteWrite, Op: op, Table: table, Field: pgErr.Field('n'), Err: err}
		}
	}

	return &Error{Kind: ErrRemoteWrite, Op: op, Table: table, Err: timeoutCause(err)}
}

func timeoutCause(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("remote call timed out: %w", err)
	}
	return err
}
