package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Code is the machine-readable class of a datastore failure.
type Code string

const (
	CodeNotFound         Code = "not_found"
	CodePermissionDenied Code = "permission_denied"
	CodeConflict         Code = "conflict"
	CodeRestricted       Code = "restricted"
	CodeUnknown          Code = "unknown"
)

const (
	sqlStateInsufficientPrivilege = "42501"
	sqlStateUniqueViolation       = "23505"
	sqlStateForeignKeyViolation   = "23503"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrPermissionDenied = errors.New("permission denied")
)

type StoreError struct {
	Op   string
	Code Code
	Err  error
}

func (e *StoreError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets callers test the class with errors.Is(err, ErrNotFound) without
// caring which driver produced it.
func (e *StoreError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrNotFound:
		return e.Code == CodeNotFound
	case ErrPermissionDenied:
		return e.Code == CodePermissionDenied
	}
	return false
}

// CodeOf returns the class of err, CodeUnknown for unclassified failures.
func CodeOf(err error) Code {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return classify(err)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Code: classify(err), Err: err}
}

func notFound(op string) error {
	return &StoreError{Op: op, Code: CodeNotFound, Err: sql.ErrNoRows}
}

func classify(err error) Code {
	if err == nil {
		return ""
	}
	if isNoRows(err) {
		return CodeNotFound
	}

	state := ""
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		state = pgErr.Code
	case errors.As(err, &pqErr):
		state = string(pqErr.Code)
	}

	switch state {
	case sqlStateInsufficientPrivilege:
		return CodePermissionDenied
	case sqlStateUniqueViolation:
		return CodeConflict
	case sqlStateForeignKeyViolation:
		return CodeRestricted
	default:
		return CodeUnknown
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
