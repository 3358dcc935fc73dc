package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTable      = errors.New("unknown table")
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrMissingPrimaryKey = errors.New("missing primary key")
	ErrInvalidPrimaryKey = errors.New("invalid primary key")
	ErrNoSelection       = errors.New("no selection")
	ErrFieldCount        = errors.New("wrong number of field values")
	ErrInvalidField      = errors.New("invalid field value")
	ErrNotConnected      = errors.New("not connected to database")
)

// QueryError оборачивает любую ошибку хранилища
type QueryError struct {
	Op    string
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// FieldError значение поля не соответствует ожидаемому типу
type FieldError struct {
	Column string
	Kind   FieldKind
	Value  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.Column, e.Kind, e.Value)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidField
}
