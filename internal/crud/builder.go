// Package crud validates form input and turns it into parameterized
// INSERT, UPDATE and DELETE statements.
//
// Table and column names are taken only from the schema registry and are
// written into the statement text; user values are always bound.
package crud

import (
	"fmt"
	"strings"

	"db_forms/internal/domain"
)

// PlaceholderFunc returns the bind marker for the n-th argument, starting at 1.
type PlaceholderFunc func(n int) string

// QuestionMark SQLite, MariaDB
func QuestionMark(int) string { return "?" }

// Dollar PostgreSQL
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// Colon Oracle
func Colon(n int) string { return fmt.Sprintf(":%d", n) }

type Builder struct {
	Placeholder PlaceholderFunc
}

var defaultBuilder = Builder{Placeholder: QuestionMark}

// Build builds a statement with "?" placeholders.
func Build(req *domain.CrudRequest) (string, []interface{}, error) {
	return defaultBuilder.Build(req)
}

func (b Builder) placeholder(n int) string {
	if b.Placeholder == nil {
		return QuestionMark(n)
	}
	return b.Placeholder(n)
}

// Build returns the statement text and its bound values in order.
func (b Builder) Build(req *domain.CrudRequest) (string, []interface{}, error) {
	table := req.Table
	if table == nil {
		return "", nil, domain.ErrUnknownTable
	}
	columns := table.ColumnNames()

	switch req.Action {
	case domain.Insert:
		if len(req.Values) != len(columns) {
			return "", nil, fieldCountError(table, req.Values)
		}
		placeholders := make([]string, len(columns))
		for i := range columns {
			placeholders[i] = b.placeholder(i + 1)
		}
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table.Name, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
		return query, bind(req.Values), nil

	case domain.Update:
		if len(req.Values) != len(columns) {
			return "", nil, fieldCountError(table, req.Values)
		}
		setClause := make([]string, len(columns))
		for i, c := range columns {
			setClause[i] = fmt.Sprintf("%s = %s", c, b.placeholder(i+1))
		}
		query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
			table.Name, strings.Join(setClause, ", "), table.PrimaryKey, b.placeholder(len(columns)+1))
		args := append(bind(req.Values), strings.TrimSpace(req.RowID))
		return query, args, nil

	case domain.Delete:
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", table.Name, table.PrimaryKey, b.placeholder(1))
		return query, []interface{}{strings.TrimSpace(req.RowID)}, nil

	default:
		return "", nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedAction, req.Action)
	}
}

// bind обрезает пробелы у введенных значений
func bind(values domain.RowValues) []interface{} {
	args := make([]interface{}, len(values), len(values)+1)
	for i, v := range values {
		args[i] = strings.TrimSpace(v)
	}
	return args
}

func fieldCountError(table *domain.TableSchema, values domain.RowValues) error {
	return fmt.Errorf("%w: %s has %d columns, got %d values",
		domain.ErrFieldCount, table.Name, len(table.Columns), len(values))
}
