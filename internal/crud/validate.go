package crud

import (
	"fmt"
	"strconv"
	"strings"

	"db_forms/internal/domain"
	"github.com/shopspring/decimal"
)

// primaryKeyValue возвращает значение, стоящее на месте первичного ключа
func primaryKeyValue(req *domain.CrudRequest) (string, error) {
	switch req.Action {
	case domain.Insert:
		if len(req.Values) == 0 {
			return "", nil
		}
		return req.Values[0], nil
	case domain.Update, domain.Delete:
		return req.RowID, nil
	default:
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedAction, req.Action)
	}
}

// Validate checks the primary key of a request before any statement is built:
// it must be present and an integer. Other fields are accepted as entered.
func Validate(req *domain.CrudRequest) error {
	if req.Table == nil {
		return domain.ErrUnknownTable
	}
	value, err := primaryKeyValue(req)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: %s cannot be empty", domain.ErrMissingPrimaryKey, req.Table.PrimaryKey)
	}
	if _, err := strconv.Atoi(value); err != nil {
		return fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidPrimaryKey, req.Table.PrimaryKey, value)
	}
	return nil
}

// ValidateFields проверяет тип каждого введенного значения по схеме.
// Пустые значения допустимы для nullable колонок.
func ValidateFields(req *domain.CrudRequest) error {
	if req.Table == nil {
		return domain.ErrUnknownTable
	}
	if req.Action == domain.Delete {
		return nil
	}
	if len(req.Values) != len(req.Table.Columns) {
		return fmt.Errorf("%w: %s has %d columns, got %d values",
			domain.ErrFieldCount, req.Table.Name, len(req.Table.Columns), len(req.Values))
	}
	for i, col := range req.Table.Columns {
		value := strings.TrimSpace(req.Values[i])
		if value == "" {
			if col.IsNullable {
				continue
			}
			return &domain.FieldError{Column: col.Name, Kind: col.Kind, Value: req.Values[i]}
		}
		switch col.Kind {
		case domain.Integer:
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				return &domain.FieldError{Column: col.Name, Kind: col.Kind, Value: req.Values[i]}
			}
		case domain.Decimal:
			if _, err := decimal.NewFromString(value); err != nil {
				return &domain.FieldError{Column: col.Name, Kind: col.Kind, Value: req.Values[i]}
			}
		}
	}
	return nil
}
