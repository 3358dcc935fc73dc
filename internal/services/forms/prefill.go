package forms

import (
	"db_forms/internal/domain"
)

// EditValues returns the current values of a displayed row in form field
// order. Display columns come in the store's order and may differ in case
// from the registry.
func EditValues(ts *domain.TableSchema, display *domain.DisplayTable, rowID string) (domain.RowValues, bool) {
	row, ok := display.FindRow(rowID)
	if !ok {
		return nil, false
	}

	columnMapping := make(map[string]int, len(display.Columns))
	for i, name := range display.Columns {
		c := domain.ColumnInfo{Name: name}
		columnMapping[c.GetColumnName(true)] = i
	}

	values := make(domain.RowValues, len(ts.Columns))
	for i, col := range ts.Columns {
		if j, ok := columnMapping[col.GetColumnName(true)]; ok && j < len(row) {
			values[i] = row[j]
		}
	}
	return values, true
}
