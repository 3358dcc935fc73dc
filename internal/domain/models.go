package domain

import (
	"fmt"
	"strings"
)

// Record представляет одну строку таблицы по именам колонок
type Record map[string]interface{}

// FieldKind ожидаемый тип значения в поле формы
type FieldKind int

const (
	Text FieldKind = iota
	Integer
	Decimal
)

func (k FieldKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	default:
		return "text"
	}
}

// TableSchema описывает структуру таблицы
type TableSchema struct {
	Name        string // Внутреннее имя таблицы в базе (без пробелов)
	DisplayName string // Имя для выбора пользователем ("Order Items")
	Columns     []ColumnInfo
	PrimaryKey  string
}

type ColumnInfo struct {
	Name       string
	Kind       FieldKind
	Label      string // Подсказка для поля ввода
	IsNullable bool
}

// ColumnNames возвращает имена колонок в порядке схемы
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

func (c *ColumnInfo) GetColumnName(isMapping bool) string {
	if isMapping {
		return strings.ToLower(strings.ReplaceAll(c.Name, "_", ""))
	} else {
		return c.Name
	}
}

// FieldSpec описывает одно поле формы ввода
type FieldSpec struct {
	Column string
	Label  string
	Kind   FieldKind
}

// RowValues сырые строки, введенные пользователем, по одной на колонку
type RowValues []string

type Action int

const (
	Insert Action = iota + 1
	Update
	Delete
)

func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction переводит имя действия из интерфейса в Action
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "insert":
		return Insert, nil
	case "update", "edit":
		return Update, nil
	case "delete":
		return Delete, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAction, s)
	}
}

// CrudRequest одно действие пользователя над строкой таблицы
type CrudRequest struct {
	Table  *TableSchema
	Action Action
	Values RowValues
	RowID  string // Обязателен для Update и Delete
}

// DisplayTable снимок содержимого таблицы для отображения
type DisplayTable struct {
	Columns []string
	Rows    [][]string
}

func (t *DisplayTable) Equal(other *DisplayTable) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.Columns) != len(other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != other.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if len(t.Rows[i]) != len(other.Rows[i]) {
			return false
		}
		for j := range t.Rows[i] {
			if t.Rows[i][j] != other.Rows[i][j] {
				return false
			}
		}
	}
	return true
}

// Records возвращает строки таблицы с доступом по имени колонки
func (t *DisplayTable) Records() []Record {
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make(Record, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}

// FindRow ищет строку по значению в первой колонке
func (t *DisplayTable) FindRow(id string) ([]string, bool) {
	for _, row := range t.Rows {
		if len(row) > 0 && row[0] == id {
			return row, true
		}
	}
	return nil, false
}
