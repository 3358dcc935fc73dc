package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"db_forms/internal/crud"
	"db_forms/internal/domain"
)

// dialect различия между движками, которые нужны формам
type dialect struct {
	driverName  string
	placeholder crud.PlaceholderFunc
	types       map[domain.FieldKind]string
	ifNotExists bool
	pingQuery   string
	// selectList строит список колонок для SELECT, по умолчанию "*"
	selectList func(ctx context.Context, q querier, table string) (string, error)
	// Ошибка в транзакции Postgres ломает всю транзакцию,
	// поэтому каждый оператор выполняется внутри SAVEPOINT
	savepoints bool
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// session одно соединение с базой и рабочая транзакция
type session struct {
	dialect dialect
	timeout time.Duration
	db      *sql.DB
	tx      *sql.Tx
	dirty   bool // В рабочей транзакции есть успешно выполненные изменения
}

func newSession(d dialect, timeoutSeconds int) session {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 5
	}
	if d.pingQuery == "" {
		d.pingQuery = "SELECT 1"
	}
	return session{dialect: d, timeout: time.Duration(timeoutSeconds) * time.Second}
}

func (s *session) open(dsn string) error {
	db, err := sql.Open(s.dialect.driverName, dsn)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	// Одно соединение на весь процесс
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping failed: %w", err)
	}

	s.db = db
	return nil
}

func (s *session) Ping() error {
	if s.db == nil {
		return domain.ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if s.tx == nil {
		return s.db.PingContext(ctx)
	}
	// Единственное соединение занято рабочей транзакцией
	var one int
	if err := s.tx.QueryRowContext(ctx, s.dialect.pingQuery).Scan(&one); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Disconnect откатывает незафиксированные изменения и закрывает соединение
func (s *session) Disconnect() error {
	if s.db == nil {
		return nil
	}
	var rbErr error
	if s.tx != nil {
		rbErr = s.tx.Rollback()
		s.tx = nil
	}
	s.dirty = false
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return err
	}
	if rbErr != nil {
		return fmt.Errorf("rollback on disconnect failed: %w", rbErr)
	}
	return nil
}

func (s *session) Placeholder() crud.PlaceholderFunc {
	return s.dialect.placeholder
}

// Pending сообщает, есть ли незафиксированные изменения.
// Открытая транзакция без успешных операторов не считается.
func (s *session) Pending() bool {
	return s.dirty
}

func (s *session) conn() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Exec выполняет изменение в рабочей транзакции, открывая ее при необходимости
func (s *session) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if s.db == nil {
		return 0, domain.ErrNotConnected
	}
	if s.tx == nil {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return 0, fmt.Errorf("transaction begin failed: %w", err)
		}
		s.tx = tx
	}

	if s.dialect.savepoints {
		if _, err := s.tx.ExecContext(ctx, "SAVEPOINT db_forms_stmt"); err != nil {
			return 0, fmt.Errorf("savepoint failed: %w", err)
		}
	}

	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		if s.dialect.savepoints {
			if _, rbErr := s.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT db_forms_stmt"); rbErr != nil {
				return 0, fmt.Errorf("query execution failed: %v (rollback to savepoint: %w)", err, rbErr)
			}
		}
		return 0, fmt.Errorf("query execution failed: %w", err)
	}
	if s.dialect.savepoints {
		if _, err := s.tx.ExecContext(ctx, "RELEASE SAVEPOINT db_forms_stmt"); err != nil {
			return 0, fmt.Errorf("release savepoint failed: %w", err)
		}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	s.dirty = true
	return rowsAffected, nil
}

// Commit делает изменения рабочей транзакции постоянными.
// Без открытой транзакции ничего не делает.
func (s *session) Commit() error {
	if s.db == nil {
		return domain.ErrNotConnected
	}
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	s.dirty = false
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (s *session) Rollback() error {
	if s.db == nil {
		return domain.ErrNotConnected
	}
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	s.dirty = false
	if err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

func (s *session) SelectAll(ctx context.Context, table string) (*domain.DisplayTable, error) {
	if s.db == nil {
		return nil, domain.ErrNotConnected
	}
	list := "*"
	if s.dialect.selectList != nil {
		var err error
		if list, err = s.dialect.selectList(ctx, s.conn(), table); err != nil {
			return nil, err
		}
	}
	rows, err := s.conn().QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s", list, table))
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	// Получаем имена колонок в порядке хранилища
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &domain.DisplayTable{Columns: columns, Rows: [][]string{}}
	values := make([]interface{}, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("row scan failed: %w", err)
		}
		row := make([]string, len(columns))
		for i := range values {
			row[i] = formatValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return result, nil
}

// formatValue приводит значение из драйвера к строке для отображения
func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format("2006-01-02 15:04:05")
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// CreateTable создает таблицу по схеме, первичный ключ на первой колонке
func (s *session) CreateTable(ctx context.Context, schema *domain.TableSchema) error {
	if s.db == nil {
		return domain.ErrNotConnected
	}
	var createColumns []string
	for _, col := range schema.Columns {
		colDef := fmt.Sprintf("%s %s", col.Name, s.dialect.types[col.Kind])
		if !col.IsNullable {
			colDef += " NOT NULL"
		}
		createColumns = append(createColumns, colDef)
	}
	if schema.PrimaryKey != "" {
		createColumns = append(createColumns, fmt.Sprintf("PRIMARY KEY (%s)", schema.PrimaryKey))
	}

	create := "CREATE TABLE"
	if s.dialect.ifNotExists {
		create += " IF NOT EXISTS"
	}
	createStmt := fmt.Sprintf("%s %s (%s)", create, schema.Name, strings.Join(createColumns, ", "))
	if _, err := s.conn().ExecContext(ctx, createStmt); err != nil {
		return fmt.Errorf("create table %s failed: %w", schema.Name, err)
	}
	return nil
}
