package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"db_forms/internal/config"
	"db_forms/internal/crud"
	"db_forms/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteOpenOptions = "?_busy_timeout=5000" +
	"&_foreign_keys=on"

// Символы, которые иначе разорвут URI имени файла
var sqlitePathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

type SQLiteConnector struct {
	config config.DatabaseConfig
	session
}

func NewSQLiteConnector(cfg config.DatabaseConfig) *SQLiteConnector {
	return &SQLiteConnector{
		config: cfg,
		session: newSession(dialect{
			driverName:  "sqlite3",
			placeholder: crud.QuestionMark,
			types: map[domain.FieldKind]string{
				domain.Integer: "INTEGER",
				domain.Text:    "TEXT",
				domain.Decimal: "REAL",
			},
			ifNotExists: true,
			selectList:  sqliteSelectList,
		}, cfg.Timeout),
	}
}

func sqliteDSN(path string) string {
	return "file:" + sqlitePathEscaper.Replace(path) + sqliteOpenOptions
}

func (c *SQLiteConnector) Connect() error {
	return c.open(sqliteDSN(c.config.Path))
}

// sqliteSelectList читает колонки с типом даты или времени как текст.
// Драйвер разбирает такие колонки в time.Time, а значение, которое не
// разбирается, становится нулевым временем.
func sqliteSelectList(ctx context.Context, q querier, table string) (string, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return "", fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, declType   string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return "", fmt.Errorf("row scan failed: %w", err)
		}
		quoted := `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
		t := strings.ToLower(declType)
		if strings.Contains(t, "date") || strings.Contains(t, "time") {
			list = append(list, fmt.Sprintf("CAST(%s AS TEXT) AS %s", quoted, quoted))
		} else {
			list = append(list, quoted)
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows iteration error: %w", err)
	}
	// Нет такой таблицы: пусть ошибку вернет сам SELECT
	if len(list) == 0 {
		return "*", nil
	}
	return strings.Join(list, ", "), nil
}
