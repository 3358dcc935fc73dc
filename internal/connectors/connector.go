package connectors

import (
	"context"
	"fmt"

	"db_forms/internal/config"
	"db_forms/internal/crud"
	"db_forms/internal/domain"
)

// Store is one long-lived connection. Mutations go into an open working
// transaction and become durable only on Commit.
type Store interface {
	// Функции по умолчанию
	Connect() error
	Ping() error
	Disconnect() error

	// Изменения попадают в рабочую транзакцию
	Exec(ctx context.Context, query string, args ...interface{}) (int64, error)
	Commit() error
	Rollback() error
	Pending() bool

	// SELECT * по таблице, видит незафиксированные изменения этого соединения
	SelectAll(ctx context.Context, table string) (*domain.DisplayTable, error)

	CreateTable(ctx context.Context, schema *domain.TableSchema) error
	Placeholder() crud.PlaceholderFunc
}

// New создает коннектор по типу из конфига. Соединение не открывается.
func New(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return NewSQLiteConnector(cfg), nil
	case config.DriverMariaDB:
		return NewMariaDBConnector(cfg), nil
	case config.DriverOracle:
		return NewOracleConnector(cfg), nil
	case config.DriverPostgres:
		return NewPostgresConnector(cfg), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}
