package connectors

import (
	"fmt"

	"db_forms/internal/config"
	"db_forms/internal/crud"
	"db_forms/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

type MariaDBConnector struct {
	config config.DatabaseConfig
	session
}

func NewMariaDBConnector(cfg config.DatabaseConfig) *MariaDBConnector {
	return &MariaDBConnector{
		config: cfg,
		session: newSession(dialect{
			driverName:  "mysql",
			placeholder: crud.QuestionMark,
			types: map[domain.FieldKind]string{
				domain.Integer: "INT",
				domain.Text:    "VARCHAR(255)",
				domain.Decimal: "DECIMAL(10,2)",
			},
			ifNotExists: true,
		}, cfg.Timeout),
	}
}

func (m *MariaDBConnector) Connect() error {
	connectionString := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		m.config.User, m.config.Password, m.config.Host, m.config.Port, m.config.DBName)
	return m.open(connectionString)
}
