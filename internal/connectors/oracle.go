package connectors

import (
	"fmt"

	"db_forms/internal/config"
	"db_forms/internal/crud"
	"db_forms/internal/domain"

	_ "github.com/sijms/go-ora/v2"
)

type OracleConnector struct {
	config config.DatabaseConfig
	session
}

func NewOracleConnector(cfg config.DatabaseConfig) *OracleConnector {
	return &OracleConnector{
		config: cfg,
		session: newSession(dialect{
			driverName:  "oracle",
			placeholder: crud.Colon,
			types: map[domain.FieldKind]string{
				domain.Integer: "NUMBER(10)",
				domain.Text:    "VARCHAR2(4000)",
				domain.Decimal: "NUMBER(12,2)",
			},
			pingQuery: "SELECT 1 FROM DUAL",
		}, cfg.Timeout),
	}
}

func (o *OracleConnector) Connect() error {
	connectionString := fmt.Sprintf(
		"oracle://%s:%s@%s:%d/%s",
		o.config.User,
		o.config.Password,
		o.config.Host,
		o.config.Port,
		o.config.DBName,
	)
	return o.open(connectionString)
}
