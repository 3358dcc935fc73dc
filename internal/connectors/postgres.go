package connectors

import (
	"fmt"
	"net/url"

	"db_forms/internal/config"
	"db_forms/internal/crud"
	"db_forms/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresConnector struct {
	config config.DatabaseConfig
	session
}

func NewPostgresConnector(cfg config.DatabaseConfig) *PostgresConnector {
	return &PostgresConnector{
		config: cfg,
		session: newSession(dialect{
			driverName:  "pgx",
			placeholder: crud.Dollar,
			types: map[domain.FieldKind]string{
				domain.Integer: "INTEGER",
				domain.Text:    "TEXT",
				domain.Decimal: "NUMERIC(12,2)",
			},
			ifNotExists: true,
			savepoints:  true,
		}, cfg.Timeout),
	}
}

func (p *PostgresConnector) Connect() error {
	// postgres://<user>:<password>@<host>:<port>/<dbname>
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.config.User, p.config.Password),
		Host:   fmt.Sprintf("%s:%d", p.config.Host, p.config.Port),
		Path:   p.config.DBName,
	}
	return p.open(u.String())
}
