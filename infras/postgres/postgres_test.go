package postgres_test

import (
	"littlelemon/config"
	"littlelemon/infras/postgres"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN_String(t *testing.T) {
	dsn := postgres.DSN{
		Username: "lemon",
		Password: "p@ss word",
		Host:     "db",
		Port:     "5432",
		Name:     "littlelemon",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://lemon:p%40ss%20word@db:5432/littlelemon?sslmode=disable", dsn.String())
	assert.Equal(t,
		"postgres://lemon:p%40ss%20word@db:5432/littlelemon?sslmode=disable&x-migrations-table=schema_migrations",
		dsn.String("x-migrations-table", "schema_migrations"),
	)
}

func TestWriteDSN_Prefix(t *testing.T) {
	cfg := config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.Write.Name = "littlelemon"
	cfg.DB.Postgres.Write.Host = "localhost"
	cfg.DB.Postgres.Write.Timezone = "UTC"
	cfg.DB.Postgres.Read.Name = "littlelemon_replica"

	assert.Equal(t, "test_littlelemon", postgres.WriteDSN(cfg).Name)
	assert.Equal(t, "UTC", postgres.WriteDSN(cfg).Timezone)
	assert.Equal(t, "test_littlelemon_replica", postgres.ReadDSN(cfg).Name)
}
