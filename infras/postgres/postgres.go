package postgres

//nolint:revive
import (
	"errors"
	"littlelemon/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// DSN describes one postgres endpoint.
type DSN struct {
	Username string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
	Timezone string
}

// String renders the DSN as a postgres:// URL. Extra query values are appended as-is.
func (d DSN) String(extra ...string) string {
	query := url.Values{}
	query.Set("sslmode", d.SSLMode)

	if d.Timezone != "" {
		query.Set("timezone", d.Timezone)
	}

	for i := 0; i+1 < len(extra); i += 2 {
		query.Set(extra[i], extra[i+1])
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.Username, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func New(config *config.Config) *Connection {
	read := CreatePostgresReadConn(*config)
	write := CreatePostgresWriteConn(*config)

	if read == nil || write == nil {
		log.Fatal().Msg("Could not connect to database after retries")
	}

	return &Connection{
		Read:  read,
		Write: write,
	}
}

// Close releases both pools.
func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close()) //nolint:wrapcheck
}

// getDBName returns the database name with prefix if configured
func getDBName(config config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// WriteDSN is the primary endpoint, also used by migrations.
func WriteDSN(config config.Config) DSN {
	return DSN{
		Username: config.DB.Postgres.Write.Username,
		Password: config.DB.Postgres.Write.Password,
		Host:     config.DB.Postgres.Write.Host,
		Port:     config.DB.Postgres.Write.Port,
		Name:     getDBName(config, config.DB.Postgres.Write.Name),
		SSLMode:  config.DB.Postgres.Write.SSLMode,
		Timezone: config.DB.Postgres.Write.Timezone,
	}
}

func ReadDSN(config config.Config) DSN {
	return DSN{
		Username: config.DB.Postgres.Read.Username,
		Password: config.DB.Postgres.Read.Password,
		Host:     config.DB.Postgres.Read.Host,
		Port:     config.DB.Postgres.Read.Port,
		Name:     getDBName(config, config.DB.Postgres.Read.Name),
		SSLMode:  config.DB.Postgres.Read.SSLMode,
		Timezone: config.DB.Postgres.Read.Timezone,
	}
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) *sqlx.DB {
	return CreatePostgresConnection("write", WriteDSN(config), config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(config config.Config) *sqlx.DB {
	return CreatePostgresConnection("read", ReadDSN(config), config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
}

// CreatePostgresConnection creates a database connection, retrying up to maxRetry times.
func CreatePostgresConnection(name string, dsn DSN, maxRetry, waitTime int) *sqlx.DB {
	logger := log.With().
		Str("name", name).
		Str("host", dsn.Host).
		Str("port", dsn.Port).
		Str("dbName", dsn.Name).
		Logger()

	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", dsn.String())
		if err == nil {
			logger.Info().Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			return sqlDB
		}

		logger.Error().Err(err).Int("attempt", retry+1).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil
}
