package database

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"roundrobin-tracker/internal/config"
	"roundrobin-tracker/internal/constants"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// driverName is go-sqlite3 with connPragmas applied to every new connection.
const driverName = "sqlite3_roundrobin"

// connPragmas have no DSN key in go-sqlite3 and only affect the connection
// that runs them.
var connPragmas = []struct {
	name  string
	value string
}{
	{"cache_size", "-64000"},
	{"temp_store", "MEMORY"},
	{"mmap_size", "268435456"}, // 256MB https://sqlite.org/mmap.html
}

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{ConnectHook: tuneConn})
}

func tuneConn(conn *sqlite3.SQLiteConn) error {
	for _, pragma := range connPragmas {
		if _, err := conn.Exec(fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value), nil); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
	}
	return nil
}

func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("path", cfg.DBPath).Msg("connecting to database")

	db, err := sql.Open(driverName, dsn(cfg.DBPath))
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	if err := db.Ping(); err != nil {
		logger.Error().Err(err).Msg("failed to open SQLite connection")
		db.Close()
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	if err := runMigrations(db, logger); err != nil {
		logger.Error().Err(err).Msg("failed to run migrations")
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database connection established")
	return db, nil
}

func runMigrations(db *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	logger.Info().Msg("migrations completed successfully")
	return nil
}

// dsn adds the settings go-sqlite3 applies to every pooled connection.
// Write transactions take the lock up front so concurrent reconciliations
// queue on busy_timeout instead of failing on lock upgrade.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + dsnParams
}

const dsnParams = "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate"
