package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/pable/go-hockey-xg/internal/log"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// ErrSeasonNotFound is returned when a season has not been built.
var ErrSeasonNotFound = errors.New("season not found")

// DB wraps a sql.DB for the shot feature store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// pending migrations.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Every connection to ":memory:" opens a separate database.
	conn.SetMaxOpenConns(1)

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return &DB{conn: conn}, nil
}

func migrate(conn *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(log.GooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.Up(conn, "migrations")
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
