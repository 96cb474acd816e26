package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect selects the SQL flavour a DB speaks.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// DB is a database handle that knows its dialect. Repositories write queries
// with "?" placeholders and rebind them through the DB.
type DB struct {
	*sql.DB
	dialect Dialect
}

// New opens a SQLite database at the given path and applies connection pool
// settings.
func New(path string) (*DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return configure(db, DialectSQLite)
}

// NewPostgres opens a Postgres database through the pgx stdlib driver.
func NewPostgres(dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return configure(db, DialectPostgres)
}

// Open opens a database for the named driver ("sqlite" or "postgres").
func Open(driver, path, dsn string) (*DB, error) {
	switch driver {
	case "", "sqlite", "sqlite3":
		return New(path)
	case "postgres", "pgx":
		return NewPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func configure(db *sql.DB, dialect Dialect) (*DB, error) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{DB: db, dialect: dialect}, nil
}

// Dialect returns the SQL dialect of the database.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Rebind rewrites "?" placeholders into the dialect's bind style.
func (db *DB) Rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate creates the tables and indexes. It is idempotent.
func Migrate(db *DB) error {
	var schema []string
	switch db.dialect {
	case DialectPostgres:
		schema = []string{
			`CREATE TABLE IF NOT EXISTS memory_records (
				seq BIGSERIAL PRIMARY KEY,
				id TEXT NOT NULL UNIQUE,
				tenant_id TEXT NOT NULL,
				type TEXT NOT NULL,
				content TEXT NOT NULL,
				metadata TEXT NOT NULL DEFAULT '{}',
				status TEXT NOT NULL DEFAULT 'active',
				source_id TEXT NOT NULL DEFAULT '',
				conversation_id TEXT NOT NULL DEFAULT '',
				message_id TEXT NOT NULL DEFAULT '',
				document_id TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS memory_vectors (
				seq BIGSERIAL PRIMARY KEY,
				id TEXT NOT NULL UNIQUE,
				tenant_id TEXT NOT NULL,
				domain TEXT NOT NULL,
				source_type TEXT NOT NULL,
				source_id TEXT NOT NULL,
				chunk_index INTEGER NOT NULL,
				content TEXT NOT NULL,
				embedding BYTEA NOT NULL,
				metadata TEXT NOT NULL DEFAULT '{}',
				created_at TEXT NOT NULL
			);`,
		}
	default:
		schema = []string{
			`CREATE TABLE IF NOT EXISTS memory_records (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				id TEXT NOT NULL UNIQUE,
				tenant_id TEXT NOT NULL,
				type TEXT NOT NULL,
				content TEXT NOT NULL,
				metadata TEXT NOT NULL DEFAULT '{}',
				status TEXT NOT NULL DEFAULT 'active',
				source_id TEXT NOT NULL DEFAULT '',
				conversation_id TEXT NOT NULL DEFAULT '',
				message_id TEXT NOT NULL DEFAULT '',
				document_id TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS memory_vectors (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				id TEXT NOT NULL UNIQUE,
				tenant_id TEXT NOT NULL,
				domain TEXT NOT NULL,
				source_type TEXT NOT NULL,
				source_id TEXT NOT NULL,
				chunk_index INTEGER NOT NULL,
				content TEXT NOT NULL,
				embedding BLOB NOT NULL,
				metadata TEXT NOT NULL DEFAULT '{}',
				created_at TEXT NOT NULL
			);`,
		}
	}

	schema = append(schema,
		`CREATE INDEX IF NOT EXISTS idx_memory_records_tenant ON memory_records (tenant_id, type);`,
		`CREATE INDEX IF NOT EXISTS idx_memory_records_conversation ON memory_records (tenant_id, conversation_id);`,
		`DROP INDEX IF EXISTS idx_memory_vectors_position;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_memory_vectors_chunk ON memory_vectors (tenant_id, source_id, chunk_index);`,
		`CREATE INDEX IF NOT EXISTS idx_memory_vectors_scan ON memory_vectors (tenant_id, domain);`,
	)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
