package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL flavour behind a connection
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "pgx"
)

// DB wraps a connection pool together with its dialect
type DB struct {
	*sql.DB
	Dialect Dialect
}

// ParseDSN maps a connection string onto a driver dialect and the DSN the
// driver expects. Strings without a known scheme are treated as SQLite paths.
func ParseDSN(conn string) (Dialect, string, error) {
	conn = strings.TrimSpace(conn)
	if conn == "" {
		return "", "", fmt.Errorf("empty connection string")
	}

	switch {
	case strings.HasPrefix(conn, "postgres://"), strings.HasPrefix(conn, "postgresql://"):
		return DialectPostgres, conn, nil
	case strings.HasPrefix(conn, "sqlite://"):
		return DialectSQLite, sqliteDSN(strings.TrimPrefix(conn, "sqlite://")), nil
	case strings.HasPrefix(conn, "file:"):
		return DialectSQLite, sqliteDSN(conn), nil
	case strings.Contains(conn, "://"):
		return "", "", fmt.Errorf("unsupported connection string scheme: %s", conn[:strings.Index(conn, "://")])
	default:
		return DialectSQLite, sqliteDSN(conn), nil
	}
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// OpenDB opens and pings the database behind the connection string
func OpenDB(conn string) (*DB, error) {
	dialect, dsn, err := ParseDSN(conn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// InitializeDatabase opens the database connection and runs migrations
func InitializeDatabase(conn string) (*DB, error) {
	db, err := OpenDB(conn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Rebind rewrites ? placeholders into the dialect's bind syntax
func (db *DB) Rebind(query string) string {
	if db.Dialect != DialectPostgres {
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
