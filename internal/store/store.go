// Package store wraps the relational configuration database behind a
// small typed interface. It replaces the callback-driven SQL pattern
// of the original implementation with row-iterator functions, per
// Design Note "Callback-driven SQL": each of the loader's fixed
// queries gets its own function returning typed rows instead of a
// positional (column_count, values[], names[]) callback.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/wireproxy/gatewayd/internal/backend"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store is the relational read surface the Loader depends on. The
// loader never issues raw SQL itself — every query it needs is a
// method here.
type Store interface {
	Handlers(ctx context.Context) ([]HandlerRow, error)
	HandlerOptions(ctx context.Context, handlerID int64) (HandlerOptionsRow, bool, error)
	Proxies(ctx context.Context) ([]ProxyRow, error)
	Directories(ctx context.Context) ([]DirectoryRow, error)
	Servers(ctx context.Context, uuid string) ([]ServerRow, error)
	Hosts(ctx context.Context, serverID int64) ([]HostRow, error)
	Routes(ctx context.Context, hostID, serverID int64) ([]RouteRow, error)
	MimeTypes(ctx context.Context) ([]MimeTypeRow, error)
	Settings(ctx context.Context) ([]SettingRow, error)
	Close() error
}

// SQLStore implements Store over database/sql, with the driver chosen
// from the DSN scheme: "postgres://" selects lib/pq, everything else
// (a bare path, "file:", or "sqlite:") selects modernc.org/sqlite.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// Open opens the store and pings it. Callers own the returned
// *SQLStore and must Close it.
func Open(ctx context.Context, dsn string) (*SQLStore, error) {
	driverName, dataSourceName := driverFor(dsn)

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, backend.StorageErrorf(err, "opening store with driver %q", driverName)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, backend.StorageErrorf(err, "connecting to store with driver %q", driverName)
	}
	return &SQLStore{db: db, driver: driverName}, nil
}

// OpenDB wraps an already-opened *sql.DB, e.g. an in-memory sqlite
// database set up by a test. driverName selects the placeholder style
// (see placeholders) and must match how db was opened.
func OpenDB(db *sql.DB, driverName string) *SQLStore {
	return &SQLStore{db: db, driver: driverName}
}

// placeholders returns n positional placeholders in the style the
// underlying driver expects: lib/pq wants "$1, $2, ...", modernc's
// sqlite driver accepts the ANSI "?" form.
func (s *SQLStore) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if s.driver == "postgres" {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

func (s *SQLStore) Close() error { return s.db.Close() }

// DB returns the underlying *sql.DB, for the migration runner.
func (s *SQLStore) DB() *sql.DB { return s.db }

func driverFor(dsn string) (driverName, dataSourceName string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://")
	default:
		return "sqlite", dsn
	}
}
