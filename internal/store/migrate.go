package store

import (
	"bytes"
	"context"
	"log"

	"github.com/pressly/goose/v3"

	"github.com/wireproxy/gatewayd/internal/backend"
)

// Migrate applies every pending migration embedded in migrations/.
// The dialect is derived from the driver the store was opened with.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.setGooseDialect(); err != nil {
		return err
	}

	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)

	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return backend.StorageErrorf(err, "applying migrations")
	}
	return nil
}

// MigrationStatus reports each migration's applied state as the text
// goose prints for its status command.
func (s *SQLStore) MigrationStatus(ctx context.Context) (string, error) {
	if err := s.setGooseDialect(); err != nil {
		return "", err
	}

	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)

	var buf bytes.Buffer
	goose.SetLogger(log.New(&buf, "", 0))
	defer goose.SetLogger(log.Default())
	if err := goose.StatusContext(ctx, s.db, "migrations"); err != nil {
		return "", backend.StorageErrorf(err, "reading migration status")
	}
	return buf.String(), nil
}

func (s *SQLStore) setGooseDialect() error {
	dialect := "sqlite3"
	if s.driver == "postgres" {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return backend.StorageErrorf(err, "setting migration dialect %q", dialect)
	}
	return nil
}
