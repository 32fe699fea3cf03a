package store

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := OpenDB(db, "sqlite")
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLStore_HandlersRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().ExecContext(ctx,
		`INSERT INTO handler (id, send_spec, send_ident, recv_spec, recv_ident, raw_payload, protocol)
		 VALUES (1, 'tcp://a:1', 'X', 'tcp://a:2', 'X', '1', 'tnet')`)
	require.NoError(t, err)

	rows, err := s.Handlers(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, "tcp://a:1", rows[0].SendSpec)

	opts, ok, err := s.HandlerOptions(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", opts.RawPayload)
	assert.Equal(t, "tnet", opts.Protocol)

	_, ok, err = s.HandlerOptions(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLStore_ServerHostRouteGraph(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	db := s.DB()

	_, err := db.ExecContext(ctx,
		`INSERT INTO handler (id, send_spec, send_ident, recv_spec, recv_ident)
		 VALUES (1, 'tcp://a:1', 'X', 'tcp://a:2', 'X')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO server (id, uuid, default_host, bind_addr, port, chroot, access_log, error_log, pid_file)
		 VALUES (1, 'uuid-A', 'd.example', '0.0.0.0', '8080', '', '', '', '')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO host (id, name, matching, server_id) VALUES (1, 'd.example', '.*', 1)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO route (id, path, target_id, target_type, host_id) VALUES (1, '/', '1', 'handler', 1)`)
	require.NoError(t, err)

	servers, err := s.Servers(ctx, "uuid-A")
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "d.example", servers[0].DefaultHost)

	hosts, err := s.Hosts(ctx, servers[0].ID)
	require.NoError(t, err)
	require.Len(t, hosts, 1)

	routes, err := s.Routes(ctx, hosts[0].ID, servers[0].ID)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "/", routes[0].Path)
	assert.Equal(t, "handler", routes[0].TargetType)
	assert.Equal(t, "1", routes[0].TargetID)
}

func TestSQLStore_DuplicateServerUUIDReturnsBothRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	db := s.DB()

	_, err := db.ExecContext(ctx,
		`INSERT INTO server (id, uuid, default_host, bind_addr, port, chroot, access_log, error_log, pid_file)
		 VALUES (1, 'dupe', 'a', 'x', '1', '', '', '', '')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO server (id, uuid, default_host, bind_addr, port, chroot, access_log, error_log, pid_file)
		 VALUES (2, 'dupe', 'b', 'y', '2', '', '', '', '')`)
	require.NoError(t, err)

	rows, err := s.Servers(ctx, "dupe")
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestSQLStore_MimeTypesAndSettings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	db := s.DB()

	_, err := db.ExecContext(ctx, `INSERT INTO mimetype (id, extension, mimetype) VALUES (1, '.html', 'text/html')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO setting (id, key, value) VALUES (1, 'timeout', '30')`)
	require.NoError(t, err)

	mimes, err := s.MimeTypes(ctx)
	require.NoError(t, err)
	require.Len(t, mimes, 1)
	assert.Equal(t, ".html", mimes[0].Extension)

	settings, err := s.Settings(ctx)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "timeout", settings[0].Key)
}

func TestDriverFor(t *testing.T) {
	cases := []struct {
		dsn        string
		wantDriver string
		wantDSN    string
	}{
		{"postgres://u:p@host/db", "postgres", "postgres://u:p@host/db"},
		{"postgresql://u:p@host/db", "postgres", "postgresql://u:p@host/db"},
		{"sqlite:///tmp/x.db", "sqlite", "/tmp/x.db"},
		{"file:gatewayd.db?_pragma=foreign_keys(1)", "sqlite", "file:gatewayd.db?_pragma=foreign_keys(1)"},
		{":memory:", "sqlite", ":memory:"},
	}
	for _, c := range cases {
		driver, dsn := driverFor(c.dsn)
		assert.Equal(t, c.wantDriver, driver, c.dsn)
		assert.Equal(t, c.wantDSN, dsn, c.dsn)
	}
}
