package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wireproxy/gatewayd/internal/backend"
)

// Handlers runs query 1.
func (s *SQLStore) Handlers(ctx context.Context) ([]HandlerRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, send_spec, send_ident, recv_spec, recv_ident FROM handler`)
	if err != nil {
		return nil, backend.StorageErrorf(err, "querying handlers")
	}
	defer rows.Close()

	var out []HandlerRow
	for rows.Next() {
		var r HandlerRow
		if err := rows.Scan(&r.ID, &r.SendSpec, &r.SendIdent, &r.RecvSpec, &r.RecvIdent); err != nil {
			return nil, backend.StorageErrorf(err, "scanning handler row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.StorageErrorf(err, "iterating handler rows")
	}
	return out, nil
}

// HandlerOptions runs query 2. A missing row is reported via the
// second return value, not an error — the loader treats that as a
// warning-and-default condition, per spec §4.2.
func (s *SQLStore) HandlerOptions(ctx context.Context, handlerID int64) (HandlerOptionsRow, bool, error) {
	var r HandlerOptionsRow
	var rawPayload, protocol sql.NullString

	query := fmt.Sprintf(`SELECT id, raw_payload, protocol FROM handler WHERE id = %s`, s.placeholders(1)[0])
	err := s.db.QueryRowContext(ctx, query, handlerID).Scan(&r.ID, &rawPayload, &protocol)

	if err == sql.ErrNoRows {
		return HandlerOptionsRow{}, false, nil
	}
	if err != nil {
		return HandlerOptionsRow{}, false, backend.StorageErrorf(err, "querying handler options for id %d", handlerID)
	}

	r.RawPayload = rawPayload.String
	r.Protocol = protocol.String
	return r, true, nil
}

// Proxies runs query 3.
func (s *SQLStore) Proxies(ctx context.Context) ([]ProxyRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, addr, port FROM proxy`)
	if err != nil {
		return nil, backend.StorageErrorf(err, "querying proxies")
	}
	defer rows.Close()

	var out []ProxyRow
	for rows.Next() {
		var r ProxyRow
		if err := rows.Scan(&r.ID, &r.Addr, &r.Port); err != nil {
			return nil, backend.StorageErrorf(err, "scanning proxy row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.StorageErrorf(err, "iterating proxy rows")
	}
	return out, nil
}

// Directories runs query 4.
func (s *SQLStore) Directories(ctx context.Context) ([]DirectoryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, base, index_file, default_ctype, cache_ttl FROM directory`)
	if err != nil {
		return nil, backend.StorageErrorf(err, "querying directories")
	}
	defer rows.Close()

	var out []DirectoryRow
	for rows.Next() {
		var r DirectoryRow
		var cacheTTL sql.NullString
		if err := rows.Scan(&r.ID, &r.Base, &r.IndexFile, &r.DefaultContentType, &cacheTTL); err != nil {
			return nil, backend.StorageErrorf(err, "scanning directory row")
		}
		if cacheTTL.Valid {
			r.CacheTTL = &cacheTTL.String
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.StorageErrorf(err, "iterating directory rows")
	}
	return out, nil
}

// Servers runs query 5. It returns every matching row (ordinarily one)
// so the loader can implement the "duplicate uuid: keep last, log"
// policy itself.
func (s *SQLStore) Servers(ctx context.Context, uuid string) ([]ServerRow, error) {
	query := fmt.Sprintf(
		`SELECT id, uuid, default_host, bind_addr, port, chroot, access_log, error_log, pid_file
		 FROM server WHERE uuid = %s`, s.placeholders(1)[0])
	rows, err := s.db.QueryContext(ctx, query, uuid)
	if err != nil {
		return nil, backend.StorageErrorf(err, "querying server %q", uuid)
	}
	defer rows.Close()

	var out []ServerRow
	for rows.Next() {
		var r ServerRow
		if err := rows.Scan(&r.ID, &r.UUID, &r.DefaultHost, &r.BindAddr, &r.Port,
			&r.Chroot, &r.AccessLog, &r.ErrorLog, &r.PIDFile); err != nil {
			return nil, backend.StorageErrorf(err, "scanning server row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.StorageErrorf(err, "iterating server rows")
	}
	return out, nil
}

// Hosts runs query 6.
func (s *SQLStore) Hosts(ctx context.Context, serverID int64) ([]HostRow, error) {
	query := fmt.Sprintf(`SELECT id, name, matching, server_id FROM host WHERE server_id = %s`,
		s.placeholders(1)[0])
	rows, err := s.db.QueryContext(ctx, query, serverID)
	if err != nil {
		return nil, backend.StorageErrorf(err, "querying hosts for server %d", serverID)
	}
	defer rows.Close()

	var out []HostRow
	for rows.Next() {
		var r HostRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Matching, &r.ServerID); err != nil {
			return nil, backend.StorageErrorf(err, "scanning host row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.StorageErrorf(err, "iterating host rows")
	}
	return out, nil
}

// Routes runs query 7.
func (s *SQLStore) Routes(ctx context.Context, hostID, serverID int64) ([]RouteRow, error) {
	ph := s.placeholders(2)
	query := fmt.Sprintf(
		`SELECT route.id, route.path, route.target_id, route.target_type
		 FROM route, host
		 WHERE host.id = %s AND host.server_id = %s AND host.id = route.host_id`,
		ph[0], ph[1])
	rows, err := s.db.QueryContext(ctx, query, hostID, serverID)
	if err != nil {
		return nil, backend.StorageErrorf(err, "querying routes for host %d", hostID)
	}
	defer rows.Close()

	var out []RouteRow
	for rows.Next() {
		var r RouteRow
		if err := rows.Scan(&r.ID, &r.Path, &r.TargetID, &r.TargetType); err != nil {
			return nil, backend.StorageErrorf(err, "scanning route row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.StorageErrorf(err, "iterating route rows")
	}
	return out, nil
}

// MimeTypes runs the supplemented mimetype query (§11.6).
func (s *SQLStore) MimeTypes(ctx context.Context) ([]MimeTypeRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, extension, mimetype FROM mimetype`)
	if err != nil {
		return nil, backend.StorageErrorf(err, "querying mimetypes")
	}
	defer rows.Close()

	var out []MimeTypeRow
	for rows.Next() {
		var r MimeTypeRow
		if err := rows.Scan(&r.ID, &r.Extension, &r.MimeType); err != nil {
			return nil, backend.StorageErrorf(err, "scanning mimetype row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.StorageErrorf(err, "iterating mimetype rows")
	}
	return out, nil
}

// Settings runs the supplemented setting query (§11.6).
func (s *SQLStore) Settings(ctx context.Context) ([]SettingRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, key, value FROM setting`)
	if err != nil {
		return nil, backend.StorageErrorf(err, "querying settings")
	}
	defer rows.Close()

	var out []SettingRow
	for rows.Next() {
		var r SettingRow
		if err := rows.Scan(&r.ID, &r.Key, &r.Value); err != nil {
			return nil, backend.StorageErrorf(err, "scanning setting row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.StorageErrorf(err, "iterating setting rows")
	}
	return out, nil
}
