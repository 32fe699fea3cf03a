// Package loader populates a registry.Registry and a backend.Server
// tree from a store.Store in a single pass of reads, and supports
// reloading the same configuration without losing already-running
// backend identity. The algorithm and its phase order are grounded
// directly in the original Config_load_server call chain: handlers,
// then proxies, then directories, then the server (which loads its
// hosts, which load their routes).
package loader

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wireproxy/gatewayd/internal/backend"
	"github.com/wireproxy/gatewayd/internal/registry"
	"github.com/wireproxy/gatewayd/internal/store"
)

// Loader reads configuration from a Store and populates a Registry.
type Loader struct {
	Store    store.Store
	Registry *registry.Registry
	Logger   *zap.SugaredLogger

	// StrictDuplicateServer turns a second server row sharing a uuid
	// into a fatal ConfigIntegrityError instead of the default
	// "keep last, log a warning" behavior. See SPEC_FULL §12.
	StrictDuplicateServer bool
}

// New builds a Loader. logger may be nil, in which case a no-op
// logger is used.
func New(st store.Store, reg *registry.Registry, logger *zap.SugaredLogger) *Loader {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Loader{Store: st, Registry: reg, Logger: logger}
}

// Load runs the full seven-step algorithm for the server identified by
// uuid and returns the constructed Server tree. On any fatal error, no
// Server is returned; entries already interned in earlier phases are
// left in place (with active=false, so a subsequent start pass will
// not start them) per the spec's failure model.
//
// Load always starts by clearing every existing entry's active flag
// (Registry.ResetActive), so that route resolution below recomputes
// active from scratch against the freshly read configuration: a
// backend this load's routes still reference is reactivated by
// ActivateByPrefix, one that no longer has a route stays inactive.
// This is what lets a reload diff against the previous load instead of
// tearing everything down first — see Reload.
func (l *Loader) Load(ctx context.Context, uuid string) (*backend.Server, error) {
	l.Registry.ResetActive()

	if err := l.loadHandlers(ctx); err != nil {
		return nil, err
	}
	if err := l.loadProxies(ctx); err != nil {
		return nil, err
	}
	if err := l.loadDirectories(ctx); err != nil {
		return nil, err
	}

	srv, err := l.loadServer(ctx, uuid)
	if err != nil {
		return nil, err
	}

	mimes, err := l.Store.MimeTypes(ctx)
	if err != nil {
		return nil, err
	}
	srv.MimeTypes = make(map[string]string, len(mimes))
	for _, m := range mimes {
		srv.MimeTypes[m.Extension] = m.MimeType
	}

	settings, err := l.Store.Settings(ctx)
	if err != nil {
		return nil, err
	}
	srv.Settings = make(map[string]string, len(settings))
	for _, s := range settings {
		srv.Settings[s.Key] = s.Value
	}

	if err := l.loadHosts(ctx, srv); err != nil {
		return nil, err
	}

	return srv, nil
}

// loadHandlers is step 1.
func (l *Loader) loadHandlers(ctx context.Context) error {
	rows, err := l.Store.Handlers(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		key := backend.Key(backend.TypeHandler, strconv.FormatInt(row.ID, 10),
			row.SendSpec, row.SendIdent, row.RecvSpec, row.RecvIdent)

		if entry, ok := l.Registry.LookupExact(key); ok {
			if _, ok := entry.Backend.(*backend.Handler); !ok {
				return backend.IntegrityErrorf("key %q exists but is not a Handler", key)
			}
			// running is left untouched here: start_handlers sets it
			// once route resolution reactivates this entry, not before.
			continue
		}

		h := backend.NewHandler(row.ID, row.SendSpec, row.SendIdent, row.RecvSpec, row.RecvIdent)

		opts, ok, err := l.Store.HandlerOptions(ctx, row.ID)
		if err != nil {
			return err
		}
		if !ok {
			l.Logger.Warnw("handler options missing, using defaults", "handler_id", row.ID)
		} else {
			applyHandlerOptions(h, opts, l.Logger)
		}

		if err := l.Registry.Insert(key, h); err != nil {
			return backend.IntegrityErrorf("inserting handler %d: %v", row.ID, err)
		}
	}
	return nil
}

// applyHandlerOptions interprets the raw_payload/protocol textual
// cells exactly as the original does: raw_payload '1' -> true,
// '0' -> false, anything else -> true with a warning; protocol
// starting with 't' -> tnet, else json.
func applyHandlerOptions(h *backend.Handler, opts store.HandlerOptionsRow, logger *zap.SugaredLogger) {
	switch {
	case opts.RawPayload == "1":
		h.Raw = true
	case opts.RawPayload == "0":
		h.Raw = false
	default:
		logger.Warnw("handler has unusual raw_payload setting, assuming raw",
			"handler_id", opts.ID, "raw_payload", opts.RawPayload)
		h.Raw = true
	}

	if len(opts.Protocol) > 0 && opts.Protocol[0] == 't' {
		h.Protocol = backend.ProtocolTNet
	} else {
		h.Protocol = backend.ProtocolJSON
	}
}

// loadProxies is step 2.
func (l *Loader) loadProxies(ctx context.Context) error {
	rows, err := l.Store.Proxies(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		key := backend.Key(backend.TypeProxy, strconv.FormatInt(row.ID, 10), row.Addr, row.Port)

		if entry, ok := l.Registry.LookupExact(key); ok {
			if _, ok := entry.Backend.(*backend.Proxy); !ok {
				return backend.IntegrityErrorf("key %q exists but is not a Proxy", key)
			}
			// running is restored by ActivateByPrefix if a route still
			// references this entry, not unconditionally here.
			continue
		}

		port, err := strconv.Atoi(row.Port)
		if err != nil {
			return backend.IntegrityErrorf("proxy %d has non-numeric port %q", row.ID, row.Port)
		}

		p := backend.NewProxy(row.ID, row.Addr, port)
		if err := l.Registry.Insert(key, p); err != nil {
			return backend.IntegrityErrorf("inserting proxy %d: %v", row.ID, err)
		}
	}
	return nil
}

// loadDirectories is step 3.
func (l *Loader) loadDirectories(ctx context.Context) error {
	rows, err := l.Store.Directories(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		cacheTTL := 0
		if row.CacheTTL != nil {
			parsed, err := strconv.Atoi(*row.CacheTTL)
			if err != nil {
				return backend.IntegrityErrorf("directory %d has non-numeric cache_ttl %q", row.ID, *row.CacheTTL)
			}
			cacheTTL = parsed
		}

		// All five queried columns fold into the key, cache_ttl included,
		// matching cols_to_key("dir", ...) in the original — a reload
		// that only changes cache_ttl must be treated as a new backend.
		key := backend.Key(backend.TypeDirectory, strconv.FormatInt(row.ID, 10),
			row.Base, row.IndexFile, row.DefaultContentType, strconv.Itoa(cacheTTL))

		if entry, ok := l.Registry.LookupExact(key); ok {
			if _, ok := entry.Backend.(*backend.Directory); !ok {
				return backend.IntegrityErrorf("key %q exists but is not a Directory", key)
			}
			// running is restored by ActivateByPrefix if a route still
			// references this entry, not unconditionally here.
			continue
		}

		d := backend.NewDirectory(row.ID, row.Base, row.IndexFile, row.DefaultContentType, cacheTTL)
		if err := l.Registry.Insert(key, d); err != nil {
			return backend.IntegrityErrorf("inserting directory %d: %v", row.ID, err)
		}
	}
	return nil
}

// loadServer is step 4: select the server row(s) matching uuid. More
// than one match keeps the last and logs, unless StrictDuplicateServer
// is set, in which case it is fatal.
func (l *Loader) loadServer(ctx context.Context, uuid string) (*backend.Server, error) {
	rows, err := l.Store.Servers(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, backend.IntegrityErrorf("no server found with uuid %q", uuid)
	}
	if len(rows) > 1 {
		if l.StrictDuplicateServer {
			return nil, backend.IntegrityErrorf("more than one server row matches uuid %q", uuid)
		}
		l.Logger.Warnw("more than one server row matches uuid, using last", "uuid", uuid, "count", len(rows))
	}

	row := rows[len(rows)-1]
	port, err := strconv.Atoi(row.Port)
	if err != nil {
		return nil, backend.IntegrityErrorf("server %q has non-numeric port %q", uuid, row.Port)
	}

	return &backend.Server{
		ID:          row.ID,
		UUID:        row.UUID,
		DefaultHost: row.DefaultHost,
		BindAddr:    row.BindAddr,
		Port:        port,
		Chroot:      row.Chroot,
		AccessLog:   row.AccessLog,
		ErrorLog:    row.ErrorLog,
		PIDFile:     row.PIDFile,
	}, nil
}

// loadHosts is step 5/6/7: load the server's hosts, and for each host
// its routes, resolving each route's backend reference and marking it
// active. A second host matching the default hostname is fatal.
//
// Per-host route loading has no ordering requirement between Hosts
// (§5: "Handlers, Proxies, Dirs complete before any Server/Host/Route
// loading begins" — nothing says Hosts must serialize against each
// other), so it fans out across an errgroup. Hosts are still attached
// to the Server sequentially, in query order, once every fan-out
// branch has finished, so default-host detection stays deterministic.
func (l *Loader) loadHosts(ctx context.Context, srv *backend.Server) error {
	rows, err := l.Store.Hosts(ctx, srv.ID)
	if err != nil {
		return err
	}

	hosts := make([]*backend.Host, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			host := &backend.Host{Name: row.Name, Matching: row.Matching}
			if err := l.loadRoutes(gctx, host, row.ID, srv.ID); err != nil {
				return err
			}
			hosts[i] = host
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, host := range hosts {
		if err := srv.AddHost(host); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadRoutes(ctx context.Context, host *backend.Host, hostID, serverID int64) error {
	rows, err := l.Store.Routes(ctx, hostID, serverID)
	if err != nil {
		return err
	}

	for _, row := range rows {
		typ := backend.Type(row.TargetType)
		prefix := backend.KeyPrefix(typ, row.TargetID)

		entry, ok := l.Registry.ActivateByPrefix(prefix)
		if !ok {
			return backend.IntegrityErrorf(
				"route %q: no backend found for %s:%s", row.Path, row.TargetType, row.TargetID)
		}

		host.AddRoute(&backend.Route{
			Path:       row.Path,
			TargetType: typ,
			TargetID:   row.TargetID,
			Backend:    entry.Backend,
		})
	}
	return nil
}
