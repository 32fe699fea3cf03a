package loader

import (
	"context"

	"github.com/wireproxy/gatewayd/internal/backend"
	"github.com/wireproxy/gatewayd/internal/registry"
)

// Reload performs Load, then diffs the result against what was
// running before: StopInactive tears down only the backends the new
// configuration no longer references, and StartHandlers spawns tasks
// only for the ones newly referenced. A Handler routed both before and
// after reload is touched by neither — its running flag, and its
// task, survive untouched (spec invariant 5: "its running state
// survives the reload").
//
// This deliberately does not call StopAll first. Load already resets
// every entry's active flag and recomputes it from the freshly read
// routes (see Load's ResetActive), so by the time Reload gets control
// the registry already knows, precisely, which backends survived and
// which didn't — blanket-stopping everything up front would tear down
// and respawn every surviving Handler's task on every reload, which is
// exactly the restart the "reload without restart" requirement rules
// out.
func (l *Loader) Reload(ctx context.Context, uuid string, starter registry.HandlerStarter) (*backend.Server, error) {
	srv, err := l.Load(ctx, uuid)
	if err != nil {
		return nil, err
	}

	l.Registry.StopInactive()
	l.Registry.StartHandlers(starter)
	return srv, nil
}
