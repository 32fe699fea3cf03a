package registry

import "github.com/wireproxy/gatewayd/internal/backend"

// HandlerStarter is implemented by anything that can take over a
// Handler once it is marked running — the external cooperative task
// scheduler named in the concurrency model. internal/worker.Scheduler
// implements this.
type HandlerStarter interface {
	Start(h *backend.Handler)
}

// StartHandlers walks the registry and, for every Handler entry that
// is active but not yet running, hands it to starter and marks it
// running. Non-Handler backends and inactive entries are skipped —
// only Handlers have an external task to spawn.
func (r *Registry) StartHandlers(starter HandlerStarter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.Type != backend.TypeHandler || !e.Backend.IsActive() || e.Backend.IsRunning() {
			continue
		}
		h, ok := e.Backend.(*backend.Handler)
		if !ok {
			continue
		}
		starter.Start(h)
		h.SetRunning(true)
	}
}

// StopAll walks the registry and, for every active entry regardless of
// type, marks it not-running and not-active. Already-inactive entries
// are left alone — they are already quiesced. This is full teardown,
// used at process shutdown; a reload must not use it, since it would
// stop every running Handler indiscriminately instead of only the
// ones the new configuration no longer references — see StopInactive.
func (r *Registry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if !e.Backend.IsActive() {
			continue
		}
		e.Backend.SetRunning(false)
		e.Backend.SetActive(false)
	}
}

// ResetActive clears the active flag on every entry, leaving running
// untouched. The Loader calls this at the start of every Load so that
// route resolution starts from a clean slate: a backend rediscovered
// by the new configuration is reactivated by ActivateByPrefix, and one
// that is no longer referenced by any route simply stays inactive —
// without this reset it would still read active=true from the
// previous load, since phases 1-3 reuse an existing entry without
// touching its active flag.
func (r *Registry) ResetActive() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		e.Backend.SetActive(false)
	}
}

// StopInactive walks the registry and, for every entry that came out
// of a Load not active but still running, clears running — the
// cooperative stop signal a backend no longer referenced by the
// current configuration needs. Entries that are active, or already
// not running, are left alone.
//
// This is the other half of what makes reload a diff instead of a
// blanket stop-all-then-respawn: called after Load (not before, and
// never via StopAll), it only tears down backends the new
// configuration dropped. A Handler still referenced across reload
// never has its running flag cleared, so StartHandlers never
// re-spawns its task — the running state, and the task, survive the
// reload (spec invariant 5).
func (r *Registry) StopInactive() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.Backend.IsActive() || !e.Backend.IsRunning() {
			continue
		}
		e.Backend.SetRunning(false)
	}
}
