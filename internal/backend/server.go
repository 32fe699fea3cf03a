package backend

// Route is a path prefix bound to a backend. The TargetType/TargetID
// pair is what the route names in configuration; Backend is the
// resolved, non-owning reference filled in once the loader has found
// the entry in the registry.
type Route struct {
	Path       string
	TargetType Type
	TargetID   string
	Backend    Backend
}

// Host is a virtual host: a name, a matching pattern, and its routes
// in declaration order. Route lookup by longest-prefix match is a
// concern of the (out-of-scope) request-serving path, not of the
// loader — Routes is kept in declaration order so that collaborator
// can apply its own matching policy.
type Host struct {
	Name     string
	Matching string
	Routes   []*Route
}

// AddRoute appends a route to the host.
func (h *Host) AddRoute(r *Route) {
	h.Routes = append(h.Routes, r)
}

// Server is the root of one configured object tree: the set of Hosts
// serving it and a non-owning pointer to whichever Host matches
// DefaultHostName, if any.
type Server struct {
	ID             int64
	UUID           string
	DefaultHost    string
	BindAddr       string
	Port           int
	Chroot         string
	AccessLog      string
	ErrorLog       string
	PIDFile        string
	Hosts          []*Host
	DefaultHostRef *Host

	// MimeTypes and Settings are supplemented load-time data (see
	// SPEC_FULL §11.6): loaded alongside the core graph, consulted by
	// the out-of-scope request-serving path, not by the loader itself.
	MimeTypes map[string]string
	Settings  map[string]string
}

// AddHost appends host to the server's host set and, if its name
// matches the server's configured default hostname, wires it as the
// default host. Returns an error if a default host is already set —
// the Loader is responsible for surfacing that as a fatal
// ConfigIntegrityError.
func (s *Server) AddHost(h *Host) error {
	s.Hosts = append(s.Hosts, h)
	if h.Name == s.DefaultHost {
		if s.DefaultHostRef != nil {
			return IntegrityErrorf(
				"more than one host matches default host %q: already have %q, also got %q",
				s.DefaultHost, s.DefaultHostRef.Matching, h.Matching)
		}
		s.DefaultHostRef = h
	}
	return nil
}
