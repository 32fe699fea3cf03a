// Package backend defines the configured object graph that the loader
// populates and the registry interns: Handler, Proxy and Directory
// backends, and the Server/Host/Route tree that references them.
package backend

import (
	"strconv"
	"sync/atomic"
)

// Type identifies which of the three backend kinds a value is. It is
// the first component of every registry key.
type Type string

const (
	TypeHandler   Type = "handler"
	TypeProxy     Type = "proxy"
	TypeDirectory Type = "dir"
)

// Protocol is a Handler's wire protocol.
type Protocol string

const (
	ProtocolTNet Protocol = "tnet"
	ProtocolJSON Protocol = "json"
)

// Backend is the common surface the registry and loader operate on
// regardless of concrete kind. Active and Running are mutated only by
// the registry's owner while holding its write lock — see the doc of
// internal/registry's Registry type for the locking discipline.
type Backend interface {
	Key() string
	Type() Type
	IsActive() bool
	IsRunning() bool
	SetActive(bool)
	SetRunning(bool)
}

// base is embedded in each concrete backend and implements the
// identity and lifecycle-flag bookkeeping every Backend shares.
//
// active/running are atomic.Bool rather than plain bool: handler-task
// goroutines (internal/worker.DefaultRunFunc) read IsRunning with no
// other synchronization, while registry sweeps (StopAll, StopInactive,
// StartHandlers, ActivateByPrefix) write it from under the registry's
// own lock. The two access paths share no mutex, so the flags
// themselves must be safe for concurrent, lock-free access — this is
// the "read/write-locked … discipline" spec §5 requires for them.
type base struct {
	key     string
	typ     Type
	active  atomic.Bool
	running atomic.Bool
}

func (b *base) Key() string       { return b.key }
func (b *base) Type() Type        { return b.typ }
func (b *base) IsActive() bool    { return b.active.Load() }
func (b *base) IsRunning() bool   { return b.running.Load() }
func (b *base) SetActive(v bool)  { b.active.Store(v) }
func (b *base) SetRunning(v bool) { b.running.Store(v) }

// Handler is an out-of-process worker reached over a pair of
// send/receive endpoints.
type Handler struct {
	base

	ID        int64
	SendSpec  string
	SendIdent string
	RecvSpec  string
	RecvIdent string
	Raw       bool
	Protocol  Protocol
}

// NewHandler constructs a Handler and its registry key from the five
// identity columns of the handler query (see internal/store), matching
// the column order the key is built from.
func NewHandler(id int64, sendSpec, sendIdent, recvSpec, recvIdent string) *Handler {
	h := &Handler{
		ID:        id,
		SendSpec:  sendSpec,
		SendIdent: sendIdent,
		RecvSpec:  recvSpec,
		RecvIdent: recvIdent,
		Raw:       true,
		Protocol:  ProtocolJSON,
	}
	// Set typ/key directly on the embedded base rather than assigning a
	// whole base{} literal: base embeds atomic.Bool, which must never be
	// copied after (or, per vet, even before) first use.
	h.typ = TypeHandler
	h.key = Key(TypeHandler, strconv.FormatInt(id, 10), sendSpec, sendIdent, recvSpec, recvIdent)
	return h
}

// Proxy is a TCP forward to a fixed address and port.
type Proxy struct {
	base

	ID   int64
	Addr string
	Port int
}

// NewProxy constructs a Proxy and its registry key.
func NewProxy(id int64, addr string, port int) *Proxy {
	p := &Proxy{ID: id, Addr: addr, Port: port}
	p.typ = TypeProxy
	p.key = Key(TypeProxy, strconv.FormatInt(id, 10), addr, strconv.Itoa(port))
	return p
}

// Directory serves static files from a base path.
type Directory struct {
	base

	ID                 int64
	BasePath           string
	IndexFile          string
	DefaultContentType string
	CacheTTL           int
}

// NewDirectory constructs a Directory and its registry key. cacheTTL is
// folded into the key along with the other four identity columns,
// matching the original's cols_to_key("dir", ...) over all five queried
// columns: a reload that only changes cache_ttl is a distinct backend.
func NewDirectory(id int64, basePath, indexFile, defaultContentType string, cacheTTL int) *Directory {
	d := &Directory{
		ID:                 id,
		BasePath:           basePath,
		IndexFile:          indexFile,
		DefaultContentType: defaultContentType,
		CacheTTL:           cacheTTL,
	}
	d.typ = TypeDirectory
	d.key = Key(TypeDirectory, strconv.FormatInt(id, 10), basePath, indexFile, defaultContentType, strconv.Itoa(cacheTTL))
	return d
}

// Key builds a registry key: "type:col0:col1:...:" — the trailing
// colon is part of the contract so that a "type:id:" prefix search is
// unambiguous against a key whose id happens to be a prefix of another
// (e.g. "7" vs "70").
func Key(typ Type, cols ...string) string {
	out := string(typ) + ":"
	for _, c := range cols {
		out += c + ":"
	}
	return out
}

// KeyPrefix builds the "type:id:" prefix used by route resolution.
func KeyPrefix(typ Type, id string) string {
	return string(typ) + ":" + id + ":"
}
