// Package admin is the operational HTTP plane: liveness, metrics,
// a JSON dump of the registry, a reload trigger, and a websocket
// stream of registry lifecycle events. It never touches handler
// traffic — that is the separate, out-of-scope request-serving server
// named in the purpose statement.
package admin

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType names a registry transition broadcast on the event
// stream.
type EventType string

const (
	EventBackendStarted  EventType = "backend_started"
	EventBackendStopped  EventType = "backend_stopped"
	EventReloadCompleted EventType = "reload_completed"
)

// Event is one broadcast item. ID uniquely identifies this particular
// event on the wire, so a websocket client that reconnects mid-stream
// can tell which events it already saw.
type Event struct {
	ID   string         `json:"id"`
	Type EventType      `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Bus is a single-consumer in-process event bus: Publish never
// blocks — a full buffer drops the event and logs a warning — and one
// goroutine fans events out to every current subscriber.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
	events      chan Event
	done        chan struct{}
	logger      *zap.SugaredLogger
}

// NewBus creates a Bus with the given channel buffer size.
func NewBus(bufSize int, logger *zap.SugaredLogger) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Bus{
		subscribers: make(map[int]chan Event),
		events:      make(chan Event, bufSize),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber channel and returns it along
// with an unsubscribe function.
func (b *Bus) Subscribe(bufSize int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, bufSize)
	b.subscribers[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(sub)
		}
	}
}

// Publish sends an event to the bus. Non-blocking: if the internal
// buffer is full the event is dropped and a warning is logged. Callers
// construct an Event with its Type/Data only — Publish assigns the ID
// if the caller left it blank, so every event gets a unique ID exactly
// once, at the point it actually enters the stream.
func (b *Bus) Publish(evt Event) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	select {
	case b.events <- evt:
	default:
		b.logger.Warnw("admin event bus buffer full, dropping event", "type", evt.Type)
	}
}

// Start begins the consumer goroutine, dispatching events to every
// current subscriber until ctx is cancelled.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt := <-b.events:
				b.dispatch(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop waits for the consumer goroutine to finish.
func (b *Bus) Stop() {
	<-b.done
}

func (b *Bus) dispatch(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		select {
		case sub <- evt:
		default:
			b.logger.Warnw("admin event subscriber buffer full, dropping event", "type", evt.Type)
		}
	}
}
