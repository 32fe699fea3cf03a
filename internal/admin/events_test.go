package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishDispatchesToSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBus(4, nil)
	b.Start(ctx)
	defer b.Stop()

	sub, unsubscribe := b.Subscribe(4)
	defer unsubscribe()

	b.Publish(Event{Type: EventBackendStarted, Data: map[string]any{"id": int64(1)}})

	select {
	case evt := <-sub:
		assert.Equal(t, EventBackendStarted, evt.Type)
		assert.Equal(t, int64(1), evt.Data["id"])
	case <-time.After(time.Second):
		t.Fatal("subscriber never received event")
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBus(4, nil)
	b.Start(ctx)
	defer b.Stop()

	sub, unsubscribe := b.Subscribe(4)
	unsubscribe()

	_, ok := <-sub
	assert.False(t, ok)
}

func TestBus_PublishDropsWhenBufferFull(t *testing.T) {
	b := NewBus(1, nil)
	// No Start: the internal buffer is never drained, so the second
	// publish must be dropped rather than block.
	b.Publish(Event{Type: EventBackendStarted})

	done := make(chan struct{})
	go func() {
		b.Publish(Event{Type: EventBackendStopped})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked instead of dropping")
	}
}

func TestBus_MultipleSubscribersAllReceive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBus(4, nil)
	b.Start(ctx)
	defer b.Stop()

	sub1, unsub1 := b.Subscribe(4)
	defer unsub1()
	sub2, unsub2 := b.Subscribe(4)
	defer unsub2()

	b.Publish(Event{Type: EventReloadCompleted})

	for _, sub := range []<-chan Event{sub1, sub2} {
		select {
		case evt := <-sub:
			require.Equal(t, EventReloadCompleted, evt.Type)
		case <-time.After(time.Second):
			t.Fatal("a subscriber never received the event")
		}
	}
}
