package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToTypeAndAllSubscribers(t *testing.T) {
	bus := NewEventBus()
	typed := bus.Subscribe(EventVerdictComputed)
	all := bus.Subscribe()

	bus.Emit(EventVerdictComputed, "orchestrator", "op-1", map[string]interface{}{"level": "high"})

	select {
	case ev := <-typed:
		assert.Equal(t, EventVerdictComputed, ev.Type)
		assert.Equal(t, "op-1", ev.Subject)
	case <-time.After(time.Second):
		t.Fatal("expected event on typed subscriber")
	}

	select {
	case ev := <-all:
		assert.Equal(t, EventVerdictComputed, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected event on all-subscriber channel")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe(EventApprovalReconciled)
	bus.Unsubscribe(ch)

	_, ok := <-ch
	require.False(t, ok, "channel should be closed after unsubscribe")
	assert.Equal(t, 0, bus.SubscriberCount())
}
