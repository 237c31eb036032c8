package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType, aggregateID string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", aggregateID)}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)

	event := newTestEvent("OrderPlaced", "123456")
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_PreservesOrder(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler()
	bus.Subscribe(handler)

	first := newTestEvent("OrderPlaced", "1")
	second := newTestEvent("OrderCanceled", "1")
	require.NoError(t, bus.Publish(context.Background(), first, second))

	handled := handler.getHandled()
	require.Len(t, handled, 2)
	assert.Equal(t, "OrderPlaced", handled[0].EventType())
	assert.Equal(t, "OrderCanceled", handled[1].EventType())
}

func TestInMemoryEventBus_Publish_NoMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("CustomerDeleted")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced", "1")))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopDelivery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("CustomerDeleted")
	failing.err = errors.New("storage unavailable")
	panicking := newTestHandler("CustomerDeleted")
	panicking.panics = true
	healthy := newTestHandler("CustomerDeleted")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("CustomerDeleted", "3"))

	require.NoError(t, err)
	assert.Len(t, healthy.getHandled(), 1)
	assert.Equal(t, 2, logs.FilterMessage("handler failed to process event").Len())

	delivered, failed := bus.Stats()
	assert.Equal(t, int64(1), delivered)
	assert.Equal(t, int64(2), failed)
}

func TestInMemoryEventBus_ReentrantPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	downstream := newTestHandler("OrdersPurged")
	bus.Subscribe(downstream)
	bus.Subscribe(handlerFunc(func(ctx context.Context, e shared.DomainEvent) error {
		return bus.Publish(ctx, newTestEvent("OrdersPurged", e.AggregateID()))
	}), "CustomerDeleted")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("CustomerDeleted", "9")))
	require.Len(t, downstream.getHandled(), 1)
	assert.Equal(t, "9", downstream.getHandled()[0].AggregateID())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced", "1"))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced", "2"))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}

type handlerFunc func(ctx context.Context, e shared.DomainEvent) error

func (f handlerFunc) Handle(ctx context.Context, e shared.DomainEvent) error { return f(ctx, e) }
func (f handlerFunc) EventTypes() []string                                     { return nil }
