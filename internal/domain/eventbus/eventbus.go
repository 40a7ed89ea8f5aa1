package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

// Bus is an in-process publish/subscribe hub shared by the client layers.
//
// Synchronous handlers run under the bus lock: they must not publish or
// subscribe themselves.
type Bus struct {
	bus evbus.Bus
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{bus: evbus.New()}
}

// Publish delivers args to every subscriber of topic. A nil bus drops the event.
func (b *Bus) Publish(topic string, args ...any) {
	if b == nil {
		return
	}
	b.bus.Publish(topic, args...)
}

// Subscribe registers fn for topic. fn must accept the topic's payload type.
func (b *Bus) Subscribe(topic string, fn any) error {
	return b.bus.Subscribe(topic, fn)
}

// SubscribeAsync registers fn to run on its own goroutine per event.
func (b *Bus) SubscribeAsync(topic string, fn any) error {
	return b.bus.SubscribeAsync(topic, fn, false)
}

func (b *Bus) Unsubscribe(topic string, fn any) error {
	return b.bus.Unsubscribe(topic, fn)
}

func (b *Bus) HasCallback(topic string) bool {
	return b.bus.HasCallback(topic)
}

// WaitAsync blocks until every async handler has returned.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
