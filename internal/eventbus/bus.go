package eventbus

import (
	"sync"
	"time"
)

// Bus is a simple in-process pub/sub event bus used to observe the query
// lifecycle without coupling the orchestrator to any particular sink.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		handlers: make(map[Topic][]Handler),
	}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish sends an event to all subscribers of the topic. Handlers run
// synchronously in registration order.
func (b *Bus) Publish(topic Topic, payload any) {
	b.emit(topic, payload, false)
}

// PublishAsync sends an event to all subscribers without blocking the caller.
func (b *Bus) PublishAsync(topic Topic, payload any) {
	b.emit(topic, payload, true)
}

func (b *Bus) emit(topic Topic, payload any, async bool) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[topic]))
	copy(handlers, b.handlers[topic])
	b.mu.RUnlock()

	event := Event{
		Topic:     topic,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	for _, h := range handlers {
		if async {
			go h(event)
		} else {
			h(event)
		}
	}
}
