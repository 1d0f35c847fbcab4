package eventbus

import "time"

// Topic represents an event topic.
type Topic string

const (
	TopicQueryStarted   Topic = "query_started"
	TopicQueryCompleted Topic = "query_completed"
	TopicQueryFailed    Topic = "query_failed"
	TopicSessionRebound Topic = "session_rebound"
	TopicMemoryCleared  Topic = "memory_cleared"
)

// Event is a message passed through the event bus.
type Event struct {
	Topic     Topic
	Payload   any
	Timestamp time.Time
}

// Handler processes an event.
type Handler func(Event)
