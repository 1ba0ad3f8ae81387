// Package queue carries the recommendation event stream. The engine
// publishes one event per generated recommendation; downstream analytics
// subscribe. Delivery is best effort end to end.
package queue

// MessageQueue is the transport-neutral event interface. Subjects are
// dot-separated, e.g. "recommendations.generated"; payloads are JSON.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}
