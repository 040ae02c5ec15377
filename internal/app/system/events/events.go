// Package events publishes domain events about assignments, links and
// comments to Kafka. Publishing is fire-and-forget: a failed write is logged
// and never fails the request that produced it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types.
const (
	AssignmentCreated = "assignment.created"
	AssignmentDeleted = "assignment.deleted"
	LinkStatusChanged = "link.status_changed"
	CommentAdded      = "comment.added"
)

// Event is the JSON payload written to the topic.
type Event struct {
	Type         string    `json:"type"`
	AssignmentID string    `json:"id_asignacion,omitempty"`
	LinkID       string    `json:"id_asignacionXusuario,omitempty"`
	CommentID    string    `json:"id_comentario,omitempty"`
	ActorUID     string    `json:"actor_uid,omitempty"`
	Estado       string    `json:"estado,omitempty"`
	UIDs         []string  `json:"uids,omitempty"`
	At           time.Time `json:"at"`
}

// Key partitions events so that everything about one assignment (or link)
// lands on the same partition.
func (e Event) Key() string {
	switch {
	case e.AssignmentID != "":
		return e.AssignmentID
	case e.LinkID != "":
		return e.LinkID
	default:
		return e.Type
	}
}

// Publisher sends events.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close() error
}

// Nop discards events. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
func (Nop) Close() error                   { return nil }

// Kafka writes events to a single topic.
type Kafka struct {
	w   *kafka.Writer
	log *zap.Logger
}

// NewKafka builds an async writer for topic on brokers. No connection is
// made until the first write.
func NewKafka(brokers []string, topic string, log *zap.Logger) *Kafka {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("topic", topic))
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Warn("kafka writer", zap.String("msg", fmt.Sprintf(msg, args...)))
		}),
	}
	return &Kafka{w: w, log: log}
}

// Publish stamps e.At when unset and writes it.
func (k *Kafka) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		k.log.Error("marshal event", zap.String("type", e.Type), zap.Error(err))
		return
	}
	if err := k.w.WriteMessages(ctx, kafka.Message{Key: []byte(e.Key()), Value: b}); err != nil {
		k.log.Warn("publish event failed", zap.String("type", e.Type), zap.Error(err))
	}
}

// Close flushes pending writes.
func (k *Kafka) Close() error {
	return k.w.Close()
}

// Memory records events in order. Tests use it to assert what a handler
// published.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
