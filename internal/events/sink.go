package events

import (
	"sync"

	"github.com/toolshelf/shelf/internal/logger"
)

// Event is one observability record emitted by a mutating operation.
// Delivery is best effort; no consumer behavior depends on it.
type Event struct {
	Category string
	Action   string
	Label    string
	Value    int
}

// Sink receives events. Implementations must not block the caller.
type Sink interface {
	Emit(e Event)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// LogSink writes events to the structured log at debug level.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(e Event) {
	s.log.Debug("event",
		logger.String("category", e.Category),
		logger.String("action", e.Action),
		logger.String("label", e.Label),
		logger.Int("value", e.Value),
	)
}

// Recorder captures events in memory for tests. Safe for concurrent emit
// since persistence failures report from a background goroutine.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a snapshot of everything emitted so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Actions returns the emitted action names in order.
func (r *Recorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, 0, len(r.events))
	for _, e := range r.events {
		actions = append(actions, e.Action)
	}
	return actions
}
