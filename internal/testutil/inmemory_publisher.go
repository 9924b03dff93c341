package testutil

import (
	"context"
	"sync"

	"github.com/invoflow/invoflow/internal/domain/events"
)

// InMemoryEventPublisher records published events for assertions
type InMemoryEventPublisher struct {
	mu     sync.Mutex
	events []*events.Event
}

// NewInMemoryEventPublisher creates a new test event publisher
func NewInMemoryEventPublisher() *InMemoryEventPublisher {
	return &InMemoryEventPublisher{}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, event *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns all events published so far
func (p *InMemoryEventPublisher) Events() []*events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// Clear drops all recorded events
func (p *InMemoryEventPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
