// Package events fans job progress out to live subscribers.
package events

import (
	"sync"

	"github.com/amankumarsingh77/hoopcast/internal/models"
)

type Event struct {
	Type      string           `json:"type"` // "status", "progress"
	SessionID string           `json:"session_id"`
	Status    models.JobStatus `json:"status"`
	Progress  int              `json:"progress"`
	Message   string           `json:"message,omitempty"`
}

type Publisher interface {
	Publish(sessionID string, event Event)
}

type Bus struct {
	subscribers map[string][]chan Event
	mu          sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string][]chan Event),
	}
}

func (b *Bus) Subscribe(sessionID string) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 16)
	b.subscribers[sessionID] = append(b.subscribers[sessionID], ch)
	return ch
}

func (b *Bus) Unsubscribe(sessionID string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[sessionID]
	for i, sub := range subs {
		if sub == ch {
			b.subscribers[sessionID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}

	if len(b.subscribers[sessionID]) == 0 {
		delete(b.subscribers, sessionID)
	}
}

// Publish never blocks; a subscriber whose buffer is full misses the event.
func (b *Bus) Publish(sessionID string, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[sessionID] {
		select {
		case ch <- event:
		default:
		}
	}
}
