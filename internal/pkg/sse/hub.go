package sse

import (
	"sync"
)

// Event names pushed to list view streams.
const (
	EventSnapshot = "snapshot"
	EventLanguage = "language"
	EventClosed   = "closed"
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	ViewID string
	Event  string
	Data   interface{}
}

// Hub manages SSE subscribers per list view and event broadcasting. Only views registered
// with OpenView and not yet closed accept subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  16,
	}
}

// OpenView makes viewID available to Subscribe until CloseView.
func (h *Hub) OpenView(viewID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[viewID] == nil {
		h.subscribers[viewID] = make(map[chan Event]struct{})
	}
}

// Subscribe registers a new stream for a view and returns the event channel and cleanup function.
// For a view that is not open the channel is already closed.
func (h *Hub) Subscribe(viewID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[viewID]
	if !ok {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	ch := make(chan Event, h.bufferSize)
	subs[ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subscribers[viewID][ch]; !ok {
				return // already dropped by CloseView
			}
			delete(h.subscribers[viewID], ch)
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish sends an event to all streams of a specific view
func (h *Hub) Publish(viewID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.ViewID = viewID
	if subs, ok := h.subscribers[viewID]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
				// Skip if channel is full; the next snapshot supersedes this one
			}
		}
	}
}

// Broadcast sends an event to every stream of every view
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for viewID, subs := range h.subscribers {
		e := event
		e.ViewID = viewID
		for ch := range subs {
			select {
			case ch <- e:
			default:
			}
		}
	}
}

// CloseView sends a final closed event, closes every stream of viewID and stops accepting new ones.
func (h *Hub) CloseView(viewID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers[viewID] {
		select {
		case ch <- Event{ViewID: viewID, Event: EventClosed}:
		default:
		}
		close(ch)
	}
	delete(h.subscribers, viewID)
}

// SubscriberCount returns the number of active streams for a view
func (h *Hub) SubscriberCount(viewID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[viewID])
}

// TotalSubscribers returns the total number of active streams across all views
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
