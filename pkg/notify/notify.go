// Package notify is a small in-process hub for data-sync events. Writers
// announce when a backend write starts, completes or fails; interested
// consumers subscribe explicitly. The reporting engines never touch this
// package.
package notify

import (
	"sync"
	"time"
)

// Event states.
const (
	SyncStart    = "start"
	SyncComplete = "complete"
	SyncError    = "error"
)

// Event is one sync state change.
type Event struct {
	State  string    `json:"state"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Hub fans events out to subscribers. Slow subscribers drop events instead of
// blocking writers.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registers a new listener and returns its channel plus an id for
// Unsubscribe.
func (h *Hub) Subscribe() (<-chan Event, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Event, 16)
	h.subs[id] = ch
	return ch, id
}

// Unsubscribe removes a listener and closes its channel.
func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish sends an event to every subscriber without blocking.
func (h *Hub) Publish(state, detail string) {
	ev := Event{State: state, Detail: detail, At: time.Now()}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
