package notification

import "sync"

// Event is an order or notification change fanned out to subscribers inside
// the process. It replaces the realtime push channel of the hosted backend:
// correctness never depends on receiving one, they only keep caches and
// notification lists fresh.
type Event struct {
	UserID  string
	OrderID string
	Title   string
	Message string
	Kind    string
}

// Hub is a minimal in-process publish/subscribe fan-out. Subscribers are
// invoked synchronously in subscription order.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(Event))}
}

// Subscribe registers a callback and returns a function that removes it.
func (h *Hub) Subscribe(fn func(Event)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
