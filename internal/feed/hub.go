package feed

import (
	"log"
	"sync"

	"github.com/RichmondRamil/task-management/internal/metrics"
)

// subscriberBuffer bounds how far a subscriber may fall behind before it
// is dropped. Publishing never blocks on a slow consumer.
const subscriberBuffer = 64

// Hub fans task change events out to subscribers. Events reach each
// subscriber in publish order.
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]chan Event
	nextID      uint64
	closed      bool
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint64]chan Event),
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (h *Hub) Subscribe() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan Event, subscriberBuffer)
	h.subscribers[id] = ch

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(ch)
	}
}

// Publish delivers the event to every subscriber. A subscriber whose
// buffer is full is dropped rather than stalling the publisher.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	metrics.FeedEventsPublished.WithLabelValues(string(event.Type)).Inc()

	for id, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			log.Printf("feed: dropping slow subscriber %d", id)
			delete(h.subscribers, id)
			close(ch)
			metrics.FeedSubscribersDropped.Inc()
		}
	}
}

// Close drops all subscribers and stops further publishing.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
