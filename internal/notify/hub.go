package notify

import "sync"

const defaultSubscriberBuffer = 64

// Hub broadcasts messages to every live subscriber. Publishing never blocks:
// a subscriber whose buffer is full misses the message.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan Message
	nextID int
	buffer int
}

// NewHub returns a Hub whose subscribers buffer up to buffer messages.
// A non-positive buffer uses the default of 64.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Hub{
		subs:   make(map[int]chan Message),
		buffer: buffer,
	}
}

func (h *Hub) Notify(level Level, text string) {
	h.Publish(NewMessage(level, text, ""))
}

func (h *Hub) NotifyData(level Level, text, data string) {
	h.Publish(NewMessage(level, text, data))
}

// Publish delivers msg to all subscribers and reports how many received it.
func (h *Hub) Publish(msg Message) int {
	countMessage(msg.Level)

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for _, ch := range h.subs {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribe registers a new listener. The returned func unsubscribes and
// closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Message, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
