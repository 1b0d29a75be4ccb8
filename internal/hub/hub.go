package hub

import (
	"go.uber.org/zap"
)

// Everyone as the exclude argument of Broadcast delivers to all recipients.
const Everyone = 0

// Hub fans text out to per-player outboxes. It is owned by the arena loop and
// is not safe for concurrent use.
type Hub struct {
	outboxes map[int]chan string
	dropped  map[int]int
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		outboxes: make(map[int]chan string),
		dropped:  make(map[int]int),
		log:      log,
	}
}

func (h *Hub) Add(id int, outbox chan string) {
	h.outboxes[id] = outbox
}

// Remove forgets the recipient and closes its outbox so its writer exits.
func (h *Hub) Remove(id int) {
	ch, ok := h.outboxes[id]
	if !ok {
		return
	}
	close(ch)
	delete(h.outboxes, id)
	delete(h.dropped, id)
}

func (h *Hub) Len() int { return len(h.outboxes) }

// Broadcast delivers msg to every recipient except exclude.
func (h *Hub) Broadcast(msg string, exclude int) {
	for id := range h.outboxes {
		if id == exclude {
			continue
		}
		h.deliver(id, msg)
	}
}

// SendTo delivers msg to a single recipient. It reports false when the
// recipient is unknown or its outbox is full.
func (h *Hub) SendTo(id int, msg string) bool {
	if _, ok := h.outboxes[id]; !ok {
		return false
	}
	return h.deliver(id, msg)
}

// Dropped returns how many messages were discarded for id because its outbox
// was full.
func (h *Hub) Dropped(id int) int { return h.dropped[id] }

// Shutdown closes every outbox.
func (h *Hub) Shutdown() {
	for id, ch := range h.outboxes {
		close(ch)
		delete(h.outboxes, id)
	}
	clear(h.dropped)
}

func (h *Hub) deliver(id int, msg string) bool {
	select {
	case h.outboxes[id] <- msg:
		return true
	default:
		// Slow reader: drop this line, keep the recipient.
		h.dropped[id]++
		h.log.Debug("outbox full, message dropped", zap.Int("player_id", id), zap.Int("dropped", h.dropped[id]))
		return false
	}
}
