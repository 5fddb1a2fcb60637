package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/orders-dashboard/internal/metrics"
	"go.uber.org/zap"
)

var ErrConfirmationNotFound = errors.New("confirmation not found")

const (
	EventNotification = "notification"
	EventConfirm      = "confirm"
	EventKeepalive    = "keepalive"
)

// Event is one server-sent event.
type Event struct {
	Name string
	Data string
}

type confirmEvent struct {
	ID      string `json:"id"`
	Header  string `json:"header"`
	Message string `json:"message"`
	Icon    string `json:"icon,omitempty"`
}

// Hub implements Sink for browser clients: notifications and prompts are
// fanned out to every connected event stream, and prompts wait in a registry
// until the UI resolves them.
type Hub struct {
	log *zap.Logger

	mu      sync.RWMutex
	clients map[chan Event]struct{}

	pendingMu sync.Mutex
	pending   map[string]Confirmation

	broadcast chan Event
	stop      chan struct{}
	stopOnce  sync.Once
	keepalive time.Duration
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:       log,
		clients:   make(map[chan Event]struct{}),
		pending:   make(map[string]Confirmation),
		broadcast: make(chan Event, 256),
		stop:      make(chan struct{}),
		keepalive: 30 * time.Second,
	}
}

func (h *Hub) Start() {
	go h.run()
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *Hub) run() {
	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case evt := <-h.broadcast:
			h.fanOut(evt)
		case <-ticker.C:
			h.fanOut(Event{Name: EventKeepalive, Data: "ping"})
		}
	}
}

func (h *Hub) fanOut(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			// slow client, drop
		}
	}
}

// Broadcast queues payload, JSON-encoded, for every client.
func (h *Hub) Broadcast(name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("encode event", zap.String("event", name), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- Event{Name: name, Data: string(data)}:
	default:
		h.log.Warn("event dropped, broadcast queue full", zap.String("event", name))
	}
}

func (h *Hub) AddClient() chan Event {
	ch := make(chan Event, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	metrics.SSEClients.Inc()
	return ch
}

func (h *Hub) RemoveClient(ch chan Event) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	metrics.SSEClients.Dec()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Notify(ctx context.Context, n Notification) {
	if n.Key == "" {
		n.Key = ToastKey
	}
	metrics.Notifications.WithLabelValues(string(n.Severity)).Inc()
	h.Broadcast(EventNotification, n)
}

func (h *Hub) Confirm(ctx context.Context, c Confirmation) string {
	id := uuid.New().String()

	h.pendingMu.Lock()
	h.pending[id] = c
	h.pendingMu.Unlock()

	h.Broadcast(EventConfirm, confirmEvent{ID: id, Header: c.Header, Message: c.Message, Icon: c.Icon})
	return id
}

// Resolve answers a pending prompt. The matching callback runs on the
// caller's goroutine before Resolve returns.
func (h *Hub) Resolve(ctx context.Context, id string, accept bool) error {
	h.pendingMu.Lock()
	c, ok := h.pending[id]
	delete(h.pending, id)
	h.pendingMu.Unlock()

	if !ok {
		return ErrConfirmationNotFound
	}

	if accept {
		if c.OnAccept != nil {
			c.OnAccept(ctx)
		}
		return nil
	}
	if c.OnReject != nil {
		c.OnReject(ctx)
	}
	return nil
}

// PendingCount returns the number of unanswered prompts.
func (h *Hub) PendingCount() int {
	h.pendingMu.Lock()
	defer h.pendingMu.Unlock()
	return len(h.pending)
}
