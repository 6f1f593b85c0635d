package ws

import (
	"acadeemia/internal/lib/sl"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

const (
	EventPaymentInitiated      = "payment_initiated"
	EventPaymentStatus         = "payment_status"
	EventSubscriptionActivated = "subscription_activated"
)

// Event is pushed to every connected back-office client.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans payment events out to the connected back-office operators.
type Hub struct {
	operators map[*operator]bool
	events    chan *Event
	joins     chan *operator
	leaves    chan *operator
	done      chan struct{}
	stopOnce  sync.Once
	mu        sync.RWMutex
	log       *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		operators: make(map[*operator]bool),
		events:    make(chan *Event, 256),
		joins:     make(chan *operator),
		leaves:    make(chan *operator),
		done:      make(chan struct{}),
		log:       log.With(sl.Module("ws.hub")),
	}
}

// Run is the hub's event loop. It returns when ctx is done and disconnects
// every operator; joins and leaves after that return immediately.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for op := range h.operators {
				h.drop(op)
			}
			h.mu.Unlock()
			return

		case op := <-h.joins:
			h.mu.Lock()
			h.operators[op] = true
			h.mu.Unlock()

		case op := <-h.leaves:
			h.mu.Lock()
			if h.operators[op] {
				h.drop(op)
			}
			h.mu.Unlock()

		case event := <-h.events:
			h.deliver(event)
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(op *operator) {
	delete(h.operators, op)
	close(op.feed)
}

func (h *Hub) deliver(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.With(slog.String("type", event.Type), sl.Err(err)).Warn("marshal feed event")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for op := range h.operators {
		select {
		case op.feed <- data:
		default:
			h.log.With(slog.String("username", op.username)).Warn("operator feed full, disconnecting")
			h.drop(op)
		}
	}
}

// join hands op to the event loop. It reports false when the hub has stopped
// or the caller gave up first.
func (h *Hub) join(ctx context.Context, op *operator) bool {
	select {
	case h.joins <- op:
		return true
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) leave(op *operator) {
	select {
	case h.leaves <- op:
	case <-h.done:
	}
}

// Clients returns the number of connected operators.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.operators)
}

// Broadcast queues an event for all operators. Events are dropped when the queue is full.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	select {
	case h.events <- &Event{Type: eventType, Data: data}:
	default:
		h.log.Warn("feed queue full, event dropped", slog.String("type", eventType))
	}
}
