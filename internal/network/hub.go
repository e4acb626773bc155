package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MRamiBalles/CommitClicker/server/internal/events"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/logger"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/metrics"
	"github.com/MRamiBalles/CommitClicker/server/internal/session"
)

// Envelope types sent to clients.
const (
	MsgTypeState  = "state"
	MsgTypeEvent  = "event"
	MsgTypeResult = "result"
	MsgTypeError  = "error"
)

// eventPollInterval is how often the hub looks for new log events.
const eventPollInterval = 200 * time.Millisecond

// Message is the envelope of every server to client frame.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ActionResult answers one client action.
type ActionResult struct {
	Action  session.Action `json:"action"`
	Applied bool           `json:"applied"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	session *session.Session
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.Mutex
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewHub initializes a new WebSocket Hub around the shared session.
func NewHub(s *session.Session, log *logger.Logger, m *metrics.Metrics) *Hub {
	if log == nil {
		log = logger.Discard()
	}
	return &Hub{
		session:    s,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     log,
		metrics:    m,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			close(client.registered)
			h.metrics.AddConnection(1)
			h.logger.Infof("WebSocket client connected (%d online)", h.ClientCount())
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.IncMessage(false)
				default:
					// Slow consumer: cut it loose instead of stalling everyone.
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes a client. Caller holds h.mu.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.metrics.AddConnection(-1)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast serializes msg and queues it for every connected client.
func (h *Hub) Broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("failed to serialize %s message for broadcast: %v", msg.Type, err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// StartStateBroadcaster pushes a full snapshot to every client each interval.
func (h *Hub) StartStateBroadcaster(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if h.ClientCount() == 0 {
					continue
				}
				h.Broadcast(Message{Type: MsgTypeState, Payload: h.session.Snapshot()})
			}
		}
	}()
}

// StartEventPoller spawns a goroutine that polls the EventLog and pushes new events to the Hub.
// Only events appended after the call are forwarded.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(eventPollInterval)
		defer pollInterval.Stop()

		lastSeq := eventLog.LastSeq()
		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				for _, event := range eventLog.Since(lastSeq) {
					h.Broadcast(Message{Type: MsgTypeEvent, Payload: event})
					lastSeq = event.Seq
				}
			}
		}
	}()
}
