package network

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/MRamiBalles/CommitClicker/server/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client is one WebSocket connection. Its actions go to the hub's session.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	registered chan struct{}
}

// NewClient creates a new WebSocket client. A nil limiter lets every action through.
func NewClient(hub *Hub, conn *websocket.Conn, sendBuffer int, limiter *rate.Limiter) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: limiter,

		registered: make(chan struct{}),
	}
}

// Register adds the client to the hub and waits until it receives broadcasts.
func (c *Client) Register() {
	select {
	case c.hub.register <- c:
		<-c.registered
	case <-c.hub.done:
		close(c.send)
	}
}

func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// ReadPump pumps actions from the websocket connection into the session.
func (c *Client) ReadPump() {
	defer func() {
		c.leave()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warnf("websocket read error: %v", err)
			}
			break
		}
		c.hub.metrics.IncMessage(true)

		var action session.Action
		if err := json.Unmarshal(message, &action); err != nil || action.Type == "" {
			c.hub.logger.Warn("dropping malformed action from websocket client")
			c.reply(Message{Type: MsgTypeError, Payload: "malformed action"})
			continue
		}
		c.handleAction(action)
	}
}

func (c *Client) handleAction(action session.Action) {
	if !c.limiter.Allow() {
		c.hub.metrics.IncRateLimited()
		return
	}

	applied := c.hub.session.Apply(context.Background(), action)
	c.reply(Message{Type: MsgTypeResult, Payload: ActionResult{Action: action, Applied: applied}})
	if applied {
		c.reply(Message{Type: MsgTypeState, Payload: c.hub.session.Snapshot()})
	}
}

// reply queues msg for this client only. Dropped if the buffer is full.
func (c *Client) reply(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Errorf("failed to serialize %s reply: %v", msg.Type, err)
		return
	}

	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- payload:
		c.hub.metrics.IncMessage(false)
	default:
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message, one JSON document per line.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
