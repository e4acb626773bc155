// Package network exposes the shared game over WebSocket and a small REST API.
package network

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/MRamiBalles/CommitClicker/server/internal/events"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/logger"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/metrics"
	"github.com/MRamiBalles/CommitClicker/server/internal/session"
)

// Limits bounds what a single connection may do.
type Limits struct {
	SendBuffer          int
	MaxActionsPerSecond float64
	ActionBurst         int
	MaxClients          int
}

// API serves the game state, player actions and history.
type API struct {
	session  *session.Session
	hub      *Hub
	eventLog *events.EventLog
	metrics  *metrics.Metrics
	logger   *logger.Logger
	limits   Limits
	upgrader websocket.Upgrader
}

// NewAPI wires the HTTP surface. hub may be nil to disable /ws.
func NewAPI(s *session.Session, hub *Hub, el *events.EventLog, m *metrics.Metrics, log *logger.Logger, limits Limits) *API {
	if log == nil {
		log = logger.Discard()
	}
	return &API{
		session:  s,
		hub:      hub,
		eventLog: el,
		metrics:  m,
		logger:   log,
		limits:   limits,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // browser clients are served from another origin in dev
			},
		},
	}
}

// ActionResponse is the body of POST /api/action.
type ActionResponse struct {
	Applied bool        `json:"applied"`
	State   interface{} `json:"state"`
}

// HandleState returns the current snapshot.
// GET /api/state
func (a *API) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonSuccess(w, a.session.Snapshot())
}

// HandleAction applies one player action.
// POST /api/action {"type":"buy_upgrade","id":"u1"}
func (a *API) HandleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var action session.Action
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&action); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if action.Type == "" {
		jsonError(w, "Missing action type", http.StatusBadRequest)
		return
	}

	applied := a.session.Apply(r.Context(), action)
	jsonSuccess(w, ActionResponse{Applied: applied, State: a.session.Snapshot()})
}

// HandleHealth answers liveness probes.
// GET /healthz
func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// ServeWs upgrades the request and attaches a new client to the hub.
// GET /ws
func (a *API) ServeWs(w http.ResponseWriter, r *http.Request) {
	if a.limits.MaxClients > 0 && a.hub.ClientCount() >= a.limits.MaxClients {
		jsonError(w, "Too many clients", http.StatusServiceUnavailable)
		return
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warnf("failed to upgrade websocket connection: %v", err)
		return
	}

	var limiter *rate.Limiter
	if a.limits.MaxActionsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(a.limits.MaxActionsPerSecond), a.limits.ActionBurst)
	}
	client := NewClient(a.hub, conn, a.limits.SendBuffer, limiter)
	client.Register()

	// Greet with the current state so the client does not wait a broadcast interval.
	client.reply(Message{Type: MsgTypeState, Payload: a.session.Snapshot()})

	go client.WritePump()
	go client.ReadPump()
}

// Routes builds the server mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", a.HandleState)
	mux.HandleFunc("/api/action", a.HandleAction)
	mux.HandleFunc("/healthz", a.HandleHealth)
	if a.hub != nil {
		mux.HandleFunc("/ws", a.ServeWs)
	}
	if a.eventLog != nil {
		NewHistoryHandler(a.eventLog, a.logger).RegisterRoutes(mux)
	}
	if a.metrics != nil {
		mux.Handle("/metrics", a.metrics.Handler())
	}
	return mux
}

// jsonError sends an error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
