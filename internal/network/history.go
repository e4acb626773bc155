package network

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MRamiBalles/CommitClicker/server/internal/events"
	"github.com/MRamiBalles/CommitClicker/server/internal/infra/storage"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/logger"
)

// HistoryHandler serves the retained event log.
type HistoryHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(el *events.EventLog, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		eventLog: el,
		logger:   log,
	}
}

// HistoryEvent is an event with a readable summary attached.
type HistoryEvent struct {
	events.GameEvent
	Summary string `json:"summary"`
	Impact  string `json:"impact"`
}

// HistoryResponse is the API response for the event history.
type HistoryResponse struct {
	LastSeq     int64          `json:"last_seq"`
	TotalEvents int            `json:"total_events"`
	FilteredBy  string         `json:"filtered_by,omitempty"`
	GeneratedAt string         `json:"generated_at"`
	Events      []HistoryEvent `json:"events"`
}

// HandleEvents returns retained events after a sequence number.
// GET /api/events?since=N&type=BUG_CAUGHT&limit=50
func (hh *HistoryHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	var since int64
	if s := q.Get("since"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			jsonError(w, "Invalid since", http.StatusBadRequest)
			return
		}
		since = n
	}
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			jsonError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	eventType := events.EventType(q.Get("type"))

	history := make([]HistoryEvent, 0)
	for _, e := range hh.eventLog.Since(since) {
		if eventType != "" && e.Type != eventType {
			continue
		}
		history = append(history, toHistoryEvent(e))
	}
	// keep the newest when limited
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	jsonSuccess(w, HistoryResponse{
		LastSeq:     hh.eventLog.LastSeq(),
		TotalEvents: len(history),
		FilteredBy:  string(eventType),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      history,
	})
}

// HandleStats returns event counts by type.
// GET /api/events/stats
func (hh *HistoryHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := hh.eventLog.Replay()
	byType := make(map[string]int)
	for _, e := range all {
		byType[string(e.Type)]++
	}

	jsonSuccess(w, map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"total_events": len(all),
		"by_type":      byType,
	})
}

// RegisterRoutes sets up the history routes.
func (hh *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/events", hh.HandleEvents)
	mux.HandleFunc("/api/events/stats", hh.HandleStats)
}

func toHistoryEvent(e events.GameEvent) HistoryEvent {
	return HistoryEvent{
		GameEvent: e,
		Summary:   storage.Summarize(e),
		Impact:    impactOf(e.Type),
	}
}

// impactOf classifies an event from the player's point of view.
func impactOf(t events.EventType) string {
	switch t {
	case events.EventTypeBugSpawned, events.EventTypeRunReset:
		return "NEGATIVE"
	case events.EventTypeBugCaught, events.EventTypePrestige, events.EventTypePromoted, events.EventTypeSkillActivated:
		return "POSITIVE"
	default:
		return "NEUTRAL"
	}
}
