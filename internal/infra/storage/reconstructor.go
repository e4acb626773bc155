// Package storage - reconstructor.go
// Rebuilds the in-memory event log from the durable history after a restart,
// and renders events as one-line summaries for logs and the CLI.
package storage

import (
	"context"
	"fmt"

	"github.com/MRamiBalles/CommitClicker/server/internal/events"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/numfmt"
)

// Reconstructor reloads event history.
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new history reconstructor.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// Rebuild seeds log with the newest limit events so sequence numbers keep growing
// across restarts. Returns how many events were loaded.
func (r *Reconstructor) Rebuild(ctx context.Context, log *events.EventLog, limit int) (int, error) {
	history, err := r.eventRepo.Latest(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to load event history: %w", err)
	}
	log.Seed(history)
	return len(history), nil
}

// Summarize renders an event as a short human-readable line.
func Summarize(e events.GameEvent) string {
	switch e.Type {
	case events.EventTypeUpgradePurchased, events.EventTypeSecOpsUpgradePurchased:
		return fmt.Sprintf("bought %s #%v for %s", e.TargetID, e.Payload["count"], number(e.Payload["cost"]))
	case events.EventTypeTalentPurchased:
		return fmt.Sprintf("talent %s reached level %v", e.TargetID, e.Payload["level"])
	case events.EventTypeSkillActivated:
		return fmt.Sprintf("skill %s fired", e.TargetID)
	case events.EventTypeBugSpawned:
		return fmt.Sprintf("bug %s appeared", shortID(e.TargetID))
	case events.EventTypeBugCaught:
		return fmt.Sprintf("bug %s caught for %s", shortID(e.TargetID), number(e.Payload["bonus"]))
	case events.EventTypeBugExpired:
		return fmt.Sprintf("bug %s escaped", shortID(e.TargetID))
	case events.EventTypePrestige:
		return fmt.Sprintf("prestige for %v commits", e.Payload["gain"])
	case events.EventTypePromoted:
		return "promoted to secops"
	case events.EventTypeRunReset:
		return "run reset"
	}
	return string(e.Type)
}

func number(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return numfmt.Format(n)
	case int:
		return numfmt.Format(float64(n))
	}
	return fmt.Sprint(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
