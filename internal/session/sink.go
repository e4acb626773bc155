package session

import (
	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
	"github.com/MRamiBalles/CommitClicker/server/internal/infra/storage"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/logger"
)

// loggingSink forwards engine events to the event log and echoes them to the logger.
type loggingSink struct {
	log    *events.EventLog
	logger *logger.Logger
}

// NewSink returns the engine event sink used by the server.
func NewSink(log *events.EventLog, l *logger.Logger) engine.EventSink {
	return &loggingSink{log: log, logger: l}
}

func (s *loggingSink) Append(e events.GameEvent) {
	s.log.Append(e)
	if s.logger != nil {
		s.logger.Event(string(e.Type), e.TargetID, storage.Summarize(e))
	}
}
