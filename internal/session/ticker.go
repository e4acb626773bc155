package session

import (
	"context"
	"time"
)

// DefaultTickRate is how often the game advances in real time.
const DefaultTickRate = 100 * time.Millisecond

// Ticker is the game loop heartbeat. It measures the wall-clock time between beats and
// hands it to the session, so irregular beats still accrue the right amount.
type Ticker struct {
	session      *Session
	tickRate     time.Duration
	saveInterval time.Duration
	now          func() time.Time
	stopChan     chan struct{}
}

// NewTicker creates a loop for s. A zero saveInterval disables autosave.
func NewTicker(s *Session, tickRate, saveInterval time.Duration) *Ticker {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Ticker{
		session:      s,
		tickRate:     tickRate,
		saveInterval: saveInterval,
		now:          time.Now,
		stopChan:     make(chan struct{}),
	}
}

// Start runs the loop until ctx is cancelled or Stop is called, then saves one last time.
// Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	log := t.session.log
	log.Infof("ticker started: tick every %s, autosave every %s", t.tickRate, t.saveInterval)

	ticker := time.NewTicker(t.tickRate)
	defer ticker.Stop()

	var saves <-chan time.Time
	if t.saveInterval > 0 {
		saveTicker := time.NewTicker(t.saveInterval)
		defer saveTicker.Stop()
		saves = saveTicker.C
	}

	last := t.now()
	for {
		select {
		case <-ctx.Done():
			log.Info("ticker stopped by context")
			t.finalSave()
			return
		case <-t.stopChan:
			log.Info("ticker stopped manually")
			t.finalSave()
			return
		case <-ticker.C:
			now := t.now()
			t.session.Tick(now.Sub(last).Seconds())
			last = now
		case <-saves:
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := t.session.Save(ctx); err != nil {
				log.Errorf("autosave failed: %v", err)
			}
			cancel()
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}

func (t *Ticker) finalSave() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.session.Save(ctx); err != nil {
		t.session.log.Errorf("final save failed: %v", err)
		return
	}
	t.session.log.Info("final save written")
}
