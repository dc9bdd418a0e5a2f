// Package scheduler bounds session retention: a cron job periodically
// deletes sessions that have been idle longer than the configured TTL.
package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chris/relay/internal/session"
)

type Sweeper struct {
	cron  *cron.Cron
	store session.Store
	ttl   time.Duration
}

func NewSweeper(store session.Store, ttl time.Duration) *Sweeper {
	return &Sweeper{
		cron:  cron.New(),
		store: store,
		ttl:   ttl,
	}
}

// Start registers the sweep under the given cron expression and starts the
// scheduler.
func (s *Sweeper) Start(cronExpr string) error {
	if _, err := s.cron.AddFunc(cronExpr, s.sweep); err != nil {
		return fmt.Errorf("invalid sweep cron %q: %w", cronExpr, err)
	}
	s.cron.Start()
	log.Printf("session sweeper running (cron %q, ttl %s)", cronExpr, s.ttl)
	return nil
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}

func (s *Sweeper) sweep() {
	cutoff := time.Now().Add(-s.ttl)
	removed, err := s.store.DeleteIdle(cutoff)
	if err != nil {
		log.Printf("session sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("session sweep removed %d idle sessions", removed)
	}
}
