// Package scheduler runs background cache refreshes so idle views converge
// with changes made by other clients.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"garage_crm/internal/infrastructure/cache"

	"github.com/robfig/cron/v3"
)

// Invalidator is the part of the query client the refresher drives.
type Invalidator interface {
	Invalidate(ctx context.Context, prefix cache.QueryKey) error
}

type Refresher struct {
	cache       Invalidator
	collections []string
	timeout     time.Duration
	cron        *cron.Cron
}

func NewRefresher(c Invalidator, collections ...string) *Refresher {
	return &Refresher{cache: c, collections: collections, timeout: 30 * time.Second, cron: cron.New()}
}

// Start schedules the refresh with a cron spec ("@every 1m", "*/5 * * * *").
func (r *Refresher) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, r.RefreshOnce); err != nil {
		return fmt.Errorf("schedule refresh %q: %w", spec, err)
	}
	r.cron.Start()
	log.Printf("[cache][scheduler] refresh scheduled spec=%q collections=%v", spec, r.collections)
	return nil
}

// Stop waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Refresher) RefreshOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	for _, c := range r.collections {
		if err := r.cache.Invalidate(ctx, cache.Key(c)); err != nil {
			log.Printf("[cache][scheduler] refresh failed collection=%s err=%v", c, err)
		}
	}
}
