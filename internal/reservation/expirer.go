package reservation

import (
	"context"
	"log"
	"time"
)

// Expirer periodically releases pending reservations whose payment hold
// window has lapsed, so starved holds cannot permanently lock out later
// bookings.
type Expirer struct {
	service  Service
	ttl      time.Duration
	interval time.Duration
}

func NewExpirer(service Service, ttl, interval time.Duration) *Expirer {
	return &Expirer{
		service:  service,
		ttl:      ttl,
		interval: interval,
	}
}

// Run sweeps until ctx is cancelled. Intended to run in its own goroutine;
// overlapping sweeps (e.g. multiple instances) are safe because the
// underlying update is idempotent.
func (e *Expirer) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			released, err := e.service.ExpirePendingOlderThan(ctx, e.ttl)
			if err != nil {
				log.Printf("expiry sweep failed: %v", err)
				continue
			}
			if released > 0 {
				log.Printf("expiry sweep released %d stale pending reservations", released)
			}
		}
	}
}
