package updatededuplicator

import (
	"context"
	"ponger/internal/core/domain/bot"
	e "ponger/internal/core/domain/errors"
	"sync"
	"time"
)

// InMemory is used when no Redis URL is configured.
type InMemory struct {
	ttl  time.Duration
	now  func() time.Time
	lock sync.Mutex
	seen map[bot.UpdateID]time.Time
}

func NewInMemory(ttl time.Duration, now func() time.Time) *InMemory {
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &InMemory{ttl: ttl, now: now, seen: make(map[bot.UpdateID]time.Time)}
}

func (d *InMemory) IsFirstDelivery(ctx context.Context, id bot.UpdateID) bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	now := d.now()
	for seenID, expiresAt := range d.seen {
		if !now.Before(expiresAt) {
			delete(d.seen, seenID)
		}
	}
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = now.Add(d.ttl)
	return true
}
