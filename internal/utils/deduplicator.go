package utils

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator remembers submission ids so a scanner retrying the same
// count after a timeout does not add the quantity twice. With Redis the
// memory is shared between instances; otherwise it is per process.
type Deduplicator struct {
	rdb *redis.Client
	ttl time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewDeduplicator(rdb *redis.Client, ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Deduplicator{rdb: rdb, ttl: ttl, seen: make(map[string]time.Time)}
}

// IsDuplicate records id and reports whether it was already seen within
// the ttl. Empty ids are never duplicates.
func (d *Deduplicator) IsDuplicate(ctx context.Context, id string) bool {
	if d == nil || id == "" {
		return false
	}

	if d.rdb != nil {
		fresh, err := d.rdb.SetNX(ctx, "inventario:submission:"+id, 1, d.ttl).Result()
		if err == nil {
			return !fresh
		}
		log.Printf("⚠️ Deduplicator: redis unavailable, using local memory: %v", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if at, ok := d.seen[id]; ok && now.Sub(at) < d.ttl {
		return true
	}
	d.seen[id] = now

	// Cleanup old entries if map gets too big
	if len(d.seen) > 10000 {
		for k, at := range d.seen {
			if now.Sub(at) > d.ttl {
				delete(d.seen, k)
			}
		}
	}
	return false
}

// Forget drops id so a failed submission can be retried.
func (d *Deduplicator) Forget(ctx context.Context, id string) {
	if d == nil || id == "" {
		return
	}
	if d.rdb != nil {
		d.rdb.Del(ctx, "inventario:submission:"+id)
	}
	d.mu.Lock()
	delete(d.seen, id)
	d.mu.Unlock()
}
