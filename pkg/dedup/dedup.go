package dedup

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
)

// Cache gates articles so each fingerprint is admitted at most once while it
// is retained. Size bounds memory through LRU eviction; maxAge additionally
// expires entries first seen longer ago (0 keeps entries until evicted).
// Evicting a fingerprint allows a legitimate re-emission of a very old
// article, which is the documented tradeoff for a bounded cache.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, time.Time]
	maxAge  time.Duration
	clock   clockwork.Clock
}

func New(size int, maxAge time.Duration) (*Cache, error) {
	return NewWithClock(size, maxAge, clockwork.NewRealClock())
}

func NewWithClock(size int, maxAge time.Duration, clock clockwork.Clock) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	entries, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, err
	}

	return &Cache{entries: entries, maxAge: maxAge, clock: clock}, nil
}

// CheckAndInsert atomically answers whether fingerprint was already admitted.
// Exactly one concurrent caller for a given fingerprint gets Accepted; every
// other caller gets Duplicate while the entry is retained. The lookup bumps
// recency, so least-recently-seen fingerprints are evicted first.
func (c *Cache) CheckAndInsert(fingerprint string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if firstSeen, found := c.entries.Get(fingerprint); found {
		if c.maxAge == 0 || now.Sub(firstSeen) < c.maxAge {
			return Duplicate
		}
		// Aged out beyond the horizon: treated as never seen.
	}

	c.entries.Add(fingerprint, now)
	return Accepted
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
