package physics

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedEstimator memoises results of a deterministic estimator.
type CachedEstimator struct {
	next   Estimator
	cache  *lru.Cache[Request, Result]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewCachedEstimator(next Estimator, size int) (*CachedEstimator, error) {
	if next == nil {
		next = Callaway
	}
	cache, err := lru.New[Request, Result](size)
	if err != nil {
		return nil, err
	}
	return &CachedEstimator{next: next, cache: cache}, nil
}

func (c *CachedEstimator) Estimate(req Request) Result {
	if res, ok := c.cache.Get(req); ok {
		c.hits.Add(1)
		return res
	}
	c.misses.Add(1)
	res := c.next.Estimate(req)
	c.cache.Add(req, res)
	return res
}

// Stats returns cumulative hit and miss counts.
func (c *CachedEstimator) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached results.
func (c *CachedEstimator) Len() int {
	return c.cache.Len()
}
