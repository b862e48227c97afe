package engine

import "wallettrack/internal/core"

// entry holds the last computed value of one projection plus its
// staleness flag. A stale entry must be recomputed before it is handed to
// a consumer.
type entry[T any] struct {
	value T
	fresh bool
}

// projectionCache starts with all three entries stale; values are zero
// until the first recompute fills them in.
type projectionCache struct {
	category entry[core.CategoryBreakdown]
	monthly  entry[core.MonthlySeries]
	daily    entry[core.DailyBalance]
}

func (c *projectionCache) invalidateAll() {
	c.category.fresh = false
	c.monthly.fresh = false
	c.daily.fresh = false
}

func (c *projectionCache) freshFor(v View) bool {
	switch v {
	case ViewCategory:
		return c.category.fresh
	case ViewMonthly:
		return c.monthly.fresh
	case ViewDaily:
		return c.daily.fresh
	}
	return false
}
