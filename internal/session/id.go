package session

import (
	"sync/atomic"
	"time"
)

// idGenerator hands out unix-millisecond-based ids for activities, cycles
// and cycle sub-items. Ids are strictly increasing within a process run, so
// an id is never reused inside a list after a removal.
type idGenerator struct {
	last atomic.Int64
}

func (g *idGenerator) Next() int64 {
	for {
		now := time.Now().UnixMilli()
		last := g.last.Load()
		if now <= last {
			now = last + 1
		}
		if g.last.CompareAndSwap(last, now) {
			return now
		}
	}
}
