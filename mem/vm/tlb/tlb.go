// Package tlb provides a translation lookaside buffer that caches page to
// frame bindings with a first-in-first-out replacement policy.
package tlb

import (
	"github.com/sarchlab/vmsim/mem/vm/tlb/internal"
)

// Entry is a page to frame binding held by a TLB.
type Entry = internal.Entry

// Comp is a fully associative TLB.
type Comp struct {
	name string
	set  internal.Set

	NumHits   uint64
	NumMisses uint64
}

// Name returns the name of the TLB.
func (c *Comp) Name() string {
	return c.name
}

// Lookup searches the TLB for the page number. Every lookup is counted as
// either a hit or a miss.
func (c *Comp) Lookup(pageNumber uint64) (frameNumber uint64, found bool) {
	frameNumber, found = c.set.Lookup(pageNumber)
	if found {
		c.NumHits++
		return frameNumber, true
	}

	c.NumMisses++

	return 0, false
}

// Insert adds a binding, evicting the oldest inserted entry if the TLB is
// full. Hits do not change the eviction order.
func (c *Comp) Insert(pageNumber, frameNumber uint64) {
	c.set.Insert(pageNumber, frameNumber)
}

// Entries returns the current entries, oldest first.
func (c *Comp) Entries() []Entry {
	return c.set.Entries()
}

// Occupancy returns the number of occupied entries.
func (c *Comp) Occupancy() int {
	return c.set.Count()
}

// Capacity returns the number of entries the TLB can hold.
func (c *Comp) Capacity() int {
	return c.set.Capacity()
}

// Reset flushes all the entries. The hit and miss counters are kept.
func (c *Comp) Reset() {
	c.set.Reset()
}
