package tlb

import (
	"github.com/sarchlab/vmsim/mem/vm/tlb/internal"
	"github.com/sarchlab/vmsim/sim/naming"
)

// A Builder can build TLBs
type Builder struct {
	numEntries int
	dedup      bool
}

// MakeBuilder returns a Builder
func MakeBuilder() Builder {
	return Builder{
		numEntries: 16,
		dedup:      true,
	}
}

// WithNumEntries sets the number of entries of the TLB.
func (b Builder) WithNumEntries(n int) Builder {
	b.numEntries = n
	return b
}

// WithDeduplication sets whether inserting a page that is already cached
// overwrites the cached entry in place. When disabled, every insertion is
// written at the FIFO cursor and duplicates live until they are evicted.
func (b Builder) WithDeduplication(dedup bool) Builder {
	b.dedup = dedup
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.numEntries <= 0 {
		panic("number of TLB entries must be positive")
	}
}

// Build creates a new TLB
func (b Builder) Build(name string) *Comp {
	naming.NameMustBeValid(name)
	b.parametersMustBeValid()

	return &Comp{
		name: name,
		set:  internal.NewFIFOSet(b.numEntries, b.dedup),
	}
}
