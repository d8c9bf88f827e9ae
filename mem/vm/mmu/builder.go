package mmu

import (
	"github.com/sarchlab/vmsim/mem/mem"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
	"github.com/sarchlab/vmsim/sim/naming"
)

// A Builder can build MMU component
type Builder struct {
	addressSpace vm.AddressSpace
	mode         Mode
	tlbSize      int
	tlbDedup     bool
	pageTable    vm.PageTable
	backingStore *mem.BackingStore
	storage      *mem.Storage
}

// MakeBuilder creates a new builder
func MakeBuilder() Builder {
	return Builder{
		addressSpace: vm.DefaultAddressSpace(),
		mode:         ModeDemandPaging,
		tlbSize:      16,
		tlbDedup:     true,
	}
}

// WithAddressSpace sets the number and the size of pages and frames.
func (b Builder) WithAddressSpace(as vm.AddressSpace) Builder {
	b.addressSpace = as
	return b
}

// WithMode sets how page table misses are handled.
func (b Builder) WithMode(mode Mode) Builder {
	b.mode = mode
	return b
}

// WithTLBSize sets the number of TLB entries.
func (b Builder) WithTLBSize(n int) Builder {
	b.tlbSize = n
	return b
}

// WithTLBDeduplication sets whether the TLB overwrites an existing entry of
// the same page in place.
func (b Builder) WithTLBDeduplication(dedup bool) Builder {
	b.tlbDedup = dedup
	return b
}

// WithPageTable sets the page table that the MMU uses. The page table must
// have one entry per page of the address space.
func (b Builder) WithPageTable(pageTable vm.PageTable) Builder {
	b.pageTable = pageTable
	return b
}

// WithBackingStore sets the backing store that page faults are resolved from.
func (b Builder) WithBackingStore(bs *mem.BackingStore) Builder {
	b.backingStore = bs
	return b
}

// WithStorage sets the physical memory. The storage must be as large as the
// physical address space.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	return b
}

func (b Builder) parametersMustBeValid() {
	b.addressSpace.MustBeValid()

	if b.tlbSize <= 0 {
		panic("TLB size must be positive")
	}

	if b.pageTable != nil &&
		b.pageTable.NumPages() != b.addressSpace.MaxNumOfPages {
		panic("page table size does not match the number of pages")
	}

	if b.storage != nil &&
		b.storage.Capacity() != b.addressSpace.PhysicalCapacity() {
		panic("storage capacity does not match the physical address space")
	}
}

// Build returns a newly created MMU component
func (b Builder) Build(name string) *Comp {
	naming.NameMustBeValid(name)
	b.parametersMustBeValid()

	mmu := &Comp{
		name:         name,
		mode:         b.mode,
		addressSpace: b.addressSpace,
		pageTable:    b.pageTable,
		backingStore: b.backingStore,
		storage:      b.storage,
	}

	mmu.tlb = tlb.MakeBuilder().
		WithNumEntries(b.tlbSize).
		WithDeduplication(b.tlbDedup).
		Build(naming.BuildName(name, "TLB"))

	if mmu.pageTable == nil {
		mmu.pageTable = vm.NewPageTable(b.addressSpace.MaxNumOfPages)
	}

	if mmu.backingStore == nil {
		mmu.backingStore = mem.NewBackingStore()
	}

	if mmu.storage == nil {
		mmu.storage = mem.NewStorage(
			b.addressSpace.NumOfFrames, b.addressSpace.FrameSize)
	}

	return mmu
}
