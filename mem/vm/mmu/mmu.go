// Package mmu provides the component that translates virtual addresses to the
// values stored in physical memory.
package mmu

import (
	"errors"
	"fmt"

	"github.com/sarchlab/vmsim/mem/mem"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
	"github.com/sarchlab/vmsim/sim/hooking"
)

// FaultValue is returned for a page fault that is not resolved.
const FaultValue int64 = -1

var (
	// ErrVirtualAddressOutOfRange is returned for virtual addresses beyond the
	// virtual address space.
	ErrVirtualAddressOutOfRange = errors.New(
		"virtual address beyond the virtual address space")

	// ErrUnresolvableFault is returned when a faulting address is not in the
	// backing store.
	ErrUnresolvableFault = errors.New(
		"page fault cannot be resolved from the backing store")
)

// A Record is a line of the population input.
type Record struct {
	VAddr uint64
	PAddr uint64
	Value int64
}

// Comp is the default mmu implementation. It owns the TLB, the page table, the
// backing store, and the physical memory.
//
// Translations must be issued one at a time. The TLB eviction order and the
// counters depend on the order of the translations.
type Comp struct {
	hooking.HookableBase

	name         string
	mode         Mode
	addressSpace vm.AddressSpace
	tlb          *tlb.Comp
	pageTable    vm.PageTable
	backingStore *mem.BackingStore
	storage      *mem.Storage

	NumAddresses  uint64
	NumPageFaults uint64
	NumPopulated  uint64
}

// Name returns the name of the MMU.
func (c *Comp) Name() string {
	return c.name
}

// Mode returns how the MMU handles page faults.
func (c *Comp) Mode() Mode {
	return c.mode
}

// AddressSpace returns the geometry of the address spaces.
func (c *Comp) AddressSpace() vm.AddressSpace {
	return c.addressSpace
}

// TLB returns the TLB of the MMU.
func (c *Comp) TLB() *tlb.Comp {
	return c.tlb
}

// PageTable returns the page table of the MMU.
func (c *Comp) PageTable() vm.PageTable {
	return c.pageTable
}

// BackingStore returns the backing store of the MMU.
func (c *Comp) BackingStore() *mem.BackingStore {
	return c.backingStore
}

// Storage returns the physical memory of the MMU.
func (c *Comp) Storage() *mem.Storage {
	return c.storage
}

// Populate loads a record into the backing store. In the prebuilt mode, the
// page table and the physical memory are also filled, so that no page fault
// is ever resolved at translation time.
func (c *Comp) Populate(rec Record) error {
	if rec.VAddr >= c.addressSpace.VirtualCapacity() {
		return fmt.Errorf("populating virtual address %d: %w",
			rec.VAddr, ErrVirtualAddressOutOfRange)
	}

	if c.mode == ModePrebuilt {
		err := c.storage.WriteAddress(rec.PAddr, rec.Value)
		if err != nil {
			return fmt.Errorf("populating physical address %d: %w",
				rec.PAddr, err)
		}

		pageNumber, _ := c.addressSpace.SplitVirtual(rec.VAddr)
		frameNumber, _ := c.addressSpace.SplitPhysical(rec.PAddr)
		c.pageTable.Bind(pageNumber, frameNumber)
	}

	c.backingStore.Populate(rec.VAddr, rec.PAddr, rec.Value)
	c.NumPopulated++

	return nil
}

// Translate returns the value that the virtual address refers to.
//
// The TLB is searched first. On a TLB miss, the page table is searched and the
// binding is cached in the TLB. On a page table miss, the page is faulted in
// from the backing store in the demand paging mode. In the prebuilt mode, the
// fault is counted and FaultValue is returned without changing any state.
func (c *Comp) Translate(vAddr uint64) (int64, error) {
	if vAddr >= c.addressSpace.VirtualCapacity() {
		return 0, fmt.Errorf("translating virtual address %d: %w",
			vAddr, ErrVirtualAddressOutOfRange)
	}

	c.NumAddresses++

	pageNumber, offset := c.addressSpace.SplitVirtual(vAddr)
	evt := TranslationEvent{
		Seq:        c.NumAddresses,
		VAddr:      vAddr,
		PageNumber: pageNumber,
		Offset:     offset,
	}

	frameNumber, found := c.tlb.Lookup(pageNumber)
	if found {
		evt.TLBHit = true
		c.invokeHook(HookPosTLBHit, evt)
	} else {
		c.invokeHook(HookPosTLBMiss, evt)

		var err error

		frameNumber, found, err = c.walkPageTable(&evt)
		if err != nil {
			return 0, err
		}

		if !found {
			evt.Value = FaultValue
			c.invokeHook(HookPosTranslated, evt)

			return FaultValue, nil
		}
	}

	evt.FrameNumber = frameNumber

	value, err := c.storage.Read(frameNumber, offset)
	if err != nil {
		return 0, fmt.Errorf("translating virtual address %d: %w", vAddr, err)
	}

	evt.Value = value
	c.invokeHook(HookPosTranslated, evt)

	return value, nil
}

func (c *Comp) walkPageTable(
	evt *TranslationEvent,
) (frameNumber uint64, found bool, err error) {
	page, found := c.pageTable.Find(evt.PageNumber)
	if found {
		c.invokeHook(HookPosPageTableHit, *evt)
		c.tlb.Insert(evt.PageNumber, page.FrameNumber)

		return page.FrameNumber, true, nil
	}

	c.NumPageFaults++
	evt.PageFault = true
	c.invokeHook(HookPosPageFault, *evt)

	if c.mode == ModePrebuilt {
		return 0, false, nil
	}

	frameNumber, err = c.resolvePageFault(evt)
	if err != nil {
		return 0, false, err
	}

	return frameNumber, true, nil
}

// resolvePageFault binds the page to the frame that the backing store assigns
// to the address and materializes the referenced word only. Nothing is bound
// if the frame is beyond the physical memory.
func (c *Comp) resolvePageFault(evt *TranslationEvent) (uint64, error) {
	entry, found := c.backingStore.Resolve(evt.VAddr)
	if !found {
		return 0, fmt.Errorf("translating virtual address %d: %w",
			evt.VAddr, ErrUnresolvableFault)
	}

	frameNumber := entry.PhysicalAddress / c.addressSpace.FrameSize

	err := c.storage.Write(frameNumber, evt.Offset, entry.Value)
	if err != nil {
		return 0, fmt.Errorf("resolving page fault of virtual address %d: %w",
			evt.VAddr, err)
	}

	c.pageTable.Bind(evt.PageNumber, frameNumber)
	c.tlb.Insert(evt.PageNumber, frameNumber)

	return frameNumber, nil
}

func (c *Comp) invokeHook(pos *hooking.HookPos, evt TranslationEvent) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   evt,
	})
}

// Stats returns a snapshot of the counters.
func (c *Comp) Stats() Statistics {
	return Statistics{
		NumAddresses:  c.NumAddresses,
		NumPageFaults: c.NumPageFaults,
		NumTLBHits:    c.tlb.NumHits,
		NumTLBMisses:  c.tlb.NumMisses,
		NumPopulated:  c.NumPopulated,
		TLBSize:       c.tlb.Capacity(),
		TLBOccupancy:  c.tlb.Occupancy(),
	}
}
