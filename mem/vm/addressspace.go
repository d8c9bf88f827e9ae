// Package vm provides the building blocks of virtual memory translation:
// address splitting and the page table.
package vm

// An AddressSpace describes the geometry of the virtual and the physical
// address spaces.
type AddressSpace struct {
	MaxNumOfPages uint64
	PageSize      uint64
	NumOfFrames   uint64
	FrameSize     uint64
}

// DefaultAddressSpace returns 256 pages and 256 frames of 256 words each.
func DefaultAddressSpace() AddressSpace {
	return AddressSpace{
		MaxNumOfPages: 256,
		PageSize:      256,
		NumOfFrames:   256,
		FrameSize:     256,
	}
}

// MustBeValid panics if any of the sizes is zero.
func (as AddressSpace) MustBeValid() {
	if as.MaxNumOfPages == 0 {
		panic("number of pages must be positive")
	}

	if as.PageSize == 0 {
		panic("page size must be positive")
	}

	if as.NumOfFrames == 0 {
		panic("number of frames must be positive")
	}

	if as.FrameSize == 0 {
		panic("frame size must be positive")
	}
}

// SplitVirtual returns the page number and the in-page offset of a virtual
// address.
func (as AddressSpace) SplitVirtual(addr uint64) (pageNumber, offset uint64) {
	return addr / as.PageSize, addr % as.PageSize
}

// SplitPhysical returns the frame number and the in-frame offset of a
// physical address.
func (as AddressSpace) SplitPhysical(addr uint64) (frameNumber, offset uint64) {
	return addr / as.FrameSize, addr % as.FrameSize
}

// JoinVirtual is the inverse of SplitVirtual.
func (as AddressSpace) JoinVirtual(pageNumber, offset uint64) uint64 {
	return pageNumber*as.PageSize + offset
}

// JoinPhysical is the inverse of SplitPhysical.
func (as AddressSpace) JoinPhysical(frameNumber, offset uint64) uint64 {
	return frameNumber*as.FrameSize + offset
}

// VirtualCapacity returns the number of addressable virtual words.
func (as AddressSpace) VirtualCapacity() uint64 {
	return as.MaxNumOfPages * as.PageSize
}

// PhysicalCapacity returns the number of addressable physical words.
func (as AddressSpace) PhysicalCapacity() uint64 {
	return as.NumOfFrames * as.FrameSize
}
