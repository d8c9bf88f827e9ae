package mmu

// Statistics is a snapshot of the counters of an MMU.
type Statistics struct {
	NumAddresses  uint64
	NumPageFaults uint64
	NumTLBHits    uint64
	NumTLBMisses  uint64
	NumPopulated  uint64
	TLBSize       int
	TLBOccupancy  int
}

// HitsPerTLBEntry returns the number of TLB hits divided by the TLB size.
func (s Statistics) HitsPerTLBEntry() float64 {
	return float64(s.NumTLBHits) / float64(s.TLBSize)
}

// MissesPerTLBEntry returns the number of TLB misses divided by the TLB size.
func (s Statistics) MissesPerTLBEntry() float64 {
	return float64(s.NumTLBMisses) / float64(s.TLBSize)
}

// HitRate returns the fraction of translations that hit in the TLB.
func (s Statistics) HitRate() float64 {
	if s.NumAddresses == 0 {
		return 0
	}

	return float64(s.NumTLBHits) / float64(s.NumAddresses)
}

// FaultRate returns the fraction of translations that page faulted.
func (s Statistics) FaultRate() float64 {
	if s.NumAddresses == 0 {
		return 0
	}

	return float64(s.NumPageFaults) / float64(s.NumAddresses)
}
