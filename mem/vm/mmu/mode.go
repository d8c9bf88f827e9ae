package mmu

import "fmt"

// Mode determines how the MMU handles a page table miss.
type Mode int

const (
	// ModeDemandPaging resolves page faults from the backing store.
	ModeDemandPaging Mode = iota

	// ModePrebuilt expects the page table to be filled at population time.
	// Page faults are counted and reported with FaultValue.
	ModePrebuilt
)

func (m Mode) String() string {
	switch m {
	case ModeDemandPaging:
		return "demand"
	case ModePrebuilt:
		return "prebuilt"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts the name of a mode to the mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "demand", "demand-paging":
		return ModeDemandPaging, nil
	case "prebuilt":
		return ModePrebuilt, nil
	default:
		return 0, fmt.Errorf(
			"unknown mode %q, allowed values are `demand` and `prebuilt`",
			name)
	}
}
