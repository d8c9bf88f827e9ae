package mmu

import "github.com/sarchlab/vmsim/sim/hooking"

// Hook positions of the MMU. The item of the hook context is a
// TranslationEvent.
var (
	HookPosTLBHit       = &hooking.HookPos{Name: "TLBHit"}
	HookPosTLBMiss      = &hooking.HookPos{Name: "TLBMiss"}
	HookPosPageTableHit = &hooking.HookPos{Name: "PageTableHit"}
	HookPosPageFault    = &hooking.HookPos{Name: "PageFault"}
	HookPosTranslated   = &hooking.HookPos{Name: "Translated"}
)

// A TranslationEvent describes the progress of one translation. FrameNumber
// and Value are only set at HookPosTranslated.
type TranslationEvent struct {
	Seq         uint64
	VAddr       uint64
	PageNumber  uint64
	Offset      uint64
	FrameNumber uint64
	Value       int64
	TLBHit      bool
	PageFault   bool
}
