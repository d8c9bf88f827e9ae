// Package trace reads the simulation inputs and records what happens in the
// MMU.
package trace

import (
	"log"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/sarchlab/vmsim/sim/hooking"
	"github.com/sarchlab/vmsim/sim/id"
)

// translationEntry represents a translation in the database
type translationEntry struct {
	ID          string
	Location    string
	Seq         uint64
	VAddr       uint64
	PageNumber  uint64
	Offset      uint64
	FrameNumber uint64
	Value       int64
	TLBHit      bool
	PageFault   bool
}

// statisticsEntry represents the counters of an MMU at the end of a run
type statisticsEntry struct {
	Location      string
	NumAddresses  uint64
	NumPageFaults uint64
	NumTLBHits    uint64
	NumTLBMisses  uint64
	NumPopulated  uint64
	TLBSize       int
	TLBOccupancy  int
}

// A tracer is a hook that writes the steps of every translation into a log.
type tracer struct {
	logger *log.Logger
}

// NewTracer creates a hook that logs every step of every translation.
func NewTracer(logger *log.Logger) hooking.Hook {
	return &tracer{logger: logger}
}

func (t *tracer) Func(ctx hooking.HookCtx) {
	evt, ok := ctx.Item.(mmu.TranslationEvent)
	if !ok {
		return
	}

	if ctx.Pos == mmu.HookPosTranslated {
		t.logger.Printf("%s, %d, %s, %d, frame %d, offset %d, value %d\n",
			ctx.Pos.Name, evt.Seq, ctx.Domain.Name(),
			evt.VAddr, evt.FrameNumber, evt.Offset, evt.Value)

		return
	}

	t.logger.Printf("%s, %d, %s, %d, page %d, offset %d\n",
		ctx.Pos.Name, evt.Seq, ctx.Domain.Name(),
		evt.VAddr, evt.PageNumber, evt.Offset)
}

// A DBTracer is a hook that records every translation into a database.
type DBTracer struct {
	dataRecorder datarecording.DataRecorder
}

// NewDBTracer creates a new database-based tracer.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{
		dataRecorder: dataRecorder,
	}

	t.dataRecorder.CreateTable("translations", translationEntry{})
	t.dataRecorder.CreateTable("statistics", statisticsEntry{})

	return t
}

// Func records completed translations.
func (t *DBTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != mmu.HookPosTranslated {
		return
	}

	evt, ok := ctx.Item.(mmu.TranslationEvent)
	if !ok {
		return
	}

	entry := translationEntry{
		ID:          id.Generate(),
		Location:    ctx.Domain.Name(),
		Seq:         evt.Seq,
		VAddr:       evt.VAddr,
		PageNumber:  evt.PageNumber,
		Offset:      evt.Offset,
		FrameNumber: evt.FrameNumber,
		Value:       evt.Value,
		TLBHit:      evt.TLBHit,
		PageFault:   evt.PageFault,
	}

	t.dataRecorder.InsertData("translations", entry)
}

// RecordStatistics stores the final counters of an MMU and flushes the
// recorder.
func (t *DBTracer) RecordStatistics(location string, stats mmu.Statistics) {
	entry := statisticsEntry{
		Location:      location,
		NumAddresses:  stats.NumAddresses,
		NumPageFaults: stats.NumPageFaults,
		NumTLBHits:    stats.NumTLBHits,
		NumTLBMisses:  stats.NumTLBMisses,
		NumPopulated:  stats.NumPopulated,
		TLBSize:       stats.TLBSize,
		TLBOccupancy:  stats.TLBOccupancy,
	}

	t.dataRecorder.InsertData("statistics", entry)
	t.dataRecorder.Flush()
}
