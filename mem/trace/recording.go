package trace

import (
	"context"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
)

// LocatedStatistics are the final counters of the MMU named by Location.
type LocatedStatistics struct {
	Location string
	mmu.Statistics
}

// RecordingReader reads the tables written by a DBTracer.
type RecordingReader struct {
	reader datarecording.DataReader
}

// NewRecordingReader creates a RecordingReader on top of a DataReader.
func NewRecordingReader(reader datarecording.DataReader) *RecordingReader {
	reader.MapTable("translations", translationEntry{})
	reader.MapTable("statistics", statisticsEntry{})

	return &RecordingReader{reader: reader}
}

// Statistics returns the final counters of every recorded MMU.
func (r *RecordingReader) Statistics(
	ctx context.Context,
) ([]LocatedStatistics, error) {
	results, _, err := r.reader.Query(ctx, "statistics",
		datarecording.QueryParams{OrderBy: "Location"})
	if err != nil {
		return nil, err
	}

	stats := make([]LocatedStatistics, 0, len(results))

	for _, res := range results {
		entry := res.(*statisticsEntry)
		stats = append(stats, LocatedStatistics{
			Location: entry.Location,
			Statistics: mmu.Statistics{
				NumAddresses:  entry.NumAddresses,
				NumPageFaults: entry.NumPageFaults,
				NumTLBHits:    entry.NumTLBHits,
				NumTLBMisses:  entry.NumTLBMisses,
				NumPopulated:  entry.NumPopulated,
				TLBSize:       entry.TLBSize,
				TLBOccupancy:  entry.TLBOccupancy,
			},
		})
	}

	return stats, nil
}

// PageFaults returns the translations that caused a page fault, in
// translation order, together with the total number of faulting translations.
// A limit of 0 returns all of them.
func (r *RecordingReader) PageFaults(
	ctx context.Context,
	limit int,
) ([]mmu.TranslationEvent, int, error) {
	results, total, err := r.reader.Query(ctx, "translations",
		datarecording.QueryParams{
			Where:   "PageFault = ?",
			Args:    []any{true},
			OrderBy: "Seq",
			Limit:   limit,
		})
	if err != nil {
		return nil, 0, err
	}

	events := make([]mmu.TranslationEvent, 0, len(results))

	for _, res := range results {
		entry := res.(*translationEntry)
		events = append(events, mmu.TranslationEvent{
			Seq:         entry.Seq,
			VAddr:       entry.VAddr,
			PageNumber:  entry.PageNumber,
			Offset:      entry.Offset,
			FrameNumber: entry.FrameNumber,
			Value:       entry.Value,
			TLBHit:      entry.TLBHit,
			PageFault:   entry.PageFault,
		})
	}

	return events, total, nil
}

// Close closes the underlying reader.
func (r *RecordingReader) Close() error {
	return r.reader.Close()
}
