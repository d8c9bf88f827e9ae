package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
)

func printTranslation(w io.Writer, vAddr uint64, value int64) {
	fmt.Fprintf(w, "%d >> %d\n", vAddr, value)
}

func printStatistics(w io.Writer, stats mmu.Statistics) {
	fmt.Fprintf(w, "\n=========== STATISTICS ===========\n")
	fmt.Fprintf(w, "Number of addresses: %d\n", stats.NumAddresses)
	fmt.Fprintf(w, "Populated records: %d\n", stats.NumPopulated)
	fmt.Fprintf(w, "Page faults: %d\n", stats.NumPageFaults)
	fmt.Fprintf(w, "TLB hits: %d\n", stats.NumTLBHits)
	fmt.Fprintf(w, "TLB misses: %d\n", stats.NumTLBMisses)

	fmt.Fprintf(w, "\n=========== BY SIZE ===========\n")
	fmt.Fprintf(w, "size of TLB: %d\n", stats.TLBSize)
	fmt.Fprintf(w, "TLB hits by size: %f\n", stats.HitsPerTLBEntry())
	fmt.Fprintf(w, "TLB misses by size: %f\n\n", stats.MissesPerTLBEntry())
}

func printTLB(w io.Writer, entries []tlb.Entry) {
	fmt.Fprintf(w, "=========== TLB Table ===========\n")

	for _, e := range entries {
		fmt.Fprintf(w, "TLB: %d -> %d\n", e.PageNumber, e.FrameNumber)
	}
}

func printPageFaults(w io.Writer, faults []mmu.TranslationEvent, total int) {
	fmt.Fprintf(w, "=========== PAGE FAULTS ===========\n")

	for _, f := range faults {
		fmt.Fprintf(w, "#%d: %d (page %d) -> frame %d, value %d\n",
			f.Seq, f.VAddr, f.PageNumber, f.FrameNumber, f.Value)
	}

	if total > len(faults) {
		fmt.Fprintf(w, "... %d more\n", total-len(faults))
	}
}

func printLocatedStatistics(w io.Writer, stats []trace.LocatedStatistics) {
	for _, s := range stats {
		fmt.Fprintf(w, "%s\n", s.Location)
		printStatistics(w, s.Statistics)
	}
}
