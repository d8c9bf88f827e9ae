package cmd

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
)

var _ = Describe("Report", func() {
	var (
		buf *bytes.Buffer
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
	})

	It("should print a translation", func() {
		printTranslation(buf, 16916, 0)

		Expect(buf.String()).To(Equal("16916 >> 0\n"))
	})

	It("should print the ratios by TLB size", func() {
		printStatistics(buf, mmu.Statistics{
			NumAddresses:  1000,
			NumPageFaults: 244,
			NumTLBHits:    55,
			NumTLBMisses:  945,
			TLBSize:       16,
		})

		Expect(buf.String()).To(ContainSubstring("Page faults: 244\n"))
		Expect(buf.String()).To(ContainSubstring("TLB hits by size: 3.437500\n"))
		Expect(buf.String()).To(ContainSubstring(
			"TLB misses by size: 59.062500\n"))
	})

	It("should print the TLB oldest first", func() {
		printTLB(buf, []tlb.Entry{
			{PageNumber: 4, FrameNumber: 9},
			{PageNumber: 1, FrameNumber: 2},
		})

		Expect(buf.String()).To(Equal(
			"=========== TLB Table ===========\n" +
				"TLB: 4 -> 9\n" +
				"TLB: 1 -> 2\n"))
	})

	It("should print the number of omitted faults", func() {
		printPageFaults(buf, []mmu.TranslationEvent{
			{Seq: 3, VAddr: 300, PageNumber: 1, FrameNumber: 1, Value: 42},
		}, 5)

		Expect(buf.String()).To(HaveSuffix("... 4 more\n"))
	})
})
