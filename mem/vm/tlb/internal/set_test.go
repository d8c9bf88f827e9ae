package internal

import (
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("FIFO Set", func() {
	ginkgo.Context("with deduplication", func() {
		var s Set

		ginkgo.BeforeEach(func() {
			s = NewFIFOSet(4, true)
		})

		ginkgo.It("should miss when empty", func() {
			_, found := s.Lookup(0)

			Expect(found).To(BeFalse())
		})

		ginkgo.It("should not match the zero page of an empty slot", func() {
			s.Insert(5, 1)

			_, found := s.Lookup(0)

			Expect(found).To(BeFalse())
		})

		ginkgo.It("should overwrite an existing page in place", func() {
			s.Insert(1, 10)
			s.Insert(2, 20)
			s.Insert(1, 11)

			frame, found := s.Lookup(1)

			Expect(found).To(BeTrue())
			Expect(frame).To(Equal(uint64(11)))
			Expect(s.Count()).To(Equal(2))
			Expect(s.Entries()).To(Equal([]Entry{
				{PageNumber: 1, FrameNumber: 11},
				{PageNumber: 2, FrameNumber: 20},
			}))
		})

		ginkgo.It("should wrap the cursor", func() {
			for page := uint64(0); page < 6; page++ {
				s.Insert(page, page)
			}

			Expect(s.Entries()).To(Equal([]Entry{
				{PageNumber: 2, FrameNumber: 2},
				{PageNumber: 3, FrameNumber: 3},
				{PageNumber: 4, FrameNumber: 4},
				{PageNumber: 5, FrameNumber: 5},
			}))
		})
	})

	ginkgo.Context("without deduplication", func() {
		var s Set

		ginkgo.BeforeEach(func() {
			s = NewFIFOSet(3, false)
		})

		ginkgo.It("should keep duplicates until they are overwritten", func() {
			s.Insert(1, 10)
			s.Insert(1, 10)

			Expect(s.Count()).To(Equal(2))

			s.Insert(2, 20)
			s.Insert(3, 30)

			Expect(s.Entries()).To(Equal([]Entry{
				{PageNumber: 1, FrameNumber: 10},
				{PageNumber: 2, FrameNumber: 20},
				{PageNumber: 3, FrameNumber: 30},
			}))

			s.Insert(4, 40)

			_, found := s.Lookup(1)
			Expect(found).To(BeFalse())
		})
	})

	ginkgo.It("should panic on non-positive capacity", func() {
		Expect(func() { NewFIFOSet(0, true) }).To(Panic())
	})
})
