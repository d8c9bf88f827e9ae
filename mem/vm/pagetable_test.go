package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PageTable", func() {
	var pt PageTable

	BeforeEach(func() {
		pt = NewPageTable(8)
	})

	It("should start with all pages invalid", func() {
		for i := uint64(0); i < pt.NumPages(); i++ {
			_, found := pt.Find(i)
			Expect(found).To(BeFalse())
		}

		Expect(pt.NumValid()).To(Equal(uint64(0)))
	})

	It("should not expose the frame of an invalid page", func() {
		page, found := pt.Find(3)

		Expect(found).To(BeFalse())
		Expect(page.Valid).To(BeFalse())
		Expect(page.FrameNumber).To(Equal(uint64(0)))
	})

	It("should bind pages", func() {
		pt.Bind(3, 7)

		page, found := pt.Find(3)

		Expect(found).To(BeTrue())
		Expect(page.PageNumber).To(Equal(uint64(3)))
		Expect(page.FrameNumber).To(Equal(uint64(7)))
		Expect(pt.NumValid()).To(Equal(uint64(1)))
	})

	It("should overwrite on rebind", func() {
		pt.Bind(3, 7)
		pt.Bind(3, 2)

		page, _ := pt.Find(3)

		Expect(page.FrameNumber).To(Equal(uint64(2)))
		Expect(pt.NumValid()).To(Equal(uint64(1)))
	})

	It("should panic if the page number is out of range", func() {
		Expect(func() { pt.Find(8) }).To(Panic())
		Expect(func() { pt.Bind(9, 0) }).To(Panic())
	})
})
