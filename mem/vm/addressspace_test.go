package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AddressSpace", func() {
	var as AddressSpace

	BeforeEach(func() {
		as = DefaultAddressSpace()
	})

	It("should split virtual address", func() {
		page, offset := as.SplitVirtual(300)

		Expect(page).To(Equal(uint64(1)))
		Expect(offset).To(Equal(uint64(44)))
	})

	It("should split physical address", func() {
		frame, offset := as.SplitPhysical(500)

		Expect(frame).To(Equal(uint64(1)))
		Expect(offset).To(Equal(uint64(244)))
	})

	It("should reconstruct every virtual address", func() {
		for addr := uint64(0); addr < as.VirtualCapacity(); addr++ {
			page, offset := as.SplitVirtual(addr)

			Expect(page).To(Equal(addr / as.PageSize))
			Expect(offset).To(Equal(addr % as.PageSize))
			Expect(as.JoinVirtual(page, offset)).To(Equal(addr))
		}
	})

	It("should not require power of two sizes", func() {
		as.PageSize = 100
		as.FrameSize = 10

		page, offset := as.SplitVirtual(1234)
		Expect(page).To(Equal(uint64(12)))
		Expect(offset).To(Equal(uint64(34)))

		frame, offset := as.SplitPhysical(1234)
		Expect(frame).To(Equal(uint64(123)))
		Expect(offset).To(Equal(uint64(4)))
		Expect(as.JoinPhysical(frame, offset)).To(Equal(uint64(1234)))
	})

	It("should report capacities", func() {
		Expect(as.VirtualCapacity()).To(Equal(uint64(65536)))
		Expect(as.PhysicalCapacity()).To(Equal(uint64(65536)))
	})

	It("should panic on zero sizes", func() {
		as.FrameSize = 0

		Expect(func() { as.MustBeValid() }).To(Panic())
	})
})
