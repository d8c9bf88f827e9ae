package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("HookableBase", func() {
	var (
		mockCtrl *gomock.Controller
		base     *HookableBase
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		base = &HookableBase{}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should invoke hooks in order", func() {
		hook1 := NewMockHook(mockCtrl)
		hook2 := NewMockHook(mockCtrl)
		pos := &HookPos{Name: "Pos"}
		ctx := HookCtx{Pos: pos, Item: 1}

		base.AcceptHook(hook1)
		base.AcceptHook(hook2)

		gomock.InOrder(
			hook1.EXPECT().Func(ctx),
			hook2.EXPECT().Func(ctx),
		)

		base.InvokeHook(ctx)

		Expect(base.NumHooks()).To(Equal(2))
		Expect(base.Hooks()).To(HaveLen(2))
	})

	It("should panic on duplicated hook", func() {
		hook := NewMockHook(mockCtrl)
		base.AcceptHook(hook)

		Expect(func() { base.AcceptHook(hook) }).To(Panic())
	})
})

var _ = Describe("PosCountTracer", func() {
	It("should count positions", func() {
		t := NewPosCountTracer()
		posA := &HookPos{Name: "A"}
		posB := &HookPos{Name: "B"}

		t.Func(HookCtx{Pos: posB})
		t.Func(HookCtx{Pos: posA})
		t.Func(HookCtx{Pos: posB})
		t.Func(HookCtx{})

		Expect(t.GetPosNames()).To(Equal([]string{"B", "A"}))
		Expect(t.GetPosCount("A")).To(Equal(uint64(1)))
		Expect(t.GetPosCount("B")).To(Equal(uint64(2)))
		Expect(t.GetPosCount("C")).To(Equal(uint64(0)))
	})
})
