package hooking

// PosCountTracer counts how many times each hook position is triggered.
type PosCountTracer struct {
	posNames []string
	posCount map[string]uint64
}

// NewPosCountTracer creates a new PosCountTracer
func NewPosCountTracer() *PosCountTracer {
	return &PosCountTracer{
		posCount: make(map[string]uint64),
	}
}

// Func counts the position of the hook context.
func (t *PosCountTracer) Func(ctx HookCtx) {
	if ctx.Pos == nil {
		return
	}

	_, ok := t.posCount[ctx.Pos.Name]
	if !ok {
		t.posNames = append(t.posNames, ctx.Pos.Name)
	}

	t.posCount[ctx.Pos.Name]++
}

// GetPosNames returns the position names in the order they are first seen.
func (t *PosCountTracer) GetPosNames() []string {
	return t.posNames
}

// GetPosCount returns the number of times a position is triggered.
func (t *PosCountTracer) GetPosCount(posName string) uint64 {
	return t.posCount[posName]
}
