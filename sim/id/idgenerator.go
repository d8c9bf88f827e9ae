// Package id generates identifiers for the recorded simulation entities.
package id

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

var generator IDGenerator = NewIDGenerator()

// UseGlobalUniqueIDs switches the package level generator to IDs that are
// unique across runs, so that the records of multiple runs can be merged.
func UseGlobalUniqueIDs() {
	generator = NewXIDGenerator()
}

// UseSequentialIDs switches the package level generator back to sequential
// IDs starting from 1.
func UseSequentialIDs() {
	generator = NewIDGenerator()
}

// Generate returns an ID from the package level generator.
func Generate() string {
	return generator.Generate()
}

// NewIDGenerator returns a generator of sequential IDs.
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewXIDGenerator returns a generator of globally unique IDs.
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	id := strconv.FormatUint(idNumber, 10)

	return id
}

type xidGenerator struct {
}

func (g xidGenerator) Generate() string {
	return xid.New().String()
}
