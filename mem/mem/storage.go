// Package mem provides the storage of the simulated system: the physical
// memory and the backing store that pages are faulted in from.
package mem

import (
	"errors"
	"fmt"
)

// ErrAccessOutOfRange is returned when accessing a frame or an offset beyond
// the capacity of the storage.
var ErrAccessOutOfRange = errors.New(
	"accessing physical address beyond the storage capacity")

// A Storage keeps the data of the physical memory.
//
// The storage is a flat arena of words. The word of a frame and an offset is
// located at frame*frameSize+offset. Words that are never written read as
// zero.
type Storage struct {
	numFrames  uint64
	frameSize  uint64
	data       []int64
	written    []bool
	numWritten uint64
}

// NewStorage creates a storage object with the specified number of frames and
// words per frame.
func NewStorage(numFrames, frameSize uint64) *Storage {
	if numFrames == 0 || frameSize == 0 {
		panic("storage must have at least one frame of at least one word")
	}

	storage := new(Storage)

	storage.numFrames = numFrames
	storage.frameSize = frameSize
	storage.data = make([]int64, numFrames*frameSize)
	storage.written = make([]bool, numFrames*frameSize)

	return storage
}

// Capacity returns the number of words of the storage.
func (s *Storage) Capacity() uint64 {
	return uint64(len(s.data))
}

// NumWritten returns the number of distinct words that have been written.
func (s *Storage) NumWritten() uint64 {
	return s.numWritten
}

func (s *Storage) index(frameNumber, offset uint64) (uint64, error) {
	if frameNumber >= s.numFrames || offset >= s.frameSize {
		return 0, fmt.Errorf("frame %d, offset %d: %w",
			frameNumber, offset, ErrAccessOutOfRange)
	}

	return frameNumber*s.frameSize + offset, nil
}

// Read returns the word stored at the offset of the frame.
func (s *Storage) Read(frameNumber, offset uint64) (int64, error) {
	i, err := s.index(frameNumber, offset)
	if err != nil {
		return 0, err
	}

	return s.data[i], nil
}

// Write stores a word at the offset of the frame.
func (s *Storage) Write(frameNumber, offset uint64, value int64) error {
	i, err := s.index(frameNumber, offset)
	if err != nil {
		return err
	}

	if !s.written[i] {
		s.written[i] = true
		s.numWritten++
	}

	s.data[i] = value

	return nil
}

// ReadAddress returns the word stored at a physical address.
func (s *Storage) ReadAddress(addr uint64) (int64, error) {
	return s.Read(addr/s.frameSize, addr%s.frameSize)
}

// WriteAddress stores a word at a physical address.
func (s *Storage) WriteAddress(addr uint64, value int64) error {
	return s.Write(addr/s.frameSize, addr%s.frameSize, value)
}
