// Package internal provides the definition required for defining TLB.
package internal

// An Entry binds a page number to a frame number.
type Entry struct {
	PageNumber  uint64
	FrameNumber uint64
}

// A Set holds a fixed number of entries.
type Set interface {
	Lookup(pageNumber uint64) (frameNumber uint64, found bool)
	Insert(pageNumber, frameNumber uint64)
	Entries() []Entry
	Count() int
	Capacity() int
	Reset()
}

// NewFIFOSet creates a set that evicts the oldest inserted entry. If dedup is
// set, inserting a page that is already present overwrites its slot in place.
func NewFIFOSet(capacity int, dedup bool) Set {
	if capacity <= 0 {
		panic("TLB capacity must be positive")
	}

	s := &fifoSet{
		slots: make([]Entry, capacity),
		dedup: dedup,
	}

	return s
}

// fifoSet is a circular buffer. head points to the slot to write next, which
// is also the oldest entry once the buffer has wrapped.
type fifoSet struct {
	slots []Entry
	head  int
	count int
	dedup bool
}

func (s *fifoSet) Lookup(pageNumber uint64) (uint64, bool) {
	wayID, found := s.find(pageNumber)
	if !found {
		return 0, false
	}

	return s.slots[wayID].FrameNumber, true
}

// find scans the occupied slots from the oldest to the newest.
func (s *fifoSet) find(pageNumber uint64) (wayID int, found bool) {
	for i := 0; i < s.count; i++ {
		wayID = s.wayIDAtAge(i)
		if s.slots[wayID].PageNumber == pageNumber {
			return wayID, true
		}
	}

	return 0, false
}

func (s *fifoSet) wayIDAtAge(age int) int {
	if s.count < len(s.slots) {
		return age
	}

	return (s.head + age) % len(s.slots)
}

func (s *fifoSet) Insert(pageNumber, frameNumber uint64) {
	if s.dedup {
		if wayID, found := s.find(pageNumber); found {
			s.slots[wayID].FrameNumber = frameNumber
			return
		}
	}

	s.slots[s.head] = Entry{
		PageNumber:  pageNumber,
		FrameNumber: frameNumber,
	}

	s.head = (s.head + 1) % len(s.slots)

	if s.count < len(s.slots) {
		s.count++
	}
}

// Entries returns the occupied entries, oldest first.
func (s *fifoSet) Entries() []Entry {
	entries := make([]Entry, 0, s.count)
	for i := 0; i < s.count; i++ {
		entries = append(entries, s.slots[s.wayIDAtAge(i)])
	}

	return entries
}

func (s *fifoSet) Count() int {
	return s.count
}

func (s *fifoSet) Capacity() int {
	return len(s.slots)
}

func (s *fifoSet) Reset() {
	for i := range s.slots {
		s.slots[i] = Entry{}
	}

	s.head = 0
	s.count = 0
}
