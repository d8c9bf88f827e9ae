package mem

// A BackingStoreEntry is the physical address and the value that a virtual
// address is backed by.
type BackingStoreEntry struct {
	PhysicalAddress uint64
	Value           int64
}

// A BackingStore holds the data of the pages that are not resident in the
// physical memory. It is filled before the simulation starts and only read
// when a page fault happens.
type BackingStore struct {
	entries map[uint64]BackingStoreEntry
}

// NewBackingStore creates an empty backing store.
func NewBackingStore() *BackingStore {
	return &BackingStore{
		entries: make(map[uint64]BackingStoreEntry),
	}
}

// Populate records the physical address and the value of a virtual address.
// A later call with the same virtual address overwrites the earlier one.
func (b *BackingStore) Populate(vAddr, pAddr uint64, value int64) {
	b.entries[vAddr] = BackingStoreEntry{
		PhysicalAddress: pAddr,
		Value:           value,
	}
}

// Resolve returns the entry of a virtual address. The bool return value
// indicates if the address has ever been populated.
func (b *BackingStore) Resolve(vAddr uint64) (BackingStoreEntry, bool) {
	entry, found := b.entries[vAddr]
	return entry, found
}

// Len returns the number of populated virtual addresses.
func (b *BackingStore) Len() int {
	return len(b.entries)
}
