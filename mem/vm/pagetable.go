package vm

import "fmt"

// A Page is an entry in the page table, maintaining the information about how
// to translate a page number to a frame number.
type Page struct {
	PageNumber  uint64
	FrameNumber uint64
	Valid       bool
}

// A PageTable maps page numbers to frame numbers.
type PageTable interface {
	// Find returns the page bound to the page number. The bool return value
	// indicates if the page is valid.
	Find(pageNumber uint64) (Page, bool)

	// Bind maps the page number to the frame number and marks the page
	// valid. Binding an already valid page overwrites the frame number.
	Bind(pageNumber, frameNumber uint64)

	// NumPages returns the number of entries of the table.
	NumPages() uint64

	// NumValid returns the number of valid entries.
	NumValid() uint64
}

// NewPageTable creates a direct-mapped PageTable with one entry per page
// number. All the entries are invalid.
func NewPageTable(numPages uint64) PageTable {
	if numPages == 0 {
		panic("page table must have at least one entry")
	}

	return &pageTableImpl{
		entries: make([]Page, numPages),
	}
}

// pageTableImpl is the default implementation of a Page Table
type pageTableImpl struct {
	entries  []Page
	numValid uint64
}

// Find returns the page bound to the page number.
func (pt *pageTableImpl) Find(pageNumber uint64) (Page, bool) {
	pt.pageNumberMustBeInRange(pageNumber)

	page := pt.entries[pageNumber]
	if !page.Valid {
		return Page{PageNumber: pageNumber}, false
	}

	return page, true
}

// Bind maps a page number to a frame number.
func (pt *pageTableImpl) Bind(pageNumber, frameNumber uint64) {
	pt.pageNumberMustBeInRange(pageNumber)

	if !pt.entries[pageNumber].Valid {
		pt.numValid++
	}

	pt.entries[pageNumber] = Page{
		PageNumber:  pageNumber,
		FrameNumber: frameNumber,
		Valid:       true,
	}
}

func (pt *pageTableImpl) NumPages() uint64 {
	return uint64(len(pt.entries))
}

func (pt *pageTableImpl) NumValid() uint64 {
	return pt.numValid
}

func (pt *pageTableImpl) pageNumberMustBeInRange(pageNumber uint64) {
	if pageNumber >= uint64(len(pt.entries)) {
		panic(fmt.Sprintf("page number %d out of range [0, %d)",
			pageNumber, len(pt.entries)))
	}
}
