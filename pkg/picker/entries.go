package picker

import (
	"iter"

	"github.com/filetug/filepick/pkg/files"
)

// EntryList is the listing of one directory on one device, in listing order.
// It is read-only; a new listing replaces it as a whole.
type EntryList struct {
	device  string
	path    string
	entries []files.DirEntry
}

func (l EntryList) Device() string { return l.device }
func (l EntryList) Path() string   { return l.path }
func (l EntryList) Len() int       { return len(l.entries) }
func (l EntryList) At(i int) files.DirEntry {
	return l.entries[i]
}

func (l EntryList) All() iter.Seq2[int, files.DirEntry] {
	return func(yield func(int, files.DirEntry) bool) {
		for i, entry := range l.entries {
			if !yield(i, entry) {
				return
			}
		}
	}
}
