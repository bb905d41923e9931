package files

import (
	"os"
	"strings"
	"time"
)

// EntryKind tells files, directories and everything else apart.
type EntryKind uint8

const (
	KindOther EntryKind = iota
	KindFile
	KindDirectory
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "other"
	}
}

// KindFromMode maps an os.FileMode to an EntryKind. Symlinks are not followed.
func KindFromMode(mode os.FileMode) EntryKind {
	switch {
	case mode.IsDir():
		return KindDirectory
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

type DirEntryOption func(*DirEntry)

func Size(v int64) DirEntryOption {
	return func(e *DirEntry) {
		e.size = v
	}
}

func ModTime(v time.Time) DirEntryOption {
	return func(e *DirEntry) {
		e.modTime = v
	}
}

func NewDirEntry(name string, kind EntryKind, o ...DirEntryOption) DirEntry {
	if strings.Contains(name, "/") {
		// It's OK to have panic here.
		panic("dir entry name can not have path: " + name)
	}
	dirEntry := DirEntry{
		name: name,
		kind: kind,
	}
	for _, opt := range o {
		opt(&dirEntry)
	}
	if dirEntry.size < 0 || kind != KindFile && kind != KindOther {
		dirEntry.size = 0
	}
	return dirEntry
}

var _ os.DirEntry = (*DirEntry)(nil)

// DirEntry is one child of a listed directory. It is immutable.
type DirEntry struct {
	name    string
	kind    EntryKind
	size    int64
	modTime time.Time
}

func (d DirEntry) Name() string       { return d.name }
func (d DirEntry) Kind() EntryKind    { return d.kind }
func (d DirEntry) Size() int64        { return d.size }
func (d DirEntry) ModTime() time.Time { return d.modTime }
func (d DirEntry) IsDir() bool        { return d.kind == KindDirectory }
func (d DirEntry) Type() os.FileMode {
	switch d.kind {
	case KindDirectory:
		return os.ModeDir
	case KindOther:
		return os.ModeIrregular
	default:
		return 0
	}
}
func (d DirEntry) Info() (os.FileInfo, error) {
	return NewFileInfo(d), nil
}
