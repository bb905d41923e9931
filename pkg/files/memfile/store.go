// Package memfile is an in-memory device. Entries keep insertion order and
// failures can be injected per directory, which makes it handy for tests and demos.
package memfile

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/filetug/filepick/pkg/files"
)

const schema = "mem"

var _ files.Store = (*Store)(nil)

type node struct {
	entry    files.DirEntry
	children []*node
}

// Faults injected into a directory listing.
type Faults struct {
	Open  error
	Count error
	Read  error
	// Vanish drops that many entries between Count and Read.
	Vanish int
}

type Store struct {
	mu     sync.Mutex
	name   string
	root   *node
	faults map[string]Faults
	opened int
	closed int
}

func NewStore(name string) *Store {
	return &Store{
		name:   name,
		root:   &node{entry: files.NewDirEntry("", files.KindDirectory)},
		faults: make(map[string]Faults),
	}
}

func (s *Store) RootTitle() string {
	return schema + "://" + s.name
}

func (s *Store) RootURL() url.URL {
	return url.URL{Scheme: schema, Host: s.name, Path: "/"}
}

func cleanDir(p string) string {
	p = path.Clean("/" + p)
	if p != "/" {
		p += "/"
	}
	return p
}

func (s *Store) lookup(dir string) *node {
	n := s.root
	for _, segment := range strings.Split(strings.Trim(cleanDir(dir), "/"), "/") {
		if segment == "" {
			continue
		}
		var next *node
		for _, child := range n.children {
			if child.entry.Name() == segment && child.entry.IsDir() {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		n = next
	}
	return n
}

func (s *Store) add(p string, kind files.EntryKind, o ...files.DirEntryOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir, name := path.Split(path.Clean("/" + p))
	parent := s.root
	for _, segment := range strings.Split(strings.Trim(dir, "/"), "/") {
		if segment == "" {
			continue
		}
		var next *node
		for _, child := range parent.children {
			if child.entry.Name() == segment && child.entry.IsDir() {
				next = child
				break
			}
		}
		if next == nil {
			next = &node{entry: files.NewDirEntry(segment, files.KindDirectory)}
			parent.children = append(parent.children, next)
		}
		parent = next
	}
	parent.children = append(parent.children, &node{entry: files.NewDirEntry(name, kind, o...)})
}

// AddDir creates a directory and any missing parents.
func (s *Store) AddDir(p string) *Store {
	s.add(p, files.KindDirectory)
	return s
}

// AddFile creates a file of the given size and any missing parents.
func (s *Store) AddFile(p string, size int64) *Store {
	s.add(p, files.KindFile, files.Size(size))
	return s
}

func (s *Store) AddOther(p string) *Store {
	s.add(p, files.KindOther)
	return s
}

func (s *Store) SetFaults(dir string, faults Faults) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[cleanDir(dir)] = faults
	return s
}

// OpenHandles reports handles opened and not yet closed.
func (s *Store) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened - s.closed
}

// Stats returns how many handles were opened and closed.
func (s *Store) Stats() (opened, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

func (s *Store) OpenDir(ctx context.Context, p string) (files.DirHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := cleanDir(p)
	faults := s.faults[key]
	if faults.Open != nil {
		return nil, faults.Open
	}
	n := s.lookup(key)
	if n == nil {
		return nil, &os.PathError{Op: "open", Path: p, Err: os.ErrNotExist}
	}
	entries := make([]files.DirEntry, len(n.children))
	for i, child := range n.children {
		entries[i] = child.entry
	}
	s.opened++
	return &dirHandle{store: s, entries: entries, faults: faults}, nil
}

type dirHandle struct {
	store   *Store
	entries []files.DirEntry
	faults  Faults
	closed  bool
}

func (h *dirHandle) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if h.faults.Count != nil {
		return 0, h.faults.Count
	}
	return len(h.entries), nil
}

func (h *dirHandle) Read(ctx context.Context, max int) ([]files.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.faults.Read != nil {
		return nil, h.faults.Read
	}
	entries := h.entries
	if vanish := h.faults.Vanish; vanish > 0 {
		if vanish > len(entries) {
			vanish = len(entries)
		}
		entries = entries[:len(entries)-vanish]
	}
	if max < len(entries) {
		entries = entries[:max]
	}
	result := make([]files.DirEntry, len(entries))
	copy(result, entries)
	return result, nil
}

func (h *dirHandle) Close() error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.closed {
		return fmt.Errorf("memfile: handle closed twice")
	}
	h.closed = true
	h.store.closed++
	return nil
}
