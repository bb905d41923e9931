package osfile

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/filetug/filepick/pkg/files"
	"github.com/filetug/filepick/pkg/fsutils"
)

var osOpen = os.Open
var osHostname = os.Hostname

var _ files.Store = (*Store)(nil)

// Store exposes a host directory as a device root.
type Store struct {
	title string
	root  string
}

func (s Store) RootURL() url.URL {
	return url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(s.root),
	}
}

func (s Store) RootTitle() string {
	return strings.TrimSuffix(s.title, ".station")
}

// hostPath maps a device-absolute path onto the host filesystem under root.
func (s Store) hostPath(path string) string {
	rel := strings.TrimPrefix(filepath.FromSlash(path), string(filepath.Separator))
	return filepath.Join(s.root, rel)
}

func (s Store) OpenDir(ctx context.Context, path string) (files.DirHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := osOpen(s.hostPath(path))
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !stat.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, files.ErrNotDirectory)
	}
	return &dirHandle{f: f}, nil
}

type dirHandle struct {
	f       *os.File
	pending []os.DirEntry
	listed  bool
}

// Count reads the whole listing once; Read then hands it out.
func (h *dirHandle) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !h.listed {
		entries, err := h.f.ReadDir(-1)
		if err != nil && err != io.EOF {
			return 0, err
		}
		h.pending = entries
		h.listed = true
	}
	return len(h.pending), nil
}

func (h *dirHandle) Read(ctx context.Context, max int) ([]files.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !h.listed {
		if _, err := h.Count(ctx); err != nil {
			return nil, err
		}
	}
	if max > len(h.pending) {
		max = len(h.pending)
	}
	result := make([]files.DirEntry, 0, max)
	for _, entry := range h.pending[:max] {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		kind := files.KindFromMode(entry.Type())
		var options []files.DirEntryOption
		// Entries removed since Count are skipped, the result may be shorter than max.
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		options = append(options, files.Size(info.Size()), files.ModTime(info.ModTime()))
		result = append(result, files.NewDirEntry(name, kind, options...))
	}
	h.pending = h.pending[max:]
	return result, nil
}

func (h *dirHandle) Close() error {
	return h.f.Close()
}

func NewStore(root string) *Store {
	if root == "" {
		_, _ = fmt.Fprintf(os.Stderr, "osfile store root is empty, defaulting to /\n")
		root = "/"
	}
	store := Store{root: fsutils.ExpandHome(root)}
	var err error
	if store.title, err = osHostname(); err != nil {
		store.title = err.Error()
	}
	store.title = "🖥️" + store.title
	return &store
}
