package files

import (
	"context"
	"errors"
	"net/url"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=files

// Store is the filesystem provider behind a device.
type Store interface {
	RootTitle() string
	RootURL() url.URL
	// OpenDir opens the directory at the device-absolute path.
	// A returned handle must be closed by the caller.
	OpenDir(ctx context.Context, path string) (DirHandle, error)
}

// DirHandle is an open directory. Read may return fewer entries than Count reported
// when the directory changes between the two calls.
type DirHandle interface {
	Count(ctx context.Context) (int, error)
	Read(ctx context.Context, max int) ([]DirEntry, error)
	Close() error
}

var ErrNotImplemented = errors.New("not implemented")

var ErrNotDirectory = errors.New("not a directory")

// ListedHandle serves Count and Read from entries fetched up front.
// Stores whose backend returns a whole listing in one response use it.
type ListedHandle struct {
	entries []DirEntry
	offset  int
	onClose func() error
	closed  bool
}

func NewListedHandle(entries []DirEntry, onClose func() error) *ListedHandle {
	return &ListedHandle{entries: entries, onClose: onClose}
}

func (h *ListedHandle) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(h.entries) - h.offset, nil
}

func (h *ListedHandle) Read(ctx context.Context, max int) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if max <= 0 {
		return nil, nil
	}
	end := h.offset + max
	if end > len(h.entries) {
		end = len(h.entries)
	}
	result := h.entries[h.offset:end]
	h.offset = end
	return result, nil
}

func (h *ListedHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.onClose != nil {
		return h.onClose()
	}
	return nil
}
