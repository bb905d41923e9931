package picker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/filetug/filepick/pkg/files"
	"go.uber.org/zap"
)

// DefaultMaxEntries bounds how many entries a single directory may report.
const DefaultMaxEntries = 1 << 16

// Resolver maps a device identifier to its filesystem provider.
type Resolver interface {
	Resolve(device string) (files.Store, bool)
}

// Lister lists one directory of one device.
type Lister interface {
	List(ctx context.Context, device, path string) (EntryList, error)
}

// ListingObserver is told about every finished listing.
type ListingObserver interface {
	ObserveListing(device string, stage Stage, entries int, elapsed time.Duration)
}

type ListerOption func(*DirectoryLister)

func WithListerLogger(logger *zap.Logger) ListerOption {
	return func(l *DirectoryLister) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithMaxEntries(n int) ListerOption {
	return func(l *DirectoryLister) {
		l.maxEntries = n
	}
}

func WithPathCapacity(n int) ListerOption {
	return func(l *DirectoryLister) {
		l.capacity = n
	}
}

func WithListingObserver(o ListingObserver) ListerOption {
	return func(l *DirectoryLister) {
		l.observer = o
	}
}

var _ Lister = (*DirectoryLister)(nil)

type DirectoryLister struct {
	resolver   Resolver
	logger     *zap.Logger
	observer   ListingObserver
	capacity   int
	maxEntries int
}

func NewDirectoryLister(resolver Resolver, o ...ListerOption) *DirectoryLister {
	l := &DirectoryLister{
		resolver:   resolver,
		logger:     zap.NewNop(),
		capacity:   DefaultPathCapacity,
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range o {
		opt(l)
	}
	return l
}

func (l *DirectoryLister) validate(device, path string) error {
	switch {
	case device == "":
		return fmt.Errorf("%w: empty device", ErrInvalidArgument)
	case path == "":
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	case !strings.HasPrefix(path, separator) || !strings.HasSuffix(path, separator):
		return fmt.Errorf("%w: path %q must start and end with %q", ErrInvalidArgument, path, separator)
	case len(path) > l.capacity:
		return fmt.Errorf("%w: path is %d bytes, capacity %d", ErrInvalidArgument, len(path), l.capacity)
	case l.resolver == nil:
		return fmt.Errorf("%w: no device resolver", ErrInvalidArgument)
	}
	return nil
}

// List opens path on device, reads all of its entries and closes the directory again.
// The handle is closed exactly once on every path out of a successful open.
func (l *DirectoryLister) List(ctx context.Context, device, path string) (list EntryList, err error) {
	started := time.Now()
	count := 0
	fail := func(stage Stage, cause error) (EntryList, error) {
		l.logger.Error("directory listing failed",
			zap.String("device", device),
			zap.String("path", path),
			zap.String("stage", string(stage)),
			zap.Error(cause),
		)
		if l.observer != nil {
			l.observer.ObserveListing(device, stage, 0, time.Since(started))
		}
		return EntryList{}, &ListingError{Device: device, Path: path, Stage: stage, Err: cause}
	}

	if err = l.validate(device, path); err != nil {
		return fail(StageArgs, err)
	}
	store, ok := l.resolver.Resolve(device)
	if !ok || store == nil {
		return fail(StageDevice, fmt.Errorf("%w: %s", ErrDeviceNotFound, device))
	}

	handle, err := store.OpenDir(ctx, path)
	if err != nil {
		return fail(StageOpen, err)
	}
	if handle == nil {
		return fail(StageOpen, fmt.Errorf("provider returned no handle"))
	}
	defer func() {
		if closeErr := handle.Close(); closeErr != nil {
			l.logger.Warn("failed to close directory",
				zap.String("device", device),
				zap.String("path", path),
				zap.Error(closeErr),
			)
		}
	}()

	if count, err = handle.Count(ctx); err != nil {
		return fail(StageCount, err)
	}
	if count < 0 || count > l.maxEntries {
		return fail(StageAlloc, fmt.Errorf("%w: %d entries, limit %d", ErrAllocation, count, l.maxEntries))
	}
	entries := make([]files.DirEntry, 0, count)

	read, err := handle.Read(ctx, count)
	if err != nil {
		return fail(StageRead, err)
	}
	if len(read) > count {
		return fail(StageRead, fmt.Errorf("provider returned %d entries, asked for at most %d", len(read), count))
	}
	for _, entry := range read {
		if err = ValidateSegment(entry.Name()); err != nil {
			return fail(StageRead, fmt.Errorf("malformed entry: %w", err))
		}
		entries = append(entries, entry)
	}

	if len(entries) < count {
		l.logger.Debug("directory shrank while listing",
			zap.String("device", device),
			zap.String("path", path),
			zap.Int("counted", count),
			zap.Int("read", len(entries)),
		)
	}
	if l.observer != nil {
		l.observer.ObserveListing(device, "", len(entries), time.Since(started))
	}
	return EntryList{device: device, path: path, entries: entries}, nil
}
