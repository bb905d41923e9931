package picker

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrDeviceNotFound       = errors.New("device not found")
	ErrListingFailed        = errors.New("listing failed")
	ErrAllocation           = errors.New("allocation failed")
	ErrPathCapacityExceeded = errors.New("path capacity exceeded")
	ErrCancelled            = errors.New("picker cancelled")
)

// Stage names the step of a directory listing that failed.
type Stage string

const (
	StageArgs   Stage = "args"
	StageDevice Stage = "device"
	StageOpen   Stage = "open"
	StageCount  Stage = "count"
	StageAlloc  Stage = "alloc"
	StageRead   Stage = "read"
)

// ListingError is returned for every listing failure. All of them match ErrListingFailed.
type ListingError struct {
	Device string
	Path   string
	Stage  Stage
	Err    error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("failed to open '%s:%s': %s: %v", e.Device, e.Path, e.Stage, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

func (e *ListingError) Is(target error) bool {
	return target == ErrListingFailed
}

// PathCapacityError reports a path that would not fit into its buffer.
type PathCapacityError struct {
	Path     string
	Segment  string
	Capacity int
}

func (e *PathCapacityError) Error() string {
	return fmt.Sprintf("path capacity exceeded: %q + %q does not fit into %d bytes", e.Path, e.Segment, e.Capacity)
}

func (e *PathCapacityError) Is(target error) bool {
	return target == ErrPathCapacityExceeded
}

func cancelled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
