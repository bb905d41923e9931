package picker

import (
	"fmt"
	"strings"
)

// DefaultPathCapacity is the largest device path, in bytes, a session can hold.
const DefaultPathCapacity = 784

const separator = "/"

// PathBuffer is a device-absolute directory path with a fixed capacity.
// It always starts and ends with "/" and never grows past its capacity.
type PathBuffer struct {
	path     string
	capacity int
}

func NewPathBuffer(capacity int) (*PathBuffer, error) {
	if capacity < len(separator) {
		return nil, fmt.Errorf("%w: path capacity %d", ErrInvalidArgument, capacity)
	}
	return &PathBuffer{path: separator, capacity: capacity}, nil
}

func (p *PathBuffer) String() string { return p.path }
func (p *PathBuffer) Len() int       { return len(p.path) }
func (p *PathBuffer) Cap() int       { return p.capacity }
func (p *PathBuffer) IsRoot() bool   { return p.path == separator }

// ValidateSegment rejects names that can not be a single path component.
func ValidateSegment(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty segment", ErrInvalidArgument)
	case name == "." || name == "..":
		return fmt.Errorf("%w: segment %q", ErrInvalidArgument, name)
	case strings.Contains(name, separator):
		return fmt.Errorf("%w: segment %q contains %q", ErrInvalidArgument, name, separator)
	}
	return nil
}

// Descend appends name and a trailing separator. On error the buffer is unchanged.
func (p *PathBuffer) Descend(name string) error {
	if err := ValidateSegment(name); err != nil {
		return err
	}
	if len(p.path)+len(name)+len(separator) > p.capacity {
		return &PathCapacityError{Path: p.path, Segment: name + separator, Capacity: p.capacity}
	}
	p.path += name + separator
	return nil
}

// Ascend drops the last segment. It reports false, and does nothing, at root.
func (p *PathBuffer) Ascend() bool {
	if p.IsRoot() {
		return false
	}
	trailing := strings.LastIndex(p.path, separator)
	preceding := strings.LastIndex(p.path[:trailing], separator)
	if preceding < 0 {
		p.path = separator
		return true
	}
	p.path = p.path[:preceding+1]
	return true
}

// Join returns the path of name inside the current directory.
func (p *PathBuffer) Join(name string) (string, error) {
	if err := ValidateSegment(name); err != nil {
		return "", err
	}
	if len(p.path)+len(name) > p.capacity {
		return "", &PathCapacityError{Path: p.path, Segment: name, Capacity: p.capacity}
	}
	return p.path + name, nil
}
