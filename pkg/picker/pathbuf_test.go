package picker

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPathBuffer(t *testing.T) {
	p, err := NewPathBuffer(DefaultPathCapacity)
	assert.NoError(t, err)
	assert.Equal(t, "/", p.String())
	assert.True(t, p.IsRoot())
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, DefaultPathCapacity, p.Cap())

	_, err = NewPathBuffer(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPathBuffer_DescendAscend(t *testing.T) {
	p, _ := NewPathBuffer(DefaultPathCapacity)

	assert.NoError(t, p.Descend("docs"))
	assert.Equal(t, "/docs/", p.String())
	assert.NoError(t, p.Descend("deep"))
	assert.Equal(t, "/docs/deep/", p.String())

	before := p.String()
	assert.NoError(t, p.Descend("x"))
	assert.True(t, p.Ascend())
	assert.Equal(t, before, p.String(), "descend then ascend must restore the path")

	assert.True(t, p.Ascend())
	assert.Equal(t, "/docs/", p.String())
	assert.True(t, p.Ascend())
	assert.Equal(t, "/", p.String())

	assert.False(t, p.Ascend(), "ascend at root is a no-op")
	assert.Equal(t, "/", p.String())
}

func TestPathBuffer_DescendRejectsBadSegments(t *testing.T) {
	p, _ := NewPathBuffer(DefaultPathCapacity)
	for _, name := range []string{"", ".", "..", "a/b", "/"} {
		err := p.Descend(name)
		assert.ErrorIs(t, err, ErrInvalidArgument, name)
		assert.Equal(t, "/", p.String())
	}
}

func TestPathBuffer_Capacity(t *testing.T) {
	p, _ := NewPathBuffer(10)
	assert.NoError(t, p.Descend("abcd"))     // "/abcd/" = 6
	assert.NoError(t, p.Descend("ef"))       // "/abcd/ef/" = 9
	err := p.Descend("g")                    // would be 11
	assert.ErrorIs(t, err, ErrPathCapacityExceeded)
	assert.False(t, errors.Is(err, ErrListingFailed))
	var capErr *PathCapacityError
	if assert.ErrorAs(t, err, &capErr) {
		assert.Equal(t, 10, capErr.Capacity)
		assert.Equal(t, "/abcd/ef/", capErr.Path)
	}
	assert.Equal(t, "/abcd/ef/", p.String(), "failed descend leaves the buffer untouched")

	// Exactly at capacity is fine.
	q, _ := NewPathBuffer(10)
	assert.NoError(t, q.Descend("12345678"))
	assert.Equal(t, 10, q.Len())
}

func TestPathBuffer_NeverExceedsCapacity(t *testing.T) {
	p, _ := NewPathBuffer(DefaultPathCapacity)
	segment := strings.Repeat("s", 13)
	for i := 0; i < 200; i++ {
		err := p.Descend(segment)
		assert.LessOrEqual(t, p.Len(), p.Cap())
		if err != nil {
			assert.ErrorIs(t, err, ErrPathCapacityExceeded)
			break
		}
	}
	assert.True(t, strings.HasPrefix(p.String(), "/"))
	assert.True(t, strings.HasSuffix(p.String(), "/"))
}

func TestPathBuffer_Join(t *testing.T) {
	p, _ := NewPathBuffer(12)
	assert.NoError(t, p.Descend("docs"))

	full, err := p.Join("a.elf")
	assert.NoError(t, err)
	assert.Equal(t, "/docs/a.elf", full)

	_, err = p.Join("too-long.elf")
	assert.ErrorIs(t, err, ErrPathCapacityExceeded)

	_, err = p.Join("a/b")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPathBuffer_AscendWithoutPrecedingSeparator(t *testing.T) {
	// Not reachable through the public API; ascend still lands on root.
	p := &PathBuffer{path: "docs/", capacity: DefaultPathCapacity}
	assert.True(t, p.Ascend())
	assert.Equal(t, "/", p.String())
}
