package picker

import (
	"fmt"

	"github.com/filetug/filepick/pkg/files"
)

type State int

const (
	StateListing State = iota
	StateBrowsing
	StateFailed
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateListing:
		return "listing"
	case StateBrowsing:
		return "browsing"
	case StateFailed:
		return "failed"
	case StateConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) Terminal() bool {
	return s == StateFailed || s == StateConfirmed
}

// Session is everything the picker knows about one run. The frame loop owns it.
type Session struct {
	device  string
	path    *PathBuffer
	entries EntryList
	index   int
	input   *Debouncer
}

func NewSession(device string, pathCapacity int, input *Debouncer) (*Session, error) {
	if device == "" {
		return nil, fmt.Errorf("%w: empty device", ErrInvalidArgument)
	}
	path, err := NewPathBuffer(pathCapacity)
	if err != nil {
		return nil, err
	}
	if input == nil {
		input = NewDebouncer(DefaultCooldownFrames, false)
	}
	return &Session{device: device, path: path, input: input}, nil
}

func (s *Session) Device() string     { return s.device }
func (s *Session) Path() string       { return s.path.String() }
func (s *Session) Entries() EntryList { return s.entries }
func (s *Session) Index() int         { return s.index }
func (s *Session) Cooldown() int      { return s.input.Remaining() }

// Selected returns the entry under the cursor, if there is one.
func (s *Session) Selected() (files.DirEntry, bool) {
	if s.entries.Len() == 0 {
		return files.DirEntry{}, false
	}
	return s.entries.At(s.index), true
}

func (s *Session) replaceEntries(list EntryList) {
	s.entries = list
	s.index = 0
}
