package picker

import (
	"context"

	"github.com/filetug/filepick/pkg/files"
	"go.uber.org/zap"
)

// Action is what one frame of input did to the session.
type Action int

const (
	ActionNone Action = iota
	ActionMoveUp
	ActionMoveDown
	ActionEnter
	ActionBack
	ActionSelect
)

func (a Action) String() string {
	switch a {
	case ActionMoveUp:
		return "move_up"
	case ActionMoveDown:
		return "move_down"
	case ActionEnter:
		return "enter"
	case ActionBack:
		return "back"
	case ActionSelect:
		return "select"
	default:
		return "none"
	}
}

// ActionObserver is told about every applied action.
type ActionObserver interface {
	ObserveAction(action Action)
}

// Selection is the file the user confirmed. Path is device-absolute.
type Selection struct {
	Device string
	Path   string
}

func (s Selection) String() string {
	return s.Device + ":" + s.Path
}

// Frame is what a renderer needs to draw one frame.
type Frame struct {
	Device   string
	Path     string
	Entries  EntryList
	Selected int
	State    State
	Err      error
}

type ControllerOption func(*Controller)

func WithControllerLogger(logger *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithActionObserver(o ActionObserver) ControllerOption {
	return func(c *Controller) {
		c.observer = o
	}
}

// Controller is the navigation state machine. It starts in StateListing for "/".
type Controller struct {
	session   *Session
	lister    Lister
	logger    *zap.Logger
	observer  ActionObserver
	state     State
	err       error
	selection Selection
}

func NewController(session *Session, lister Lister, o ...ControllerOption) *Controller {
	c := &Controller{
		session: session,
		lister:  lister,
		logger:  zap.NewNop(),
		state:   StateListing,
	}
	for _, opt := range o {
		opt(c)
	}
	return c
}

func (c *Controller) State() State      { return c.state }
func (c *Controller) Err() error        { return c.err }
func (c *Controller) Session() *Session { return c.session }

func (c *Controller) Selection() (Selection, bool) {
	return c.selection, c.state == StateConfirmed
}

func (c *Controller) Frame() Frame {
	return Frame{
		Device:   c.session.device,
		Path:     c.session.path.String(),
		Entries:  c.session.entries,
		Selected: c.session.index,
		State:    c.state,
		Err:      c.err,
	}
}

func (c *Controller) fail(err error) {
	c.session.replaceEntries(EntryList{})
	c.state = StateFailed
	c.err = err
	c.logger.Error("picker session failed",
		zap.String("device", c.session.device),
		zap.String("path", c.session.path.String()),
		zap.Error(err),
	)
}

// Relist lists the current path if the controller is in StateListing.
func (c *Controller) Relist(ctx context.Context) {
	if c.state != StateListing {
		return
	}
	list, err := c.lister.List(ctx, c.session.device, c.session.path.String())
	if err != nil {
		c.fail(err)
		return
	}
	c.session.replaceEntries(list)
	c.state = StateBrowsing
}

// Update applies at most one action for this frame's buttons.
func (c *Controller) Update(held Buttons) Action {
	if c.state != StateBrowsing {
		return ActionNone
	}
	pressed := c.session.input.Filter(held)
	action := c.apply(pressed)
	if action == ActionNone {
		return action
	}
	c.session.input.Trigger()
	c.logger.Debug("navigation",
		zap.Stringer("action", action),
		zap.String("path", c.session.path.String()),
		zap.Int("index", c.session.index),
		zap.Stringer("state", c.state),
	)
	if c.observer != nil {
		c.observer.ObserveAction(action)
	}
	return action
}

// apply considers only the highest priority pressed button: up, down, confirm, back.
func (c *Controller) apply(pressed Buttons) Action {
	s := c.session
	switch {
	case pressed.Has(ButtonUp):
		if s.index > 0 {
			s.index--
			return ActionMoveUp
		}
	case pressed.Has(ButtonDown):
		if s.index < s.entries.Len()-1 {
			s.index++
			return ActionMoveDown
		}
	case pressed.Has(ButtonConfirm):
		entry, ok := s.Selected()
		if !ok {
			return ActionNone
		}
		switch entry.Kind() {
		case files.KindFile:
			p, err := s.path.Join(entry.Name())
			if err != nil {
				c.fail(err)
				return ActionSelect
			}
			c.selection = Selection{Device: s.device, Path: p}
			c.state = StateConfirmed
			return ActionSelect
		case files.KindDirectory:
			if err := s.path.Descend(entry.Name()); err != nil {
				c.fail(err)
				return ActionEnter
			}
			s.index = 0
			c.state = StateListing
			return ActionEnter
		}
	case pressed.Has(ButtonBack):
		if s.path.Ascend() {
			s.index = 0
			c.state = StateListing
			return ActionBack
		}
	}
	return ActionNone
}
