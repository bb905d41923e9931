package pickerui

import (
	"context"
	"sync"

	"github.com/filetug/filepick/pkg/picker"
	"github.com/gdamore/tcell/v2"
)

var _ picker.InputProvider = (*KeyInput)(nil)

// KeyInput latches key presses between frames. A terminal reports presses but
// no releases, so every press is seen as held for exactly one frame.
type KeyInput struct {
	mu       sync.Mutex
	latched  picker.Buttons
	consumed int
	cancel   context.CancelFunc
}

// NewKeyInput calls cancel when the user quits.
func NewKeyInput(cancel context.CancelFunc) *KeyInput {
	return &KeyInput{cancel: cancel}
}

func buttonForKey(event *tcell.EventKey) (picker.Buttons, bool) {
	switch event.Key() {
	case tcell.KeyUp:
		return picker.ButtonUp, true
	case tcell.KeyDown:
		return picker.ButtonDown, true
	case tcell.KeyEnter, tcell.KeyRight:
		return picker.ButtonConfirm, true
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyLeft:
		return picker.ButtonBack, true
	case tcell.KeyRune:
		switch event.Rune() {
		case 'k':
			return picker.ButtonUp, true
		case 'j':
			return picker.ButtonDown, true
		case 'l':
			return picker.ButtonConfirm, true
		case 'h':
			return picker.ButtonBack, true
		}
	}
	return 0, false
}

func isQuit(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return event.Rune() == 'q'
	}
	return false
}

// HandleKey is a tview input capture. It swallows every key it understands.
func (in *KeyInput) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	if isQuit(event) {
		if in.cancel != nil {
			in.cancel()
		}
		return nil
	}
	button, ok := buttonForKey(event)
	if !ok {
		return event
	}
	in.mu.Lock()
	in.latched |= button
	in.mu.Unlock()
	return nil
}

// Poll returns the buttons pressed since the previous poll.
func (in *KeyInput) Poll() picker.Buttons {
	in.mu.Lock()
	defer in.mu.Unlock()
	held := in.latched
	if held != 0 {
		in.latched = 0
		in.consumed++
	}
	return held
}

// Consumed reports how many non-empty polls there were.
func (in *KeyInput) Consumed() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.consumed
}
