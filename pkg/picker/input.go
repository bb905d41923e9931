package picker

import "strings"

// Buttons is a snapshot of the logical buttons held during one frame.
type Buttons uint8

const (
	ButtonUp Buttons = 1 << iota
	ButtonDown
	ButtonConfirm
	ButtonBack
)

// DefaultCooldownFrames is how many frames input is ignored after an action.
const DefaultCooldownFrames = 15

func (b Buttons) Has(button Buttons) bool {
	return b&button != 0
}

func (b Buttons) String() string {
	if b == 0 {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		button Buttons
		name   string
	}{
		{ButtonUp, "up"},
		{ButtonDown, "down"},
		{ButtonConfirm, "confirm"},
		{ButtonBack, "back"},
	} {
		if b.Has(n.button) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "+")
}

// Debouncer turns raw per-frame button state into accepted presses.
// After Trigger it swallows input for the cooldown frames. When edge triggered,
// a button only counts on the frame it goes from released to pressed.
type Debouncer struct {
	cooldown  int
	remaining int
	edge      bool
	previous  Buttons
}

func NewDebouncer(cooldownFrames int, edgeTriggered bool) *Debouncer {
	if cooldownFrames < 0 {
		cooldownFrames = 0
	}
	return &Debouncer{cooldown: cooldownFrames, edge: edgeTriggered}
}

// Filter is called exactly once per frame.
func (d *Debouncer) Filter(held Buttons) Buttons {
	pressed := held
	if d.edge {
		pressed = held &^ d.previous
	}
	d.previous = held
	if d.remaining > 0 {
		d.remaining--
		return 0
	}
	return pressed
}

// Trigger restarts the cooldown after an applied action.
func (d *Debouncer) Trigger() {
	d.remaining = d.cooldown
}

func (d *Debouncer) Remaining() int {
	return d.remaining
}
