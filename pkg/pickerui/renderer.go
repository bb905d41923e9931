package pickerui

import "github.com/filetug/filepick/pkg/picker"

var _ picker.Renderer = (*Renderer)(nil)

// Renderer hands frames from the picker loop over to the tview event loop.
type Renderer struct {
	view            *View
	queueUpdateDraw func(f func())
}

func NewRenderer(view *View, queueUpdateDraw func(f func())) *Renderer {
	return &Renderer{view: view, queueUpdateDraw: queueUpdateDraw}
}

func (r *Renderer) Render(frame picker.Frame) {
	r.queueUpdateDraw(func() {
		r.view.Show(frame)
	})
}
