package pickerui

import (
	"context"
	"fmt"
	"sync"

	"github.com/filetug/filepick/pkg/picker"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var runApp = func(app *tview.Application) error {
	return app.Run()
}

// Picker hosts the picker frame loop next to a tview application.
type Picker struct {
	app    *tview.Application
	view   *View
	input  *KeyInput
	device string
	opts   picker.Options
	cancel context.CancelFunc
}

// New prepares app to show the picker for device. opts.Input and opts.Renderer are replaced.
func New(app *tview.Application, device string, opts picker.Options) *Picker {
	p := &Picker{
		app:    app,
		view:   NewView(),
		device: device,
		opts:   opts,
	}
	p.input = NewKeyInput(func() {
		if p.cancel != nil {
			p.cancel()
		}
	})
	p.opts.Input = p.input
	p.opts.Renderer = NewRenderer(p.view, func(f func()) {
		app.QueueUpdateDraw(f)
	})
	app.SetRoot(p.view, true).SetInputCapture(p.input.HandleKey)
	return p
}

func (p *Picker) View() *View         { return p.view }
func (p *Picker) KeyInput() *KeyInput { return p.input }

// Run blocks until a file is confirmed, the session fails or the user quits.
func (p *Picker) Run(ctx context.Context) (picker.Selection, error) {
	ctx, p.cancel = context.WithCancel(ctx)
	defer p.cancel()

	started := make(chan struct{})
	var once sync.Once
	p.app.SetAfterDrawFunc(func(tcell.Screen) {
		once.Do(func() { close(started) })
	})

	var (
		selection picker.Selection
		err       error
	)
	appDone := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Stop is lost if it comes before Run, so the loop waits for the first draw.
		select {
		case <-started:
		case <-appDone:
			return
		}
		selection, err = picker.RunPicker(ctx, p.device, p.opts)
		p.app.Stop()
	}()

	appErr := runApp(p.app)
	close(appDone)
	p.cancel()
	<-done
	if appErr != nil {
		return picker.Selection{}, fmt.Errorf("failed to run terminal ui: %w", appErr)
	}
	if err == nil && selection == (picker.Selection{}) {
		// The app was stopped from outside before the loop started.
		err = fmt.Errorf("%w: %w", picker.ErrCancelled, context.Canceled)
	}
	return selection, err
}

// Run shows the picker for device on app and returns the confirmed file.
// Build opts from picker.DefaultOptions to get the default cooldown.
func Run(ctx context.Context, app *tview.Application, device string, opts picker.Options) (picker.Selection, error) {
	return New(app, device, opts).Run(ctx)
}
