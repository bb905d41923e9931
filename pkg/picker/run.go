package picker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultFrameInterval is the idle time at the end of every frame.
const DefaultFrameInterval = 10 * time.Millisecond

// InputProvider returns the buttons held during the current frame.
type InputProvider interface {
	Poll() Buttons
}

// Renderer draws a frame. It must not keep or modify anything it is given.
type Renderer interface {
	Render(frame Frame)
}

// Options configure RunPicker. Start from DefaultOptions: zero values are taken
// literally except PathCapacity.
type Options struct {
	Lister   Lister
	Input    InputProvider
	Renderer Renderer
	Logger   *zap.Logger
	Observer ActionObserver
	// PathCapacity of zero means DefaultPathCapacity.
	PathCapacity int
	// CooldownFrames of zero accepts input on every frame.
	CooldownFrames int
	EdgeTriggered  bool
	// FrameInterval of zero does not idle between frames.
	FrameInterval time.Duration
	// Sleep waits for the next frame; tests replace it.
	Sleep func(ctx context.Context, d time.Duration)
}

func DefaultOptions() Options {
	return Options{
		PathCapacity:   DefaultPathCapacity,
		CooldownFrames: DefaultCooldownFrames,
		FrameInterval:  DefaultFrameInterval,
	}
}

func sleepFrame(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// RunPicker lets the user browse device and returns the confirmed file.
// It returns ErrCancelled when ctx is cancelled, a *ListingError when a directory
// can not be listed and a *PathCapacityError when a path would overflow.
// Failed and confirmed sessions render one last frame before returning.
func RunPicker(ctx context.Context, device string, opts Options) (Selection, error) {
	if device == "" {
		return Selection{}, fmt.Errorf("%w: empty device", ErrInvalidArgument)
	}
	if opts.Lister == nil || opts.Input == nil || opts.Renderer == nil {
		return Selection{}, fmt.Errorf("%w: lister, input and renderer are required", ErrInvalidArgument)
	}
	if opts.PathCapacity == 0 {
		opts.PathCapacity = DefaultPathCapacity
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepFrame
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	session, err := NewSession(device, opts.PathCapacity, NewDebouncer(opts.CooldownFrames, opts.EdgeTriggered))
	if err != nil {
		return Selection{}, err
	}
	controller := NewController(session, opts.Lister,
		WithControllerLogger(logger),
		WithActionObserver(opts.Observer),
	)
	logger.Info("picker started", zap.String("device", device))

	for {
		if controller.State() == StateListing {
			if err = ctx.Err(); err != nil {
				return Selection{}, cancelled(err)
			}
			controller.Relist(ctx)
			if controller.State() == StateFailed && ctx.Err() != nil {
				return Selection{}, cancelled(ctx.Err())
			}
		}
		opts.Renderer.Render(controller.Frame())

		switch controller.State() {
		case StateConfirmed:
			selection, _ := controller.Selection()
			logger.Info("file selected", zap.Stringer("selection", selection))
			return selection, nil
		case StateFailed:
			return Selection{}, controller.Err()
		}

		if err = ctx.Err(); err != nil {
			logger.Info("picker cancelled", zap.String("device", device), zap.String("path", session.Path()))
			return Selection{}, cancelled(err)
		}
		controller.Update(opts.Input.Poll())
		opts.Sleep(ctx, opts.FrameInterval)
	}
}
