package host

import (
	"fmt"

	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gpucontext"
)

// CanvasLoop is a Loop rendering through a GPU-backed ggcanvas.Canvas
// instead of an offscreen buffer, so the widget can be embedded in a
// gogpu window. Each frame is flushed to the canvas texture after the
// widget draws.
type CanvasLoop struct {
	*Loop
	canvas *ggcanvas.Canvas
}

// NewCanvasLoop creates a loop drawing into a canvas built on provider.
// The provider typically comes from the embedding application's GPU
// context. Loop options apply unchanged.
func NewCanvasLoop(provider gpucontext.DeviceProvider, width, height int, opts ...Option) (*CanvasLoop, error) {
	canvas, err := ggcanvas.New(provider, width, height)
	if err != nil {
		return nil, fmt.Errorf("host: canvas creation failed: %w", err)
	}

	loop := newLoop(canvas.Context(), width, height, opts)
	loop.flush = func() error {
		canvas.MarkDirty()
		_, err := canvas.Flush()
		return err
	}

	return &CanvasLoop{Loop: loop, canvas: canvas}, nil
}

// Texture returns the canvas's GPU texture for the embedding host to
// draw. It is nil until the first frame has been flushed. The canvas is
// only touched from the render goroutine, so the read goes through it.
func (cl *CanvasLoop) Texture() any {
	var tex any
	if err := cl.runSync(func() { tex = cl.canvas.Texture() }); err != nil {
		return nil
	}
	return tex
}

// Close stops the loop and releases the canvas.
func (cl *CanvasLoop) Close() error {
	err := cl.Loop.Close()
	if cerr := cl.canvas.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
