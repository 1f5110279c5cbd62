package circularprogress

// Surface is the rendering host a Bar attaches to. It supplies the redraw
// signal and the render goroutine the widget defers its cross-goroutine
// work onto. The host package provides ready-made implementations; embed
// hosts implement Surface to drive the widget themselves.
//
// Implementations must be safe for concurrent use: the widget calls
// Invalidate and Post from arbitrary goroutines.
type Surface interface {
	// Invalidate requests a repaint of the widget. The signal carries no
	// payload; the surface reads whatever widget state is current when
	// the frame is produced.
	Invalidate()

	// Post schedules fn to run on the surface's render goroutine.
	Post(fn func())

	// IsRenderGoroutine reports whether the calling goroutine is the
	// surface's render goroutine. It must return without blocking; the
	// widget queries it while holding internal locks.
	IsRenderGoroutine() bool
}
