// Package host provides rendering hosts for the circular progress bar
// widget.
//
// Loop is an offscreen render loop: it owns a gg drawing context and a
// render goroutine, implements circularprogress.Surface, and drives an
// attached widget through its lifecycle from bounds and attach to
// frames and detach. CanvasLoop is the same loop drawing through a GPU-backed
// ggcanvas.Canvas so the widget can be embedded in a gogpu window.
//
//	loop, err := host.NewLoop(256, 256)
//	if err != nil {
//	    // handle
//	}
//	if err := loop.Start(); err != nil {
//	    // handle
//	}
//	defer loop.Close()
//
//	bar := circularprogress.New()
//	if err := loop.Attach(bar); err != nil {
//	    // handle
//	}
//	bar.SetProgress(65)
//
// The packages share one logger: configure it with
// circularprogress.SetLogger.
package host
