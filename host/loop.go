package host

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gg"
	"github.com/petermattis/goid"

	circularprogress "github.com/HyunChul-Kim/CircularProgressBar"
)

// Common errors returned by Loop operations.
var (
	// ErrLoopClosed is returned when operations are attempted on a closed loop.
	ErrLoopClosed = errors.New("host: loop is closed")

	// ErrLoopRunning is returned when Start is called on a running loop.
	ErrLoopRunning = errors.New("host: loop already running")

	// ErrLoopNotRunning is returned when an operation needs the render
	// goroutine before Start has been called.
	ErrLoopNotRunning = errors.New("host: loop not running")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("host: invalid dimensions")

	// ErrNilWidget is returned when Attach is called with a nil widget.
	ErrNilWidget = errors.New("host: nil widget")

	// ErrWidgetAttached is returned when Attach is called while a widget
	// is already attached.
	ErrWidgetAttached = errors.New("host: widget already attached")
)

// Widget is the surface-facing side of a widget the loop can drive.
// *circularprogress.Bar implements it.
type Widget interface {
	SetBounds(width, height int)
	Attach(s circularprogress.Surface)
	Detach()
	Draw(dc *gg.Context)
	Animating() bool
}

// StateSaver is implemented by widgets whose state can be captured and
// restored across loop restarts. *circularprogress.Bar implements it.
type StateSaver interface {
	SaveState() circularprogress.State
	RestoreState(st circularprogress.State)
}

var (
	_ Widget                   = (*circularprogress.Bar)(nil)
	_ StateSaver               = (*circularprogress.Bar)(nil)
	_ circularprogress.Surface = (*Loop)(nil)
)

// Loop is an offscreen render loop driving a single widget. It owns a gg
// drawing context, a task queue, and the render goroutine all widget
// drawing happens on. Loop implements circularprogress.Surface.
//
// Repaint requests coalesce: Invalidate calls arriving while a frame is
// already scheduled fold into that frame.
type Loop struct {
	mu         sync.Mutex
	dc         *gg.Context
	ownDC      bool
	widget     Widget
	widgetID   string
	width      int
	height     int
	background gg.RGBA
	sink       func(image.Image)
	flush      func() error

	tasks   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	closed  bool

	framePending bool
	frames       uint64

	// Goroutine id of the render goroutine, recorded at loop entry.
	renderID atomic.Int64
}

// Option configures a Loop during creation.
type Option func(*options)

// options holds optional configuration for Loop creation.
type options struct {
	background gg.RGBA
	sink       func(image.Image)
	widgetID   string
	queueSize  int
}

// defaultOptions returns the default loop options.
func defaultOptions() options {
	return options{
		background: gg.White,
		widgetID:   "circular-progress",
		queueSize:  64,
	}
}

// WithBackground sets the color each frame is cleared with before the
// widget draws. The default is white.
func WithBackground(col gg.RGBA) Option {
	return func(o *options) {
		o.background = col
	}
}

// WithFrameSink registers fn to receive every rendered frame. fn runs on
// the render goroutine; the image is an independent copy the sink may
// retain.
func WithFrameSink(fn func(image.Image)) Option {
	return func(o *options) {
		o.sink = fn
	}
}

// WithWidgetID sets the key used for the widget's entry in SaveStates
// and RestoreStates. The default is "circular-progress".
func WithWidgetID(id string) Option {
	return func(o *options) {
		if id == "" {
			return
		}
		o.widgetID = id
	}
}

// WithQueueSize sets the capacity of the render task queue. Values below
// 1 are ignored.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n < 1 {
			return
		}
		o.queueSize = n
	}
}

// NewLoop creates an offscreen loop with a width×height frame buffer.
// The loop does not run until Start is called.
func NewLoop(width, height int, opts ...Option) (*Loop, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	l := newLoop(gg.NewContext(width, height), width, height, opts)
	l.ownDC = true
	return l, nil
}

// newLoop wires a loop around an existing drawing context.
func newLoop(dc *gg.Context, width, height int, opts []Option) *Loop {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Loop{
		dc:         dc,
		width:      width,
		height:     height,
		background: o.background,
		sink:       o.sink,
		widgetID:   o.widgetID,
		tasks:      make(chan func(), o.queueSize),
		done:       make(chan struct{}),
	}
}

// Start launches the render goroutine. It returns ErrLoopClosed after
// Close and ErrLoopRunning when the loop is already running. When Start
// returns, IsRenderGoroutine answers correctly from any goroutine.
func (l *Loop) Start() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	if l.started {
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.started = true
	l.mu.Unlock()

	ready := make(chan struct{})
	l.wg.Add(1)
	go l.run(ready)
	<-ready
	return nil
}

// run is the render goroutine: it records its identity and serves the
// task queue until Close. Tasks already queued when Close fires still
// run before the goroutine exits.
func (l *Loop) run(ready chan<- struct{}) {
	defer l.wg.Done()
	l.renderID.Store(goid.Get())
	close(ready)

	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			for {
				select {
				case fn := <-l.tasks:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Close stops the render goroutine, detaches the widget, and releases
// the drawing context. Tasks already queued run before the goroutine
// exits. Close is idempotent. It must not be called from the render
// goroutine.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	started := l.started
	l.mu.Unlock()

	if started {
		close(l.done)
		l.wg.Wait()
	}

	l.mu.Lock()
	w := l.widget
	l.widget = nil
	dc := l.dc
	l.dc = nil
	ownDC := l.ownDC
	l.mu.Unlock()

	// The render goroutine is gone; run the detach notification inline.
	if w != nil {
		w.Detach()
	}
	if ownDC && dc != nil {
		return dc.Close()
	}
	return nil
}

// Post schedules fn on the render goroutine. Tasks posted after Close,
// or when the queue is full, are dropped with a warning.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		circularprogress.Logger().Warn("host: task dropped, loop closed")
		return
	}
	if !l.send(fn) {
		circularprogress.Logger().Warn("host: task dropped, queue full")
	}
}

// send enqueues fn without blocking. Callers hold l.mu, which orders the
// send against Close: a task enqueued before closed is set is always
// drained by the render goroutine.
func (l *Loop) send(fn func()) bool {
	select {
	case l.tasks <- fn:
		return true
	default:
		return false
	}
}

// IsRenderGoroutine reports whether the caller runs on the loop's render
// goroutine.
func (l *Loop) IsRenderGoroutine() bool {
	return goid.Get() == l.renderID.Load()
}

// Invalidate schedules a frame. Requests arriving while a frame is
// pending coalesce into it.
func (l *Loop) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.framePending || l.closed || !l.started {
		return
	}
	if l.send(l.renderFrame) {
		l.framePending = true
	} else {
		circularprogress.Logger().Warn("host: frame dropped, queue full")
	}
}

// renderFrame produces one frame on the render goroutine: clear, widget
// draw, flush, sink delivery. While the widget reports Animating, the
// next frame is scheduled immediately.
func (l *Loop) renderFrame() {
	l.mu.Lock()
	l.framePending = false
	if l.closed {
		l.mu.Unlock()
		return
	}
	dc := l.dc
	w := l.widget
	sink := l.sink
	bg := l.background
	flush := l.flush
	l.mu.Unlock()

	dc.ClearWithColor(bg)
	if w != nil {
		w.Draw(dc)
	}
	if flush != nil {
		if err := flush(); err != nil {
			circularprogress.Logger().Warn("host: frame flush failed", "error", err)
		}
	}

	l.mu.Lock()
	l.frames++
	l.mu.Unlock()

	if sink != nil {
		sink(dc.Image())
	}
	if w != nil && w.Animating() {
		l.Invalidate()
	}
}

// Attach binds w to the loop: on the render goroutine the widget learns
// its bounds and attaches to the loop as its surface, then an initial
// frame is scheduled. One widget per loop; use Detach first to swap.
func (l *Loop) Attach(w Widget) error {
	if w == nil {
		return ErrNilWidget
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	if !l.started {
		l.mu.Unlock()
		return ErrLoopNotRunning
	}
	if l.widget != nil {
		l.mu.Unlock()
		return ErrWidgetAttached
	}
	l.widget = w
	width, height := l.width, l.height
	l.mu.Unlock()

	if err := l.runSync(func() {
		w.SetBounds(width, height)
		w.Attach(l)
	}); err != nil {
		l.mu.Lock()
		l.widget = nil
		l.mu.Unlock()
		return err
	}

	l.Invalidate()
	return nil
}

// Detach unbinds the current widget, running its detach notification on
// the render goroutine. Detaching an empty loop is a no-op.
func (l *Loop) Detach() {
	l.mu.Lock()
	w := l.widget
	l.widget = nil
	l.mu.Unlock()
	if w == nil {
		return
	}
	if err := l.runSync(w.Detach); err != nil {
		// Loop already stopped; notify inline.
		w.Detach()
	}
}

// SaveStates captures the binary state of the attached widget, keyed by
// the loop's widget ID. Returns an empty map when nothing stateful is
// attached; encode failures are skipped with a warning.
func (l *Loop) SaveStates() map[string][]byte {
	l.mu.Lock()
	w := l.widget
	id := l.widgetID
	l.mu.Unlock()

	states := make(map[string][]byte)
	saver, ok := w.(StateSaver)
	if !ok {
		return states
	}
	data, err := saver.SaveState().MarshalBinary()
	if err != nil {
		circularprogress.Logger().Warn("host: state save skipped", "widget", id, "error", err)
		return states
	}
	states[id] = data
	return states
}

// RestoreStates feeds previously saved state back into the attached
// widget. Missing keys and malformed data are skipped with a warning and
// the widget keeps its current state.
func (l *Loop) RestoreStates(states map[string][]byte) {
	l.mu.Lock()
	w := l.widget
	id := l.widgetID
	l.mu.Unlock()

	saver, ok := w.(StateSaver)
	if !ok {
		return
	}
	data, ok := states[id]
	if !ok {
		return
	}
	var st circularprogress.State
	if err := st.UnmarshalBinary(data); err != nil {
		circularprogress.Logger().Warn("host: state restore skipped", "widget", id, "error", err)
		return
	}
	saver.RestoreState(st)
}

// Snapshot returns a copy of the most recently rendered frame. It waits
// for the render goroutine to produce the copy.
func (l *Loop) Snapshot() (image.Image, error) {
	var img image.Image
	if err := l.runSync(func() { img = l.dc.Image() }); err != nil {
		return nil, err
	}
	return img, nil
}

// SavePNG writes the most recently rendered frame to path.
func (l *Loop) SavePNG(path string) error {
	var saveErr error
	if err := l.runSync(func() { saveErr = l.dc.SavePNG(path) }); err != nil {
		return err
	}
	return saveErr
}

// Frames returns the number of frames rendered since Start.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Width returns the loop's frame width in pixels.
func (l *Loop) Width() int { return l.width }

// Height returns the loop's frame height in pixels.
func (l *Loop) Height() int { return l.height }

// Size returns width and height as a convenience.
func (l *Loop) Size() (width, height int) { return l.width, l.height }

// runSync runs fn on the render goroutine and waits for it. Called on
// the render goroutine itself, fn runs inline.
func (l *Loop) runSync(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	if !l.started {
		l.mu.Unlock()
		return ErrLoopNotRunning
	}
	if l.IsRenderGoroutine() {
		l.mu.Unlock()
		fn()
		return nil
	}
	done := make(chan struct{})
	ok := l.send(func() {
		fn()
		close(done)
	})
	l.mu.Unlock()

	if !ok {
		return fmt.Errorf("host: sync task dropped, queue full")
	}
	<-done
	return nil
}
