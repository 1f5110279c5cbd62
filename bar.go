package circularprogress

import (
	"sync"

	"github.com/gogpu/gg/text"
)

// Bar is a circular progress indicator. It keeps an integer progress
// value in [0, max], draws it as a stroked ring with a centered
// percentage label, and coordinates redraws with the Surface it is
// attached to.
//
// All methods are safe for concurrent use. A single mutex serializes the
// progress state, the attachment state, and the buffered-update queue;
// surface calls are made after the mutex is released.
type Bar struct {
	mu sync.Mutex

	style    Style
	progress int

	surface  Surface
	attached bool

	// pending buffers updates made off the render goroutine, oldest
	// first. scheduled is set while a dispatch is queued on the surface;
	// dispatchGen invalidates dispatches scheduled before a detach.
	pending     []*pendingUpdate
	scheduled   bool
	dispatchGen uint64

	pool *updatePool
	anim *sweepSpring

	// Region the bar draws into, set by SetBounds.
	width  int
	height int

	// Cached fallback label face, rebuilt when the size changes.
	face     text.Face
	faceSize float64
}

// New creates a bar configured by opts. Unset options keep their
// defaults: progress range [0, 100], an 8px stroke with round caps, and
// a centered percentage label.
func New(opts ...Option) *Bar {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	b := &Bar{
		style: cfg.style,
		pool:  updates,
	}
	b.progress = Clamp(cfg.initial, 0, b.style.MaxProgress)
	if cfg.animated {
		b.anim = newSweepSpring(cfg.animFPS, cfg.animFreq, cfg.animDamp)
		b.anim.jump(b.fraction())
	}
	return b
}

// SetProgress updates the progress value. Out-of-range values are
// clamped to [0, max]; setting the value the bar already holds is a
// no-op and produces no redraw signal.
//
// On the attached surface's render goroutine the redraw signal is issued
// before SetProgress returns. On any other goroutine the update is
// buffered in FIFO order and a single dispatch is scheduled to deliver
// the buffered signals on the render goroutine. While detached, updates
// buffer silently until the next Attach.
func (b *Bar) SetProgress(v int) {
	b.mu.Lock()
	clamped := Clamp(v, 0, b.style.MaxProgress)
	if clamped == b.progress {
		b.mu.Unlock()
		return
	}
	b.progress = clamped
	if b.anim != nil {
		b.anim.target = b.fraction()
	}

	s := b.surface
	if b.attached && s.IsRenderGoroutine() {
		b.mu.Unlock()
		s.Invalidate()
		return
	}

	// The buffered update carries the value as passed in, before
	// clamping; the no-op comparison above uses the clamped value.
	b.pending = append(b.pending, b.pool.Get(v))
	if !b.attached || b.scheduled {
		b.mu.Unlock()
		return
	}
	b.scheduled = true
	gen := b.dispatchGen
	b.mu.Unlock()

	Logger().Debug("circularprogress: dispatch scheduled", "value", v)
	s.Post(func() { b.dispatch(gen) })
}

// dispatch delivers buffered updates on the render goroutine, one redraw
// signal per update, oldest first. A dispatch scheduled before a detach
// observes a stale generation and leaves the buffer for the next attach.
func (b *Bar) dispatch(gen uint64) {
	b.mu.Lock()
	if gen != b.dispatchGen {
		b.mu.Unlock()
		return
	}
	b.scheduled = false
	taken := b.pending
	b.pending = nil
	s := b.surface
	b.mu.Unlock()

	for _, u := range taken {
		Logger().Debug("circularprogress: dispatching buffered update", "value", u.value)
		s.Invalidate()
		b.pool.Put(u)
	}
}

// Attach binds the bar to s and drains updates buffered while detached,
// issuing one redraw signal per update in FIFO order. Attaching a nil
// surface is ignored; attaching while attached replaces the surface.
func (b *Bar) Attach(s Surface) {
	if s == nil {
		Logger().Warn("circularprogress: Attach called with nil surface")
		return
	}

	b.mu.Lock()
	b.surface = s
	b.attached = true
	b.scheduled = false
	b.dispatchGen++
	taken := b.pending
	b.pending = nil
	b.mu.Unlock()

	for _, u := range taken {
		Logger().Debug("circularprogress: draining buffered update on attach", "value", u.value)
		s.Invalidate()
		b.pool.Put(u)
	}
}

// Detach unbinds the bar from its surface. A dispatch scheduled but not
// yet run is cancelled; updates still buffered are kept and delivered on
// the next Attach. Detaching a detached bar is a no-op.
func (b *Bar) Detach() {
	b.mu.Lock()
	b.surface = nil
	b.attached = false
	b.scheduled = false
	b.dispatchGen++
	b.mu.Unlock()
}

// Progress returns the current progress value.
func (b *Bar) Progress() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

// Max returns the upper bound of the progress range.
func (b *Bar) Max() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.style.MaxProgress
}

// Style returns a copy of the bar's visual configuration.
func (b *Bar) Style() Style {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.style
}

// Attached reports whether the bar currently has a surface.
func (b *Bar) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attached
}

// Animating reports whether the displayed sweep is still easing toward
// the current progress. Always false for bars built without
// WithAnimation. Hosts keep scheduling frames while it returns true.
func (b *Bar) Animating() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.anim != nil && !b.anim.settled()
}

// fraction returns progress/max in [0, 1]. Callers hold b.mu.
func (b *Bar) fraction() float64 {
	if b.style.MaxProgress <= 0 {
		return 0
	}
	return float64(b.progress) / float64(b.style.MaxProgress)
}
