package circularprogress

import (
	"sync"
	"testing"
)

// recordingSurface counts redraw signals and records posted tasks
// without running them. renderG is fixed at construction and reported
// by IsRenderGoroutine, standing in for "the caller is on the render
// goroutine".
type recordingSurface struct {
	mu          sync.Mutex
	invalidates int
	posted      []func()
	renderG     bool
}

func (s *recordingSurface) Invalidate() {
	s.mu.Lock()
	s.invalidates++
	s.mu.Unlock()
}

func (s *recordingSurface) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

func (s *recordingSurface) IsRenderGoroutine() bool { return s.renderG }

func (s *recordingSurface) invalidateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidates
}

func (s *recordingSurface) postedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posted)
}

// takePosted removes and returns the recorded tasks, oldest first.
func (s *recordingSurface) takePosted() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := s.posted
	s.posted = nil
	return tasks
}

// newTestBar creates a bar with a private update pool so tests can
// inspect buffered and released entries without cross-test interference.
func newTestBar(opts ...Option) *Bar {
	b := New(opts...)
	b.pool = newUpdatePool(poolMax)
	return b
}

func (b *Bar) pendingValues() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	vals := make([]int, len(b.pending))
	for i, u := range b.pending {
		vals[i] = u.value
	}
	return vals
}

func (b *Bar) releasedValues() []int {
	b.pool.mu.Lock()
	defer b.pool.mu.Unlock()
	vals := make([]int, len(b.pool.free))
	for i, u := range b.pool.free {
		vals[i] = u.value
	}
	return vals
}

func TestSetProgressClamps(t *testing.T) {
	tests := []struct {
		name string
		v    int
		want int
	}{
		{"above max", 150, 100},
		{"at max", 100, 100},
		{"within range", 42, 42},
		{"below zero", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBar()
			b.SetProgress(tt.v)
			if got := b.Progress(); got != tt.want {
				t.Errorf("Progress() after SetProgress(%d) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestSetProgressNoOpProducesNoSignal(t *testing.T) {
	s := &recordingSurface{renderG: true}
	b := newTestBar()
	b.Attach(s)

	b.SetProgress(50)
	if got := s.invalidateCount(); got != 1 {
		t.Fatalf("invalidates after first SetProgress(50) = %d, want 1", got)
	}

	b.SetProgress(50)
	if got := s.invalidateCount(); got != 1 {
		t.Errorf("invalidates after repeated SetProgress(50) = %d, want 1 (no-op)", got)
	}
}

func TestSetProgressClampedNoOp(t *testing.T) {
	s := &recordingSurface{renderG: true}
	b := newTestBar()
	b.Attach(s)

	b.SetProgress(100)
	// 150 clamps to 100, which the bar already holds.
	b.SetProgress(150)

	if got := s.invalidateCount(); got != 1 {
		t.Errorf("invalidates = %d, want 1 (clamped value equals current)", got)
	}
}

func TestSetProgressOnRenderGoroutineSignalsImmediately(t *testing.T) {
	s := &recordingSurface{renderG: true}
	b := newTestBar()
	b.Attach(s)

	b.SetProgress(30)

	if got := s.invalidateCount(); got != 1 {
		t.Errorf("invalidates = %d, want 1", got)
	}
	if got := s.postedCount(); got != 0 {
		t.Errorf("posted tasks = %d, want 0 (no deferred dispatch on the render goroutine)", got)
	}
	if got := b.pendingValues(); len(got) != 0 {
		t.Errorf("pending buffer = %v, want empty", got)
	}
}

func TestSetProgressOffGoroutineBuffersAndSchedulesOnce(t *testing.T) {
	s := &recordingSurface{}
	b := newTestBar()
	b.Attach(s)

	b.SetProgress(10)
	b.SetProgress(20)
	b.SetProgress(30)

	if got := s.invalidateCount(); got != 0 {
		t.Errorf("invalidates before dispatch = %d, want 0", got)
	}
	if got := s.postedCount(); got != 1 {
		t.Fatalf("posted tasks = %d, want 1 (single scheduled dispatch)", got)
	}

	want := []int{10, 20, 30}
	got := b.pendingValues()
	if len(got) != len(want) {
		t.Fatalf("pending buffer = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pending buffer = %v, want %v (FIFO order)", got, want)
		}
	}
}

func TestDispatchDrainsFIFOAndReleasesEntries(t *testing.T) {
	s := &recordingSurface{}
	b := newTestBar()
	b.Attach(s)

	b.SetProgress(10)
	b.SetProgress(20)
	b.SetProgress(30)

	for _, task := range s.takePosted() {
		task()
	}

	if got := s.invalidateCount(); got != 3 {
		t.Errorf("invalidates after dispatch = %d, want 3 (one per buffered update)", got)
	}
	if got := b.pendingValues(); len(got) != 0 {
		t.Errorf("pending buffer after dispatch = %v, want empty", got)
	}

	// Drained entries go back to the pool in drain order.
	released := b.releasedValues()
	want := []int{10, 20, 30}
	if len(released) != len(want) {
		t.Fatalf("released entries = %v, want %v", released, want)
	}
	for i := range want {
		if released[i] != want[i] {
			t.Fatalf("released entries = %v, want %v", released, want)
		}
	}

	b.mu.Lock()
	scheduled := b.scheduled
	b.mu.Unlock()
	if scheduled {
		t.Error("dispatch flag still set after drain")
	}

	// The next off-goroutine update schedules a fresh dispatch.
	b.SetProgress(40)
	if got := s.postedCount(); got != 1 {
		t.Errorf("posted tasks after new update = %d, want 1", got)
	}
}

func TestSetProgressDetachedBuffersSilently(t *testing.T) {
	b := newTestBar()

	b.SetProgress(30)

	if got := b.pendingValues(); len(got) != 1 || got[0] != 30 {
		t.Fatalf("pending buffer = %v, want [30]", got)
	}

	s := &recordingSurface{}
	b.Attach(s)

	if got := s.invalidateCount(); got != 1 {
		t.Errorf("invalidates after attach = %d, want 1 (drained update)", got)
	}
	if got := b.pendingValues(); len(got) != 0 {
		t.Errorf("pending buffer after attach = %v, want empty", got)
	}
	if got := b.Progress(); got != 30 {
		t.Errorf("Progress() = %d, want 30", got)
	}
}

func TestAttachDrainsInFIFOOrder(t *testing.T) {
	b := newTestBar()

	b.SetProgress(10)
	b.SetProgress(20)
	b.SetProgress(30)

	s := &recordingSurface{}
	b.Attach(s)

	if got := s.invalidateCount(); got != 3 {
		t.Errorf("invalidates after attach = %d, want 3", got)
	}
	released := b.releasedValues()
	want := []int{10, 20, 30}
	if len(released) != len(want) {
		t.Fatalf("released entries = %v, want %v", released, want)
	}
	for i := range want {
		if released[i] != want[i] {
			t.Fatalf("released entries = %v, want %v (FIFO drain)", released, want)
		}
	}
}

func TestBufferedUpdateKeepsRawValue(t *testing.T) {
	s := &recordingSurface{}
	b := newTestBar()
	b.Attach(s)

	b.SetProgress(150)

	if got := b.Progress(); got != 100 {
		t.Errorf("Progress() = %d, want 100 (clamped)", got)
	}
	// The buffer records the value as passed in, before clamping.
	if got := b.pendingValues(); len(got) != 1 || got[0] != 150 {
		t.Errorf("pending buffer = %v, want [150]", got)
	}

	// A second out-of-range set is a no-op: it clamps to the value the
	// bar already holds.
	b.SetProgress(150)
	if got := b.pendingValues(); len(got) != 1 {
		t.Errorf("pending buffer after repeated set = %v, want a single entry", got)
	}
}

func TestDetachCancelsScheduledDispatch(t *testing.T) {
	s := &recordingSurface{}
	b := newTestBar()
	b.Attach(s)

	b.SetProgress(10)
	tasks := s.takePosted()
	if len(tasks) != 1 {
		t.Fatalf("posted tasks = %d, want 1", len(tasks))
	}

	b.Detach()

	// The dispatch already handed to the surface runs after the detach:
	// it must do nothing and keep the buffer for the next attach.
	tasks[0]()

	if got := s.invalidateCount(); got != 0 {
		t.Errorf("invalidates on detached surface = %d, want 0", got)
	}
	if got := b.pendingValues(); len(got) != 1 || got[0] != 10 {
		t.Errorf("pending buffer after cancelled dispatch = %v, want [10]", got)
	}

	s2 := &recordingSurface{}
	b.Attach(s2)

	if got := s2.invalidateCount(); got != 1 {
		t.Errorf("invalidates after re-attach = %d, want 1", got)
	}
	if got := s.invalidateCount(); got != 0 {
		t.Errorf("old surface invalidates = %d, want 0 (never signalled)", got)
	}
}

func TestAttachNilIgnored(t *testing.T) {
	b := newTestBar()
	b.Attach(nil)
	if b.Attached() {
		t.Error("Attached() = true after Attach(nil)")
	}
}

func TestDetachWhileDetached(t *testing.T) {
	b := newTestBar()
	b.Detach() // must not panic
	if b.Attached() {
		t.Error("Attached() = true after Detach on a detached bar")
	}
}

func TestReattachReplacesSurface(t *testing.T) {
	s1 := &recordingSurface{renderG: true}
	s2 := &recordingSurface{renderG: true}
	b := newTestBar()

	b.Attach(s1)
	b.SetProgress(10)
	b.Detach()
	b.Attach(s2)
	b.SetProgress(20)

	if got := s1.invalidateCount(); got != 1 {
		t.Errorf("first surface invalidates = %d, want 1", got)
	}
	if got := s2.invalidateCount(); got != 1 {
		t.Errorf("second surface invalidates = %d, want 1", got)
	}
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	b := newTestBar()
	b.SetProgress(42)

	st := b.SaveState()

	restored := newTestBar()
	restored.RestoreState(st)
	if got := restored.Progress(); got != 42 {
		t.Errorf("restored Progress() = %d, want 42", got)
	}
}

func TestRestoreZeroStateKeepsProgress(t *testing.T) {
	b := newTestBar()
	b.SetProgress(7)

	b.RestoreState(State{})

	if got := b.Progress(); got != 7 {
		t.Errorf("Progress() after restoring zero State = %d, want 7", got)
	}
}

func TestRestoreRunsThroughClampAndRefresh(t *testing.T) {
	wide := newTestBar(WithMaxProgress(1000))
	wide.SetProgress(500)
	st := wide.SaveState()

	s := &recordingSurface{renderG: true}
	b := newTestBar()
	b.Attach(s)
	b.RestoreState(st)

	if got := b.Progress(); got != 100 {
		t.Errorf("Progress() = %d, want 100 (clamped to this bar's range)", got)
	}
	if got := s.invalidateCount(); got != 1 {
		t.Errorf("invalidates = %d, want 1 (restore signals a redraw)", got)
	}
}

func TestAnimatingLifecycle(t *testing.T) {
	plain := newTestBar()
	plain.SetProgress(50)
	if plain.Animating() {
		t.Error("Animating() = true for a bar built without WithAnimation")
	}

	b := newTestBar(WithAnimation(60, 6.0, 0.8))
	if b.Animating() {
		t.Error("Animating() = true before any progress change")
	}

	b.SetProgress(80)
	if !b.Animating() {
		t.Error("Animating() = false right after a progress change")
	}
}

func TestConcurrentSetProgress(t *testing.T) {
	s := &recordingSurface{}
	b := newTestBar()
	b.Attach(s)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 200 {
				b.SetProgress((i*200 + j) % 130)
			}
		}()
	}
	wg.Wait()

	// Run every dispatch the surface received.
	for _, task := range s.takePosted() {
		task()
	}

	if got := b.Progress(); got < 0 || got > 100 {
		t.Errorf("Progress() = %d, outside [0, 100]", got)
	}
	if got := b.pendingValues(); len(got) != 0 {
		t.Errorf("pending buffer after all dispatches = %v, want empty", got)
	}
}

func TestProgressAndMaxAccessors(t *testing.T) {
	b := newTestBar(WithMaxProgress(250), WithInitialProgress(60))
	if got := b.Max(); got != 250 {
		t.Errorf("Max() = %d, want 250", got)
	}
	if got := b.Progress(); got != 60 {
		t.Errorf("Progress() = %d, want 60", got)
	}
}
