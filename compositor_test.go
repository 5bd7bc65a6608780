package motion

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"
)

// fakeClock is shared with a running compositor goroutine.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCompositor(t *testing.T, loop LoopMode) (*Compositor, *fakeClock) {
	t.Helper()
	a := fadeAnimation()
	scene, err := compileScene(BuildGraph(a), 1)
	if err != nil {
		t.Fatal(err)
	}
	clk := &fakeClock{t: time.Unix(1000, 0)}
	c := newCompositor(scene, playRange{start: a.StartFrame, end: a.EndFrame, rate: a.FrameRate, loop: loop}, 60)
	c.now = clk.now
	c.SetTimeOffset(0)
	return c, clk
}

func firstAlpha(t *testing.T, list *DisplayList) float64 {
	t.Helper()
	if list == nil || len(list.Layers) == 0 || len(list.Layers[0].Commands) == 0 {
		t.Fatalf("display list has no commands: %+v", list)
	}
	return list.Layers[0].Commands[0].Alpha
}

func TestCompositorScrub(t *testing.T) {
	c, _ := newTestCompositor(t, LoopRepeat)
	c.SetTimeOffset(15)
	if c.Playing() {
		t.Error("scrubbing should stop the clock")
	}
	if got := c.CurrentFrame(); got != 15 {
		t.Errorf("CurrentFrame = %v, want 15", got)
	}
	if got := firstAlpha(t, c.DisplayList()); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("Alpha = %v, want 0.5", got)
	}
}

func TestCompositorPublishedListIsImmutable(t *testing.T) {
	c, _ := newTestCompositor(t, LoopRepeat)
	c.SetTimeOffset(15)
	first := c.DisplayList()
	c.SetTimeOffset(30)
	if first == c.DisplayList() {
		t.Fatal("new frame reused the published list")
	}
	if got := firstAlpha(t, first); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("old list Alpha = %v, want 0.5", got)
	}
}

func TestCompositorPlayAdvancesClock(t *testing.T) {
	c, clk := newTestCompositor(t, LoopRepeat)
	c.Play(1)
	clk.advance(500 * time.Millisecond)
	if got := c.CurrentFrame(); math.Abs(got-15) > 1e-9 {
		t.Errorf("CurrentFrame = %v, want 15", got)
	}
	c.step()
	if got := firstAlpha(t, c.DisplayList()); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("Alpha = %v, want 0.5", got)
	}

	c.Pause()
	clk.advance(time.Second)
	if got := c.CurrentFrame(); math.Abs(got-15) > 1e-9 {
		t.Errorf("paused CurrentFrame = %v, want 15", got)
	}
}

func TestCompositorLoops(t *testing.T) {
	c, clk := newTestCompositor(t, LoopRepeat)
	c.Play(1)
	clk.advance(2500 * time.Millisecond) // 75 frames
	if got := c.CurrentFrame(); math.Abs(got-15) > 1e-9 {
		t.Errorf("CurrentFrame = %v, want 15", got)
	}
}

func TestCompositorPlayOnceStops(t *testing.T) {
	c, clk := newTestCompositor(t, LoopOnce)
	c.Play(2)
	clk.advance(2 * time.Second)
	c.step()
	if c.Playing() {
		t.Error("single play still running past the end")
	}
	if got := c.CurrentFrame(); got != 60 {
		t.Errorf("CurrentFrame = %v, want 60", got)
	}
}

func TestCompositorRemoveAll(t *testing.T) {
	c, _ := newTestCompositor(t, LoopRepeat)
	c.RemoveAll()
	c.step()
	if c.DisplayList() != nil {
		t.Error("DisplayList after RemoveAll should be nil")
	}
}

func TestCompositorRunStops(t *testing.T) {
	c, _ := newTestCompositor(t, LoopRepeat)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)
	c.Start(ctx) // no second goroutine
	c.Stop()
	c.Stop()
	if c.DisplayList() == nil {
		t.Error("running compositor published nothing")
	}
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func (c *Compositor) running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}

func TestCompositorRestartsAfterContextDone(t *testing.T) {
	c, clk := newTestCompositor(t, LoopRepeat)
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	cancel()
	waitFor(t, "run to end", func() bool { return !c.running() })

	c.Start(context.Background())
	defer c.Stop()
	c.Play(1)
	clk.advance(time.Second)
	waitFor(t, "frame 30 to publish", func() bool {
		l := c.DisplayList()
		return l != nil && math.Abs(l.Frame-30) < 1e-9
	})
}
