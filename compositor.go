package motion

import (
	"context"
	"sync"
	"time"
)

// Compositor plays a compiled scene on its own goroutine. It owns the
// compiled curves after hand-off and never touches the node graph. The
// clock and the published display list are guarded by a mutex; every other
// method is safe to call from the host goroutine while Run is active.
type Compositor struct {
	rng  playRange
	tick time.Duration
	now  func() time.Time

	mu      sync.Mutex
	scene   *compiledScene
	tracks  map[*Curve]*curveTrack
	clock   clock
	frame   float64
	version uint64
	list    *DisplayList

	cancel context.CancelFunc
	done   chan struct{}
}

func newCompositor(scene *compiledScene, rng playRange, tickRate float64) *Compositor {
	if tickRate <= 0 {
		tickRate = 60
	}
	c := &Compositor{
		rng:    rng,
		tick:   time.Duration(float64(time.Second) / tickRate),
		now:    time.Now,
		scene:  scene,
		tracks: make(map[*Curve]*curveTrack, len(scene.curves)),
	}
	for _, cv := range scene.curves {
		c.tracks[cv] = newCurveTrack(cv)
	}
	c.clock = clock{beginTime: c.now(), offset: rng.start}
	return c
}

// Start runs the compositor on a new goroutine until ctx is done or Stop is
// called. Calling Start on a running compositor does nothing.
func (c *Compositor) Start(ctx context.Context) {
	c.mu.Lock()
	if c.done != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.mu.Unlock()
	go func() {
		defer func() {
			// A run that ends with its ctx leaves the compositor startable.
			c.mu.Lock()
			if c.done == done {
				c.cancel, c.done = nil, nil
			}
			c.mu.Unlock()
			cancel()
			close(done)
		}()
		c.Run(ctx)
	}()
}

// Run samples and publishes a frame every tick until ctx is done.
func (c *Compositor) Run(ctx context.Context) {
	t := time.NewTicker(c.tick)
	defer t.Stop()
	c.step()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.step()
		}
	}
}

// Stop cancels a running compositor and waits for its goroutine to exit.
func (c *Compositor) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Play resumes the clock from the current frame at speed.
func (c *Compositor) Play(speed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.clock = clock{beginTime: now, offset: c.rng.wrap(c.clock.rawFrame(now, c.rng.rate)), speed: speed}
}

// Pause freezes the clock at the current frame.
func (c *Compositor) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.clock = clock{beginTime: now, offset: c.rng.wrap(c.clock.rawFrame(now, c.rng.rate))}
	c.publish(now)
}

// SetTimeOffset scrubs to frame. The clock stops so the frame holds until
// Play is called.
func (c *Compositor) SetTimeOffset(frame float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.clock = clock{beginTime: now, offset: frame}
	c.publish(now)
}

// Playing reports whether the clock is running.
func (c *Compositor) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock.speed != 0
}

// CurrentFrame returns the frame of the live clock.
func (c *Compositor) CurrentFrame() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.wrap(c.clock.rawFrame(c.now(), c.rng.rate))
}

// DisplayList returns the last published display list. The list is never
// modified after publication. It is nil before the first tick and after
// RemoveAll.
func (c *Compositor) DisplayList() *DisplayList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list
}

// RemoveAll drops every curve. The compositor keeps ticking its clock but
// publishes nothing.
func (c *Compositor) RemoveAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene, c.tracks, c.list = nil, nil, nil
}

func (c *Compositor) step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publish(c.now())
}

// publish samples every curve at the clock's frame and replaces the
// published list. c.mu must be held.
func (c *Compositor) publish(now time.Time) {
	raw := c.clock.rawFrame(now, c.rng.rate)
	c.frame = c.rng.wrap(raw)
	if c.rng.finished(raw, c.clock.speed) {
		c.clock = clock{beginTime: now, offset: c.frame}
	}
	if c.scene == nil {
		c.list = nil
		return
	}
	c.version++
	frame := c.frame
	s := sampler(func(cv *Curve) []float64 {
		return c.tracks[cv].sample(cv.Progress(frame))
	})
	list := &DisplayList{}
	c.scene.emit(frame, s, c.version, list)
	c.list = list
}
