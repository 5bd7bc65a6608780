package motion

import (
	"math"
	"time"
)

// clock maps wall time to composition frames: frame = offset + elapsed
// seconds * speed * rate, wrapped into the play range by the loop mode.
// A zero speed holds offset.
type clock struct {
	beginTime time.Time
	offset    float64
	speed     float64
}

func (c clock) rawFrame(now time.Time, rate float64) float64 {
	if c.speed == 0 {
		return c.offset
	}
	return c.offset + now.Sub(c.beginTime).Seconds()*c.speed*rate
}

// playRange is the playable span of an animation.
type playRange struct {
	start, end float64
	rate       float64
	loop       LoopMode
}

// wrap folds a raw frame into [start, end] according to the loop mode.
func (r playRange) wrap(frame float64) float64 {
	d := r.end - r.start
	if d <= 0 {
		return r.start
	}
	switch r.loop {
	case LoopRepeat:
		return r.start + positiveMod(frame-r.start, d)
	case LoopAutoReverse:
		p := positiveMod(frame-r.start, 2*d)
		if p > d {
			p = 2*d - p
		}
		return r.start + p
	}
	return math.Max(r.start, math.Min(frame, r.end))
}

// finished reports whether a raw frame is past the end of a single play.
func (r playRange) finished(frame, speed float64) bool {
	if r.loop != LoopOnce {
		return false
	}
	return (speed > 0 && frame >= r.end) || (speed < 0 && frame <= r.start)
}

func positiveMod(x, m float64) float64 {
	x = math.Mod(x, m)
	if x < 0 {
		x += m
	}
	return x
}
