package motion

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// curveTrack plays one compiled curve. Every segment holds one tween per
// component running over unit duration; sampling sets the tweens of the
// segment containing u and reads their values.
//
// A curveTrack is owned by the compositor and is not safe for concurrent use.
type curveTrack struct {
	curve  *Curve
	tweens [][]*gween.Tween // [segment][component]
	static bool
	out    []float64
}

func newCurveTrack(c *Curve) *curveTrack {
	t := &curveTrack{curve: c, static: c.IsStatic(), out: make([]float64, len(c.Keys[0].Values))}
	if t.static {
		copy(t.out, c.Keys[0].Values)
		return t
	}
	t.tweens = make([][]*gween.Tween, len(c.Keys)-1)
	for i := range t.tweens {
		a, b := &c.Keys[i], &c.Keys[i+1]
		fn := segmentEasing(a)
		seg := make([]*gween.Tween, len(a.Values))
		for j := range a.Values {
			seg[j] = gween.New(float32(a.Values[j]), float32(b.Values[j]), 1, fn)
		}
		t.tweens[i] = seg
	}
	return t
}

// segmentEasing returns the tween function of the segment leaving k.
func segmentEasing(k *CurveKey) ease.TweenFunc {
	if k.Hold {
		return func(_, b, _, _ float32) float32 { return b }
	}
	if k.timing.linear {
		return ease.Linear
	}
	timing := k.timing
	return func(t, b, c, d float32) float32 {
		return b + c*float32(timing.solve(float64(t/d)))
	}
}

// sample returns the curve components at progress u. The returned slice is
// reused by the next call.
func (t *curveTrack) sample(u float64) []float64 {
	if t.static {
		return t.out
	}
	c := t.curve
	i := c.segment(u)
	a, b := c.Keys[i].Time, c.Keys[i+1].Time
	var local float32
	if b > a {
		local = float32((u - a) / (b - a))
	}
	for j, tw := range t.tweens[i] {
		v, _ := tw.Set(local)
		t.out[j] = float64(v)
	}
	return t.out
}
