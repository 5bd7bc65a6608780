package motion

import (
	"math"

	"github.com/gogpu/gg"
)

// Vec2 is a 2D vector used for positions, sizes, anchors and tangents.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Length returns the euclidean length of v.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the distance between v and o.
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Length() }

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Interpolate returns v + (to - v) * amount. amount is not clamped.
func (v Vec2) Interpolate(to Vec2, amount float64) Vec2 {
	return Vec2{v.X + (to.X-v.X)*amount, v.Y + (to.Y-v.Y)*amount}
}

// Components appends X and Y to dst.
func (v Vec2) Components(dst []float64) []float64 {
	return append(dst, v.X, v.Y)
}

func (v Vec2) pt() gg.Point { return gg.Pt(v.X, v.Y) }

func vecFromPoint(p gg.Point) Vec2 { return Vec2{p.X, p.Y} }

// spatialSamples is the resolution of the arc-length table used to walk a
// spatial curve at constant speed.
const spatialSamples = 24

// InterpolateSpatial moves along the cubic v, v+outTangent, to+inTangent, to
// by arc length, so amount controls speed and the tangents control the path.
// With both tangents zero it equals Interpolate.
func (v Vec2) InterpolateSpatial(to, outTangent, inTangent Vec2, amount float64) Vec2 {
	if outTangent.IsZero() && inTangent.IsZero() {
		return v.Interpolate(to, amount)
	}
	if amount <= 0 {
		return v
	}
	if amount >= 1 {
		return to
	}
	c := gg.NewCubicBez(v.pt(), v.Add(outTangent).pt(), to.Add(inTangent).pt(), to.pt())

	var lengths [spatialSamples + 1]float64
	prev := c.P0
	for i := 1; i <= spatialSamples; i++ {
		p := c.Eval(float64(i) / spatialSamples)
		lengths[i] = lengths[i-1] + prev.Distance(p)
		prev = p
	}
	total := lengths[spatialSamples]
	if total == 0 {
		return v
	}
	target := amount * total
	for i := 1; i <= spatialSamples; i++ {
		if lengths[i] < target {
			continue
		}
		span := lengths[i] - lengths[i-1]
		frac := 0.0
		if span > 0 {
			frac = (target - lengths[i-1]) / span
		}
		t := (float64(i-1) + frac) / spatialSamples
		return vecFromPoint(c.Eval(t))
	}
	return to
}
