package motion

import "math"

// timingCurve is a unit cubic Bezier from (0,0) to (1,1) with two free
// control points, used to remap normalized segment progress. Solving follows
// the usual Newton-then-bisection approach on x(s) = t.
type timingCurve struct {
	linear     bool
	ax, bx, cx float64
	ay, by, cy float64
}

var linearTiming = timingCurve{linear: true}

// newTimingCurve builds the easing curve for a segment. A nil control point
// takes its linear default, (0,0) for p1 and (1,1) for p2.
func newTimingCurve(p1, p2 *Vec2) timingCurve {
	c1 := Vec2{0, 0}
	c2 := Vec2{1, 1}
	if p1 != nil {
		c1 = *p1
	}
	if p2 != nil {
		c2 = *p2
	}
	if c1.X == c1.Y && c2.X == c2.Y {
		return linearTiming
	}
	// x is a function of s only when the control x values stay in [0, 1].
	c1.X = clamp01(c1.X)
	c2.X = clamp01(c2.X)

	tc := timingCurve{}
	tc.cx = 3 * c1.X
	tc.bx = 3*(c2.X-c1.X) - tc.cx
	tc.ax = 1 - tc.cx - tc.bx
	tc.cy = 3 * c1.Y
	tc.by = 3*(c2.Y-c1.Y) - tc.cy
	tc.ay = 1 - tc.cy - tc.by
	return tc
}

func (tc timingCurve) sampleX(s float64) float64 { return ((tc.ax*s+tc.bx)*s + tc.cx) * s }
func (tc timingCurve) sampleY(s float64) float64 { return ((tc.ay*s+tc.by)*s + tc.cy) * s }
func (tc timingCurve) sampleDX(s float64) float64 {
	return (3*tc.ax*s+2*tc.bx)*s + tc.cx
}

const timingEpsilon = 1e-7

// solve returns the eased progress for linear progress t in [0, 1].
func (tc timingCurve) solve(t float64) float64 {
	if tc.linear || t <= 0 || t >= 1 {
		return t
	}
	return tc.sampleY(tc.solveX(t))
}

func (tc timingCurve) solveX(x float64) float64 {
	s := x
	for i := 0; i < 8; i++ {
		x2 := tc.sampleX(s) - x
		if math.Abs(x2) < timingEpsilon {
			return s
		}
		d := tc.sampleDX(s)
		if math.Abs(d) < 1e-6 {
			break
		}
		s -= x2 / d
	}

	lo, hi := 0.0, 1.0
	s = x
	for lo < hi {
		x2 := tc.sampleX(s)
		if math.Abs(x2-x) < timingEpsilon {
			return s
		}
		if x > x2 {
			lo = s
		} else {
			hi = s
		}
		s = (hi-lo)*0.5 + lo
		if hi-lo < timingEpsilon {
			break
		}
	}
	return s
}
