package motion

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// errNotCompilable is wrapped by every curve compilation failure.
var errNotCompilable = errors.New("motion: property cannot be compiled to a curve")

// CurveKey is one key of a compiled curve. Time is the progress through the
// owning layer's active window in [0, 1]. The timing and Hold describe the
// segment leaving the key.
type CurveKey struct {
	Time   float64
	Values []float64
	Hold   bool
	timing timingCurve
}

// Curve is the compositor form of one animated property: the components of
// its value keyed over normalized time. The first key is at 0 and the last
// at 1.
type Curve struct {
	Property PropertyName
	// Start and End are the layer window in composition frames.
	Start, End float64
	Keys       []CurveKey
	// Baked reports whether some segments were sampled at the bake step
	// instead of carrying their authored timing.
	Baked bool
}

// IsStatic reports whether every key holds the same value.
func (c *Curve) IsStatic() bool {
	for i := 1; i < len(c.Keys); i++ {
		for j, v := range c.Keys[i].Values {
			if v != c.Keys[0].Values[j] {
				return false
			}
		}
	}
	return true
}

// Progress maps a composition frame to curve time, clamped to [0, 1].
func (c *Curve) Progress(frame float64) float64 {
	if c.End <= c.Start {
		return 0
	}
	return clamp01((frame - c.Start) / (c.End - c.Start))
}

// segment returns the index of the key starting the segment containing u.
func (c *Curve) segment(u float64) int {
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time > u }) - 1
	return max(0, min(i, len(c.Keys)-2))
}

// Sample evaluates the curve at time u into dst. The compositor samples
// through its tweens; Sample is the reference evaluation.
func (c *Curve) Sample(u float64, dst []float64) []float64 {
	dst = dst[:0]
	if len(c.Keys) == 1 {
		return append(dst, c.Keys[0].Values...)
	}
	i := c.segment(u)
	a, b := &c.Keys[i], &c.Keys[i+1]
	t := clamp01((u - a.Time) / (b.Time - a.Time))
	if a.Hold {
		if t < 1 {
			return append(dst, a.Values...)
		}
		return append(dst, b.Values...)
	}
	e := a.timing.solve(t)
	for j := range a.Values {
		dst = append(dst, a.Values[j]+(b.Values[j]-a.Values[j])*e)
	}
	return dst
}

// curveCompiler maps layer frames into one layer's window.
type curveCompiler struct {
	start, end float64 // composition frames
	offset     float64 // layer start time
	stretch    float64
	bakeStep   float64
}

func newCurveCompiler(l *Layer, bakeStep float64) *curveCompiler {
	if bakeStep <= 0 {
		bakeStep = 1
	}
	return &curveCompiler{start: l.InFrame, end: l.OutFrame, offset: l.StartTime, stretch: l.stretch(), bakeStep: bakeStep}
}

func (c *curveCompiler) progress(local float64) float64 {
	return (c.offset + local*c.stretch - c.start) / (c.end - c.start)
}

func (c *curveCompiler) localFrame(u float64) float64 {
	return (c.start + u*(c.end-c.start) - c.offset) / c.stretch
}

// compile turns the property's effective keyframes into a curve. Closure
// overrides have no keyframes and cannot be compiled.
func (p *AnimatableProperty[T]) compile(c *curveCompiler) (*Curve, error) {
	g := p.effectiveKeyframes()
	if g == nil {
		return nil, fmt.Errorf("%w: %s is computed per frame", errNotCompilable, p.name)
	}
	return compileGroup(c, p.name, g)
}

// compileGroup builds a curve from g. Segments inside the window keep their
// timing; segments cut by the window edges and spatial segments are baked
// into linear samples every bake step. Constant pad keys bound the window.
func compileGroup[T Value[T]](c *curveCompiler, name PropertyName, g *KeyframeGroup[T]) (*Curve, error) {
	if c.end <= c.start {
		return nil, fmt.Errorf("%w: %s has an empty layer window", errNotCompilable, name)
	}
	curve := &Curve{Property: name, Start: c.start, End: c.end}
	width := len(g.At(0).Value.Components(nil))
	if width == 0 {
		return nil, fmt.Errorf("%w: %s has no numeric form", errNotCompilable, name)
	}
	var bad error
	add := func(k CurveKey) {
		if len(k.Values) != width {
			bad = fmt.Errorf("%w: %s changes its component count", errNotCompilable, name)
			return
		}
		if n := len(curve.Keys); n > 0 && curve.Keys[n-1].Time >= k.Time-1e-12 {
			curve.Keys[n-1] = k
			return
		}
		curve.Keys = append(curve.Keys, k)
	}
	comps := func(v T) []float64 { return v.Components(nil) }

	add(CurveKey{Time: 0, Values: comps(g.ValueAt(c.localFrame(0))), timing: linearTiming})
	for i := 0; i+1 < g.Len(); i++ {
		a, b := g.At(i), g.At(i+1)
		ua, ub := c.progress(a.Time), c.progress(b.Time)
		if ub <= 0 || ua >= 1 {
			continue
		}
		lo, hi := math.Max(ua, 0), math.Min(ub, 1)
		switch {
		case a.Hold:
			add(CurveKey{Time: lo, Values: comps(a.Value), Hold: true})
			end := a.Value
			if hi == ub {
				end = b.Value
			}
			add(CurveKey{Time: hi, Values: comps(end), timing: linearTiming})
		case ua >= 0 && ub <= 1 && !g.hasSpatial(i):
			add(CurveKey{Time: ua, Values: comps(a.Value), timing: g.timings[i]})
			add(CurveKey{Time: ub, Values: comps(b.Value), timing: linearTiming})
		default:
			curve.Baked = true
			fa, fb := c.localFrame(lo), c.localFrame(hi)
			steps := max(1, int(math.Ceil((fb-fa)/c.bakeStep)))
			for s := 0; s <= steps; s++ {
				f := fa + (fb-fa)*float64(s)/float64(steps)
				add(CurveKey{Time: c.progress(f), Values: comps(g.ValueAt(f)), timing: linearTiming})
			}
		}
	}
	if curve.Keys[len(curve.Keys)-1].Time < 1 {
		add(CurveKey{Time: 1, Values: comps(g.ValueAt(c.localFrame(1))), timing: linearTiming})
	}
	if bad != nil {
		return nil, bad
	}
	if len(curve.Keys) == 1 {
		curve.Keys = append(curve.Keys, CurveKey{Time: 1, Values: curve.Keys[0].Values, timing: linearTiming})
	}
	curve.Keys[0].Time = 0
	curve.Keys[len(curve.Keys)-1].Time = 1
	return curve, nil
}

// bakeCurve samples fn across the window every bake step. Path generators
// whose output is not a component-wise blend of their inputs compile this way.
func bakeCurve(c *curveCompiler, name PropertyName, animated bool, fn func(local float64) []float64) (*Curve, error) {
	curve := &Curve{Property: name, Start: c.start, End: c.end, Baked: animated}
	first := fn(c.localFrame(0))
	if len(first) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", errNotCompilable, name)
	}
	curve.Keys = append(curve.Keys, CurveKey{Time: 0, Values: first, timing: linearTiming})
	if animated {
		fa, fb := c.localFrame(0), c.localFrame(1)
		steps := max(1, int(math.Ceil((fb-fa)/c.bakeStep)))
		for s := 1; s <= steps; s++ {
			f := fa + (fb-fa)*float64(s)/float64(steps)
			v := fn(f)
			if len(v) != len(first) {
				return nil, fmt.Errorf("%w: %s changes its component count", errNotCompilable, name)
			}
			curve.Keys = append(curve.Keys, CurveKey{Time: float64(s) / float64(steps), Values: v, timing: linearTiming})
		}
	} else {
		curve.Keys = append(curve.Keys, CurveKey{Time: 1, Values: first, timing: linearTiming})
	}
	return curve, nil
}
