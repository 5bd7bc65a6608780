package motion

import (
	"math"

	"github.com/gogpu/gg"
)

// CurveVertex is one on-curve point of a cubic Bezier path. In and Out are
// the control points relative to Point.
type CurveVertex struct {
	Point Vec2
	In    Vec2
	Out   Vec2
}

// InAbsolute returns the incoming control point in path coordinates.
func (v CurveVertex) InAbsolute() Vec2 { return v.Point.Add(v.In) }

// OutAbsolute returns the outgoing control point in path coordinates.
func (v CurveVertex) OutAbsolute() Vec2 { return v.Point.Add(v.Out) }

// BezierPath is a single contour of cubic segments between consecutive
// vertices. A closed path repeats its first vertex as the last one, so a
// closed contour with n distinct corners has n+1 vertices.
type BezierPath struct {
	Vertices []CurveVertex
	Closed   bool
}

// NewBezierPath builds a contour from distinct vertices, appending the
// closing duplicate when closed is set.
func NewBezierPath(vertices []CurveVertex, closed bool) BezierPath {
	vs := make([]CurveVertex, len(vertices), len(vertices)+1)
	copy(vs, vertices)
	if closed && len(vs) > 1 && vs[len(vs)-1].Point != vs[0].Point {
		vs = append(vs, vs[0])
	}
	return BezierPath{Vertices: vs, Closed: closed}
}

// Len returns the number of vertices including the closing duplicate.
func (p BezierPath) Len() int { return len(p.Vertices) }

// segment returns the cubic between vertex i and i+1.
func (p BezierPath) segment(i int) gg.CubicBez {
	a, b := p.Vertices[i], p.Vertices[i+1]
	return gg.NewCubicBez(a.Point.pt(), a.OutAbsolute().pt(), b.InAbsolute().pt(), b.Point.pt())
}

// Interpolate blends vertex by vertex. Paths with different vertex counts
// cannot be blended and hold the start value until amount reaches 1.
func (p BezierPath) Interpolate(to BezierPath, amount float64) BezierPath {
	if len(p.Vertices) != len(to.Vertices) {
		if amount < 1 {
			return p
		}
		return to
	}
	out := BezierPath{Vertices: make([]CurveVertex, len(p.Vertices)), Closed: p.Closed}
	for i := range p.Vertices {
		a, b := p.Vertices[i], to.Vertices[i]
		out.Vertices[i] = CurveVertex{
			Point: a.Point.Interpolate(b.Point, amount),
			In:    a.In.Interpolate(b.In, amount),
			Out:   a.Out.Interpolate(b.Out, amount),
		}
	}
	return out
}

// Components appends point, in and out coordinates of every vertex to dst.
func (p BezierPath) Components(dst []float64) []float64 {
	for _, v := range p.Vertices {
		dst = append(dst, v.Point.X, v.Point.Y, v.In.X, v.In.Y, v.Out.X, v.Out.Y)
	}
	return dst
}

// pathFromComponents is the inverse of Components for a path with the
// same vertex count and closed flag as template.
func pathFromComponents(template *BezierPath, comps []float64) BezierPath {
	out := BezierPath{Vertices: make([]CurveVertex, len(template.Vertices)), Closed: template.Closed}
	for i := range out.Vertices {
		c := comps[i*6 : i*6+6]
		out.Vertices[i] = CurveVertex{
			Point: Vec2{c[0], c[1]},
			In:    Vec2{c[2], c[3]},
			Out:   Vec2{c[4], c[5]},
		}
	}
	return out
}

// Transformed returns a copy of p with m applied to every point and tangent.
func (p BezierPath) Transformed(m [6]float64) BezierPath {
	out := BezierPath{Vertices: make([]CurveVertex, len(p.Vertices)), Closed: p.Closed}
	for i, v := range p.Vertices {
		px, py := transformPoint(m, v.Point.X, v.Point.Y)
		ix, iy := transformPoint(m, v.InAbsolute().X, v.InAbsolute().Y)
		ox, oy := transformPoint(m, v.OutAbsolute().X, v.OutAbsolute().Y)
		pt := Vec2{px, py}
		out.Vertices[i] = CurveVertex{Point: pt, In: Vec2{ix, iy}.Sub(pt), Out: Vec2{ox, oy}.Sub(pt)}
	}
	return out
}

// lengthAccuracy bounds the chord/polygon difference of gg's adaptive length.
const lengthAccuracy = 0.01

// Length returns the arc length of the contour.
func (p BezierPath) Length() float64 {
	if len(p.Vertices) < 2 {
		return 0
	}
	return p.toGG(identityTransform).Length(lengthAccuracy)
}

// segmentLengths returns the arc length of every segment.
func (p BezierPath) segmentLengths() []float64 {
	if len(p.Vertices) < 2 {
		return nil
	}
	out := make([]float64, len(p.Vertices)-1)
	for i := range out {
		out[i] = cubicLength(p.segment(i))
	}
	return out
}

// Bounds returns the bounding box of the control polygon.
func (p BezierPath) Bounds() Rect {
	if len(p.Vertices) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(v Vec2) {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	for _, v := range p.Vertices {
		grow(v.Point)
		grow(v.InAbsolute())
		grow(v.OutAbsolute())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// toGG converts the contour to a gg path with m applied.
func (p BezierPath) toGG(m [6]float64) *gg.Path {
	gp := gg.NewPath()
	p.appendTo(m, gp.MoveTo, gp.CubicTo, gp.Close)
	return gp
}

// appendTo replays the contour through path-builder callbacks with m applied.
func (p BezierPath) appendTo(m [6]float64, moveTo func(x, y float64), cubicTo func(c1x, c1y, c2x, c2y, x, y float64), closePath func()) {
	if len(p.Vertices) == 0 {
		return
	}
	x, y := transformPoint(m, p.Vertices[0].Point.X, p.Vertices[0].Point.Y)
	moveTo(x, y)
	for i := 0; i+1 < len(p.Vertices); i++ {
		a, b := p.Vertices[i], p.Vertices[i+1]
		c1x, c1y := transformPoint(m, a.OutAbsolute().X, a.OutAbsolute().Y)
		c2x, c2y := transformPoint(m, b.InAbsolute().X, b.InAbsolute().Y)
		x, y = transformPoint(m, b.Point.X, b.Point.Y)
		cubicTo(c1x, c1y, c2x, c2y, x, y)
	}
	if p.Closed {
		closePath()
	}
}

// paramAtLength returns the curve parameter at which arc length target is
// reached along c, whose total length is total.
func paramAtLength(c gg.CubicBez, target, total float64) float64 {
	if target <= 0 || total <= 0 {
		return 0
	}
	if target >= total {
		return 1
	}
	lo, hi := 0.0, 1.0
	for i := 0; i < 48 && hi-lo > 1e-12; i++ {
		mid := (lo + hi) / 2
		if cubicLength(c.Subsegment(0, mid)) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func cubicLength(c gg.CubicBez) float64 {
	gp := gg.NewPath()
	gp.MoveTo(c.P0.X, c.P0.Y)
	gp.CubicTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
	return gp.Length(lengthAccuracy)
}

// subpath returns the open contour between arc lengths from and to.
func (p BezierPath) subpath(from, to float64) BezierPath {
	lengths := p.segmentLengths()
	out := BezierPath{}
	if to <= from || len(lengths) == 0 {
		return out
	}
	var pos float64
	for i, l := range lengths {
		segStart, segEnd := pos, pos+l
		pos = segEnd
		if segEnd < from || segStart > to || l == 0 {
			continue
		}
		c := p.segment(i)
		t0 := paramAtLength(c, from-segStart, l)
		t1 := paramAtLength(c, to-segStart, l)
		if t1 <= t0 {
			continue
		}
		sub := c
		if t0 > 0 || t1 < 1 {
			sub = c.Subsegment(t0, t1)
		}
		start := vecFromPoint(sub.P0)
		end := vecFromPoint(sub.P3)
		if n := len(out.Vertices); n > 0 && out.Vertices[n-1].Point.Distance(start) < 1e-9 {
			out.Vertices[n-1].Out = vecFromPoint(sub.P1).Sub(start)
		} else {
			out.Vertices = append(out.Vertices, CurveVertex{Point: start, Out: vecFromPoint(sub.P1).Sub(start)})
		}
		out.Vertices = append(out.Vertices, CurveVertex{Point: end, In: vecFromPoint(sub.P2).Sub(end)})
	}
	return out
}
