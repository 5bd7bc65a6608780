package motion

import "math"

// Control point factors for the procedural shapes. ellipseKappa is the usual
// four-cubic circle approximation, the polystar factors scale a corner's
// roundness into tangent length.
const (
	ellipseKappa   = 0.55228
	starRoundness  = 0.47829
	polyRoundness  = 0.25
	closeTolerance = 1e-6
)

// EllipsePath returns a closed ellipse inscribed in the box of the given size
// around center. The contour starts at the top and has four cardinal
// vertices plus the closing duplicate.
func EllipsePath(size, center Vec2, dir PathDirection) BezierPath {
	half := size.Scale(0.5)
	if dir == CounterClockwise {
		half.X = -half.X
	}
	cp := half.Scale(ellipseKappa)
	top := Vec2{center.X, center.Y - half.Y}
	right := Vec2{center.X + half.X, center.Y}
	bottom := Vec2{center.X, center.Y + half.Y}
	left := Vec2{center.X - half.X, center.Y}
	return NewBezierPath([]CurveVertex{
		{Point: top, In: Vec2{-cp.X, 0}, Out: Vec2{cp.X, 0}},
		{Point: right, In: Vec2{0, -cp.Y}, Out: Vec2{0, cp.Y}},
		{Point: bottom, In: Vec2{cp.X, 0}, Out: Vec2{-cp.X, 0}},
		{Point: left, In: Vec2{0, cp.Y}, Out: Vec2{0, -cp.Y}},
	}, true)
}

// RectanglePath returns a closed rectangle of the given size centred on
// position. Roundness is the corner radius, limited to half the shorter side.
// Sharp rectangles have four corners, rounded ones eight vertices.
func RectanglePath(size, position Vec2, roundness float64, dir PathDirection) BezierPath {
	hw, hh := size.X/2, size.Y/2
	r := math.Min(roundness, math.Min(hw, hh))
	x, y := position.X, position.Y
	var vs []CurveVertex
	if r <= 0 {
		vs = []CurveVertex{
			{Point: Vec2{x + hw, y - hh}},
			{Point: Vec2{x + hw, y + hh}},
			{Point: Vec2{x - hw, y + hh}},
			{Point: Vec2{x - hw, y - hh}},
		}
	} else {
		cp := r * ellipseKappa
		vs = []CurveVertex{
			{Point: Vec2{x + hw, y - hh + r}, In: Vec2{0, -cp}},
			{Point: Vec2{x + hw, y + hh - r}, Out: Vec2{0, cp}},
			{Point: Vec2{x + hw - r, y + hh}, In: Vec2{cp, 0}},
			{Point: Vec2{x - hw + r, y + hh}, Out: Vec2{-cp, 0}},
			{Point: Vec2{x - hw, y + hh - r}, In: Vec2{0, cp}},
			{Point: Vec2{x - hw, y - hh + r}, Out: Vec2{0, -cp}},
			{Point: Vec2{x - hw + r, y - hh}, In: Vec2{-cp, 0}},
			{Point: Vec2{x + hw - r, y - hh}, Out: Vec2{cp, 0}},
		}
	}
	if dir == CounterClockwise {
		vs = reverseVertices(vs)
	}
	return NewBezierPath(vs, true)
}

// StarParams are the resolved per-frame inputs of a star.
// Roundness values are percentages, Rotation is in degrees.
type StarParams struct {
	Position       Vec2
	Points         float64
	Rotation       float64
	InnerRadius    float64
	OuterRadius    float64
	InnerRoundness float64
	OuterRoundness float64
	Direction      PathDirection
}

// StarPath returns a closed star alternating between the outer and inner
// radius. A fractional point count adds a partial point whose radius and
// angular span scale with the fraction. The last vertex coincides with the
// first, so a five-point star has eleven vertices.
func StarPath(p StarParams) BezierPath {
	angle := (p.Rotation - 90) * math.Pi / 180
	perPoint := 2 * math.Pi / p.Points
	halfPerPoint := perPoint / 2
	partial := p.Points - math.Floor(p.Points)
	innerRound := p.InnerRoundness / 100
	outerRound := p.OuterRoundness / 100

	var point Vec2
	var partialRadius float64
	if partial != 0 {
		angle += halfPerPoint * (1 - partial)
		partialRadius = p.InnerRadius + partial*(p.OuterRadius-p.InnerRadius)
		point = polar(partialRadius, angle)
		angle += perPoint * partial / 2
	} else {
		point = polar(p.OuterRadius, angle)
		angle += halfPerPoint
	}

	n := int(math.Ceil(p.Points)) * 2
	vs := make([]CurveVertex, 0, n+1)
	vs = append(vs, CurveVertex{Point: point.Add(p.Position)})
	long := false
	for i := 0; i < n; i++ {
		radius := p.InnerRadius
		if long {
			radius = p.OuterRadius
		}
		dTheta := halfPerPoint
		if partialRadius != 0 && i == n-2 {
			dTheta = perPoint * partial / 2
		}
		if partialRadius != 0 && i == n-1 {
			radius = partialRadius
		}
		prev := point
		point = polar(radius, angle)
		if innerRound == 0 && outerRound == 0 {
			vs = append(vs, CurveVertex{Point: point.Add(p.Position)})
		} else {
			r1, round1 := p.OuterRadius, outerRound
			r2, round2 := p.InnerRadius, innerRound
			if long {
				r1, round1 = p.InnerRadius, innerRound
				r2, round2 = p.OuterRadius, outerRound
			}
			cp1 := cornerTangent(prev, r1*round1*starRoundness)
			cp2 := cornerTangent(point, r2*round2*starRoundness)
			if partial != 0 {
				if i == 0 {
					cp1 = cp1.Scale(partial)
				} else if i == n-1 {
					cp2 = cp2.Scale(partial)
				}
			}
			vs[len(vs)-1].Out = cp1.Scale(-1)
			vs = append(vs, CurveVertex{Point: point.Add(p.Position), In: cp2})
		}
		angle += dTheta
		long = !long
	}
	if p.Direction == CounterClockwise {
		vs = reverseVertices(vs)
	}
	return BezierPath{Vertices: vs, Closed: true}
}

// PolygonParams are the resolved per-frame inputs of a regular polygon.
type PolygonParams struct {
	Position       Vec2
	Points         float64
	Rotation       float64
	OuterRadius    float64
	OuterRoundness float64
	Direction      PathDirection
}

// PolygonPath returns a closed regular polygon. Like StarPath the last vertex
// coincides with the first.
func PolygonPath(p PolygonParams) BezierPath {
	angle := (p.Rotation - 90) * math.Pi / 180
	perPoint := 2 * math.Pi / p.Points
	round := p.OuterRoundness / 100

	point := polar(p.OuterRadius, angle)
	vs := []CurveVertex{{Point: point.Add(p.Position)}}
	angle += perPoint
	n := int(math.Ceil(p.Points))
	for i := 0; i < n; i++ {
		prev := point
		point = polar(p.OuterRadius, angle)
		if round != 0 {
			cp1 := cornerTangent(prev, p.OuterRadius*round*polyRoundness)
			cp2 := cornerTangent(point, p.OuterRadius*round*polyRoundness)
			vs[len(vs)-1].Out = cp1.Scale(-1)
			vs = append(vs, CurveVertex{Point: point.Add(p.Position), In: cp2})
		} else {
			vs = append(vs, CurveVertex{Point: point.Add(p.Position)})
		}
		angle += perPoint
	}
	if p.Direction == CounterClockwise {
		vs = reverseVertices(vs)
	}
	return BezierPath{Vertices: vs, Closed: true}
}

func polar(radius, angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{radius * cos, radius * sin}
}

// cornerTangent returns a vector of the given length perpendicular to the
// radius through p.
func cornerTangent(p Vec2, length float64) Vec2 {
	theta := math.Atan2(p.Y, p.X) - math.Pi/2
	return polar(length, theta)
}

// reverseVertices reverses winding: order is flipped and each vertex swaps
// its tangents.
func reverseVertices(vs []CurveVertex) []CurveVertex {
	out := make([]CurveVertex, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = CurveVertex{Point: v.Point, In: v.Out, Out: v.In}
	}
	return out
}

// Reversed returns the contour traversed in the opposite direction.
func (p BezierPath) Reversed() BezierPath {
	return NewBezierPath(reverseVertices(p.distinctVertices()), p.Closed)
}

// distinctVertices returns the vertices of a closed contour without its
// closing duplicate. The closing segment's incoming tangent moves to the
// first vertex.
func (p BezierPath) distinctVertices() []CurveVertex {
	vs := p.Vertices
	n := len(vs)
	if !p.Closed || n < 2 || vs[n-1].Point.Distance(vs[0].Point) > closeTolerance {
		out := make([]CurveVertex, n)
		copy(out, vs)
		return out
	}
	out := make([]CurveVertex, n-1)
	copy(out, vs[:n-1])
	out[0].In = vs[n-1].In
	return out
}
