package motion

// roundedCornerKappa places the control points of a quarter-circle arc.
const roundedCornerKappa = 0.5519

// RoundCorners replaces every sharp vertex of path with a cubic arc of the
// given radius. Vertices that already carry tangents, and the two ends of an
// open path, are kept. The radius is limited to half of each adjacent edge.
// A radius of zero returns path itself.
func RoundCorners(path *BezierPath, radius float64) *BezierPath {
	if radius <= 0 || path == nil || len(path.Vertices) < 3 {
		return path
	}
	vs := path.distinctVertices()
	n := len(vs)
	out := make([]CurveVertex, 0, n*2)
	for i, v := range vs {
		sharp := v.In.IsZero() && v.Out.IsZero()
		if !path.Closed && (i == 0 || i == n-1) {
			sharp = false
		}
		if !sharp {
			out = append(out, v)
			continue
		}
		prev := vs[(i-1+n)%n].Point
		next := vs[(i+1)%n].Point
		inDist := v.Point.Distance(prev)
		outDist := v.Point.Distance(next)
		if inDist == 0 || outDist == 0 {
			out = append(out, v)
			continue
		}
		inPoint := v.Point.Interpolate(prev, min(radius/inDist, 0.5))
		outPoint := v.Point.Interpolate(next, min(radius/outDist, 0.5))
		out = append(out,
			CurveVertex{Point: inPoint, Out: v.Point.Sub(inPoint).Scale(roundedCornerKappa)},
			CurveVertex{Point: outPoint, In: v.Point.Sub(outPoint).Scale(roundedCornerKappa)},
		)
	}
	rounded := NewBezierPath(out, path.Closed)
	return &rounded
}
