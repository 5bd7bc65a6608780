package motion

import "math"

// TrimMode selects how a trim applies to several paths.
type TrimMode uint8

const (
	// TrimSimultaneous trims every path by the same fraction of its own length.
	TrimSimultaneous TrimMode = iota
	// TrimIndividual treats the paths as one contour laid end to end.
	TrimIndividual
)

// TrimPath keeps the part of paths between start and end, both percentages,
// shifted by offset degrees (360 is one full length). Paths inside the
// visible range are returned as they are; an empty range yields nil.
func TrimPath(paths []*BezierPath, start, end, offset float64, mode TrimMode) []*BezierPath {
	var out []*BezierPath
	trimEach(paths, start, end, offset, mode, func(_ int, p *BezierPath) {
		out = append(out, p)
	})
	return out
}

// trimEach calls emit for every visible piece with the index of the path it
// was cut from, in path order.
func trimEach(paths []*BezierPath, start, end, offset float64, mode TrimMode, emit func(i int, p *BezierPath)) {
	s, e, full, empty := trimRange(start, end, offset)
	if full {
		for i, p := range paths {
			emit(i, p)
		}
		return
	}
	if empty || len(paths) == 0 {
		return
	}
	if mode == TrimSimultaneous {
		for i, p := range paths {
			l := p.Length()
			for _, piece := range appendRanges(nil, p, s*l, e*l, l) {
				emit(i, piece)
			}
		}
		return
	}

	lengths := make([]float64, len(paths))
	var total float64
	for i, p := range paths {
		lengths[i] = p.Length()
		total += lengths[i]
	}
	ranges := [][2]float64{{s * total, math.Min(e, 1) * total}}
	if e > 1 {
		ranges = append(ranges, [2]float64{0, (e - 1) * total})
	}
	var pos float64
	for i, p := range paths {
		l := lengths[i]
		for _, r := range ranges {
			from := math.Max(r[0], pos) - pos
			to := math.Min(r[1], pos+l) - pos
			if to > from {
				for _, piece := range appendSubpath(nil, p, from, to, l) {
					emit(i, piece)
				}
			}
		}
		pos += l
	}
}

// trimRange normalizes start, end and offset to fractions with 0 <= s < 1
// and s <= e < s+1.
func trimRange(start, end, offset float64) (s, e float64, full, empty bool) {
	s, e = clamp01(start/100), clamp01(end/100)
	if s > e {
		s, e = e, s
	}
	if e-s >= 1 {
		return 0, 1, true, false
	}
	if e == s {
		return 0, 0, false, true
	}
	o := offset / 360
	s += o
	e += o
	shift := math.Floor(s)
	return s - shift, e - shift, false, false
}

// appendRanges appends the part of p between from and to, wrapping past the
// end of a path of length l.
func appendRanges(out []*BezierPath, p *BezierPath, from, to, l float64) []*BezierPath {
	if to <= l {
		return appendSubpath(out, p, from, to, l)
	}
	out = appendSubpath(out, p, from, l, l)
	return appendSubpath(out, p, 0, to-l, l)
}

func appendSubpath(out []*BezierPath, p *BezierPath, from, to, l float64) []*BezierPath {
	if to-from <= 0 || l == 0 {
		return out
	}
	if from <= 0 && to >= l {
		return append(out, p)
	}
	sub := p.subpath(from, to)
	if len(sub.Vertices) < 2 {
		return out
	}
	return append(out, &sub)
}
