package motion

import (
	"math"

	"github.com/gogpu/gg"
)

// ggRaster paints display-list content into a gg context. view maps
// composition coordinates to the context's pixels. It serves paints the
// retained triangulation cannot express (gradients, dashes), mask
// rasterization and headless snapshots.
type ggRaster struct {
	dc   *gg.Context
	view [6]float64
}

func newGGRaster(w, h int, view [6]float64) *ggRaster {
	return &ggRaster{dc: gg.NewContext(w, h), view: view}
}

// ggMatrix converts an affine to gg's row layout.
func ggMatrix(m [6]float64) gg.Matrix {
	return gg.Matrix{A: m[0], B: m[2], C: m[4], D: m[1], E: m[3], F: m[5]}
}

// affineScale is the mean linear scale of m, used for stroke widths and
// dash lengths of paths flattened into device space.
func affineScale(m [6]float64) float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

func ggColor(c Color, alpha float64) gg.RGBA {
	c = c.clamped()
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A * clamp01(alpha)}
}

// appendPaths adds every path of refs to the current path in device space.
func (r *ggRaster) appendPaths(refs []PathRef) {
	for _, ref := range refs {
		m := multiplyAffine(r.view, ref.Transform.Affine())
		ref.Path.appendTo(m, r.dc.MoveTo, r.dc.CubicTo, r.dc.ClosePath)
	}
}

// drawShape fills or strokes the paths of a shape command.
func (r *ggRaster) drawShape(cmd *DrawCommand) {
	p := cmd.Paint
	alpha := cmd.Alpha * p.Opacity
	space := multiplyAffine(r.view, cmd.Transform)
	var brush gg.Brush
	if p.Gradient != nil {
		brush = gradientBrush(p.Gradient, space, alpha)
	} else {
		brush = gg.Solid(ggColor(p.Color, alpha))
	}

	r.dc.ClearPath()
	r.appendPaths(cmd.Paths)
	if !p.Kind.isStroke() {
		r.dc.SetFillRule(ggFillRule(p.FillRule))
		r.dc.SetFillBrush(brush)
		_ = r.dc.Fill()
		return
	}
	scale := affineScale(space)
	r.dc.SetStrokeBrush(brush)
	r.dc.SetLineWidth(p.Width * scale)
	r.dc.SetLineCap(ggLineCap(p.Cap))
	r.dc.SetLineJoin(ggLineJoin(p.Join))
	r.dc.SetMiterLimit(p.MiterLimit)
	if len(p.Dashes) > 0 {
		dashes := make([]float64, len(p.Dashes))
		for i, d := range p.Dashes {
			dashes[i] = d * scale
		}
		r.dc.SetDash(dashes...)
		r.dc.SetDashOffset(p.DashOffset * scale)
	} else {
		r.dc.SetDash()
	}
	_ = r.dc.Stroke()
}

// gradientBrush builds the gradient in device space. Radial gradients take
// their radius from the start-end distance and place the focus by the
// highlight length and angle.
func gradientBrush(gp *GradientPaint, space [6]float64, alpha float64) gg.Brush {
	sx, sy := transformPoint(space, gp.Start.X, gp.Start.Y)
	ex, ey := transformPoint(space, gp.End.X, gp.End.Y)
	if gp.Type == GradientRadial {
		radius := math.Hypot(ex-sx, ey-sy)
		b := gg.NewRadialGradientBrush(sx, sy, 0, radius)
		if gp.HighlightLength != 0 {
			hl := math.Max(-0.99, math.Min(0.99, gp.HighlightLength/100)) * radius
			angle := math.Atan2(ey-sy, ex-sx) + gp.HighlightAngle*math.Pi/180
			b.SetFocus(sx+hl*math.Cos(angle), sy+hl*math.Sin(angle))
		}
		for _, s := range gp.Stops {
			b.AddColorStop(clamp01(s.Offset), ggColor(s.Color, alpha))
		}
		return b
	}
	b := gg.NewLinearGradientBrush(sx, sy, ex, ey)
	for _, s := range gp.Stops {
		b.AddColorStop(clamp01(s.Offset), ggColor(s.Color, alpha))
	}
	return b
}

// layerMask rasterizes and combines the masks of one layer. Masks apply in
// order: add takes the maximum coverage, subtract removes, intersect keeps
// the minimum. A list starting with subtract or intersect starts from full
// coverage. The result is nil when masks is empty.
func (r *ggRaster) layerMask(masks []MaskCommand) *gg.Mask {
	if len(masks) == 0 {
		return nil
	}
	var acc *gg.Mask
	for _, m := range masks {
		r.dc.ClearPath()
		r.appendPaths([]PathRef{m.Path})
		cur := r.dc.AsMask()
		r.dc.ClearPath()
		if m.State.Inverted {
			cur.Invert()
		}
		if acc == nil {
			acc = gg.NewMask(cur.Width(), cur.Height())
			if m.State.Mode != MaskAdd {
				acc.Fill(255)
			}
		}
		combineMask(acc.Data(), cur.Data(), m.State.Mode, m.State.Opacity)
	}
	return acc
}

func combineMask(acc, cur []uint8, mode MaskMode, opacity float64) {
	op := clamp01(opacity)
	for i := range acc {
		v := float64(cur[i]) * op
		a := float64(acc[i])
		switch mode {
		case MaskAdd:
			a = math.Max(a, v)
		case MaskSubtract:
			a *= 1 - v/255
		case MaskIntersect:
			a = math.Min(a, v)
		}
		acc[i] = uint8(a + 0.5)
	}
}

func ggFillRule(r FillRule) gg.FillRule {
	if r == FillRuleEvenOdd {
		return gg.FillRuleEvenOdd
	}
	return gg.FillRuleNonZero
}

func ggLineCap(c LineCap) gg.LineCap {
	switch c {
	case LineCapRound:
		return gg.LineCapRound
	case LineCapSquare:
		return gg.LineCapSquare
	}
	return gg.LineCapButt
}

func ggLineJoin(j LineJoin) gg.LineJoin {
	switch j {
	case LineJoinRound:
		return gg.LineJoinRound
	case LineJoinBevel:
		return gg.LineJoinBevel
	}
	return gg.LineJoinMiter
}
