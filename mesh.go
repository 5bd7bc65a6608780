package motion

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// retainedShape is the triangulated geometry of one shape command in
// composition coordinates, rebuilt only when the command's version changes.
type retainedShape struct {
	version  uint64
	vertices []ebiten.Vertex
	indices  []uint16
	fillRule ebiten.FillRule
}

// triangulate builds the geometry of a plain shape command. Paths are
// flattened into composition space; stroke widths scale with the command
// transform.
func triangulate(cmd *DrawCommand) *retainedShape {
	var path vector.Path
	for _, ref := range cmd.Paths {
		ref.Path.appendTo(ref.Transform.Affine(),
			func(x, y float64) { path.MoveTo(float32(x), float32(y)) },
			func(c1x, c1y, c2x, c2y, x, y float64) {
				path.CubicTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(x), float32(y))
			},
			path.Close)
	}
	p := cmd.Paint
	rs := &retainedShape{version: cmd.Version}
	if p.Kind.isStroke() {
		op := &vector.StrokeOptions{
			Width:      float32(p.Width * affineScale(cmd.Transform)),
			LineCap:    vectorLineCap(p.Cap),
			LineJoin:   vectorLineJoin(p.Join),
			MiterLimit: float32(p.MiterLimit),
		}
		rs.vertices, rs.indices = path.AppendVerticesAndIndicesForStroke(nil, nil, op)
		rs.fillRule = ebiten.FillRuleFillAll
	} else {
		rs.vertices, rs.indices = path.AppendVerticesAndIndicesForFilling(nil, nil)
		rs.fillRule = ebiten.FillRuleNonZero
		if p.FillRule == FillRuleEvenOdd {
			rs.fillRule = ebiten.FillRuleEvenOdd
		}
	}
	return rs
}

// project appends the shape's vertices to dst, mapped through view and
// tinted with the premultiplied tint.
//
// Matrix layout: [0]=a, [1]=b, [2]=c, [3]=d, [4]=tx, [5]=ty
// newX = a*x + c*y + tx, newY = b*x + d*y + ty
//
// Every vertex samples the centre of the white pixel.
func (rs *retainedShape) project(dst []ebiten.Vertex, view [6]float64, tint Color) []ebiten.Vertex {
	a, b, c, d, tx, ty := view[0], view[1], view[2], view[3], view[4], view[5]
	ca := float32(tint.A)
	cr, cg, cb := float32(tint.R)*ca, float32(tint.G)*ca, float32(tint.B)*ca

	for i := range rs.vertices {
		s := &rs.vertices[i]
		ox, oy := float64(s.DstX), float64(s.DstY)
		dst = append(dst, ebiten.Vertex{
			DstX:   float32(a*ox + c*oy + tx),
			DstY:   float32(b*ox + d*oy + ty),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	return dst
}

func vectorLineCap(c LineCap) vector.LineCap {
	switch c {
	case LineCapRound:
		return vector.LineCapRound
	case LineCapSquare:
		return vector.LineCapSquare
	}
	return vector.LineCapButt
}

func vectorLineJoin(j LineJoin) vector.LineJoin {
	switch j {
	case LineJoinRound:
		return vector.LineJoinRound
	case LineJoinBevel:
		return vector.LineJoinBevel
	}
	return vector.LineJoinMiter
}

// whitePixelImage is only touched on the ebiten goroutine.
var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image, the
// source of every triangulated shape.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
