package motion

// Output is the cached per-node result of graph evaluation. A node that is
// clean for a frame keeps its Output untouched, including every path pointer.
type Output struct {
	// Version increases each time the node rebuilds.
	Version uint64
	// Transform is the world transform for layers and groups, the local
	// transform for transform nodes and the enclosing group's world
	// transform for items.
	Transform Matrix
	// Alpha is the accumulated opacity in [0, 1].
	Alpha   float64
	Visible bool
	// Paths are the geometry produced by path and modifier nodes, or
	// consumed by render nodes.
	Paths []PathRef
	Paint *Paint
	Text  *TextDocument
	Image *ImageAsset
	Mask  *MaskState
}

// PathRef is one contour with the transform that places it in the
// composition.
type PathRef struct {
	Path      *BezierPath
	Transform Matrix
	Source    NodeID
}

// PaintKind selects how a render node paints its paths.
type PaintKind uint8

const (
	PaintFill PaintKind = iota
	PaintStroke
	PaintGradientFill
	PaintGradientStroke
)

func (k PaintKind) isStroke() bool { return k == PaintStroke || k == PaintGradientStroke }

func (k PaintKind) isGradient() bool { return k == PaintGradientFill || k == PaintGradientStroke }

// Paint is the resolved paint state of a render node.
type Paint struct {
	Kind PaintKind
	// Color is used by solid paints.
	Color Color
	// Opacity is in [0, 1].
	Opacity    float64
	FillRule   FillRule
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	// Dashes alternate dash and gap lengths. Empty means a solid stroke.
	Dashes     []float64
	DashOffset float64
	Gradient   *GradientPaint
}

// GradientPaint is a resolved gradient in path coordinates.
type GradientPaint struct {
	Type            GradientType
	Stops           GradientStops
	Start           Vec2
	End             Vec2
	HighlightLength float64
	HighlightAngle  float64
}

// needsCustomCompositing reports whether the paint cannot be expressed as a
// plain triangulated fill or stroke.
func (p *Paint) needsCustomCompositing() bool {
	return p.Kind.isGradient() || len(p.Dashes) > 0
}

// MaskState is the resolved state of a layer mask.
type MaskState struct {
	Mode     MaskMode
	Inverted bool
	Opacity  float64
}
