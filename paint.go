package motion

// renderContent paints the paths of its inputs. It holds no geometry of its
// own: Output.Paths mirrors the inputs, Output.Paint the resolved paint.
// When only the inputs changed the Paint pointer is kept.
type renderContent struct {
	kind     PaintKind
	fillRule FillRule
	color    *AnimatableProperty[Color]
	opacity  *AnimatableProperty[Scalar]
	stroke   *strokeProps
	gradient *gradientProps
	props    []Property
}

type strokeProps struct {
	width      *AnimatableProperty[Scalar]
	cap        LineCap
	join       LineJoin
	miterLimit float64
	dashes     []*AnimatableProperty[Scalar]
	dashKinds  []DashKind
}

type gradientProps struct {
	typ             GradientType
	stops           *AnimatableProperty[GradientStops]
	start           *AnimatableProperty[Vec2]
	end             *AnimatableProperty[Vec2]
	highlightLength *AnimatableProperty[Scalar]
	highlightAngle  *AnimatableProperty[Scalar]
}

func newRenderContent(item ShapeItem) *renderContent {
	c := &renderContent{}
	switch it := item.(type) {
	case *Fill:
		c.kind, c.fillRule = PaintFill, it.FillRule
		c.color = newProperty(PropColor, it.Color, ColorBlack)
		c.opacity = newProperty(PropOpacity, it.Opacity, 100)
		c.props = []Property{c.color, c.opacity}
	case *Stroke:
		c.kind = PaintStroke
		c.color = newProperty(PropColor, it.Color, ColorBlack)
		c.opacity = newProperty(PropOpacity, it.Opacity, 100)
		c.props = []Property{c.color, c.opacity}
		c.addStroke(it.StrokeStyle)
	case *GradientFill:
		c.kind, c.fillRule = PaintGradientFill, it.FillRule
		c.addGradient(it.Gradient)
		c.opacity = newProperty(PropOpacity, it.Opacity, 100)
		c.props = append(c.props, c.opacity)
	case *GradientStroke:
		c.kind = PaintGradientStroke
		c.addGradient(it.Gradient)
		c.opacity = newProperty(PropOpacity, it.Opacity, 100)
		c.props = append(c.props, c.opacity)
		c.addStroke(it.StrokeStyle)
	}
	return c
}

func (c *renderContent) addStroke(s StrokeStyle) {
	sp := &strokeProps{
		width:      newProperty(PropStrokeWidth, s.Width, 0),
		cap:        s.Cap,
		join:       s.Join,
		miterLimit: s.MiterLimit,
	}
	c.props = append(c.props, sp.width)
	for _, d := range s.Dashes {
		name := PropDash
		switch d.Kind {
		case DashGap:
			name = PropGap
		case DashOffset:
			name = PropDashOffset
		}
		p := newProperty(name, d.Value, 0)
		sp.dashes = append(sp.dashes, p)
		sp.dashKinds = append(sp.dashKinds, d.Kind)
		c.props = append(c.props, p)
	}
	c.stroke = sp
}

func (c *renderContent) addGradient(g Gradient) {
	gp := &gradientProps{
		typ:   g.Type,
		stops: newProperty(PropColors, g.Stops, GradientStops(nil)),
		start: newProperty(PropStartPoint, g.Start, Vec2{}),
		end:   newProperty(PropEndPoint, g.End, Vec2{}),
	}
	c.props = append(c.props, gp.stops, gp.start, gp.end)
	if g.Type == GradientRadial {
		gp.highlightLength = newProperty(PropHighlightLength, g.HighlightLength, 0)
		gp.highlightAngle = newProperty(PropHighlightAngle, g.HighlightAngle, 0)
		c.props = append(c.props, gp.highlightLength, gp.highlightAngle)
	}
	c.gradient = gp
}

func (c *renderContent) properties() []Property { return c.props }

func (c *renderContent) rebuild(g *Graph, n *node, frame float64, local bool) {
	parent := &g.nodes[n.parent].out
	n.out.Transform = parent.Transform
	n.out.Alpha = parent.Alpha
	n.out.Visible = true
	n.out.Paths = g.inputPaths(n)
	if local || n.out.Paint == nil {
		n.out.Paint = c.paint(frame, true)
	}
}

// paint resolves every paint property at frame. With cached set every
// property is read through its cache so the cache moves to frame.
func (c *renderContent) paint(frame float64, cached bool) *Paint {
	p := &Paint{
		Kind:     c.kind,
		FillRule: c.fillRule,
		Opacity:  clamp01(float64(c.opacity.sample(frame, cached)) / 100),
	}
	if c.color != nil {
		p.Color = c.color.sample(frame, cached).clamped()
	}
	if gp := c.gradient; gp != nil {
		p.Gradient = &GradientPaint{
			Type:  gp.typ,
			Stops: gp.stops.sample(frame, cached),
			Start: gp.start.sample(frame, cached),
			End:   gp.end.sample(frame, cached),
		}
		if gp.highlightLength != nil {
			p.Gradient.HighlightLength = float64(gp.highlightLength.sample(frame, cached))
			p.Gradient.HighlightAngle = float64(gp.highlightAngle.sample(frame, cached))
		}
	}
	if sp := c.stroke; sp != nil {
		p.Width = max(float64(sp.width.sample(frame, cached)), 0)
		p.Cap, p.Join = sp.cap, sp.join
		p.MiterLimit = sp.miterLimit
		if p.MiterLimit <= 0 {
			p.MiterLimit = 4
		}
		p.Dashes, p.DashOffset = resolveDashes(sp, frame, cached)
	}
	return p
}

// resolveDashes turns the dash elements into alternating dash and gap
// lengths. A pattern of only zeros draws a solid stroke.
func resolveDashes(sp *strokeProps, frame float64, cached bool) ([]float64, float64) {
	var pattern []float64
	var offset float64
	nonZero := false
	for i, d := range sp.dashes {
		v := max(float64(d.sample(frame, cached)), 0)
		if sp.dashKinds[i] == DashOffset {
			offset = v
			continue
		}
		if v > 0 {
			nonZero = true
		}
		pattern = append(pattern, v)
	}
	if !nonZero {
		return nil, 0
	}
	if len(pattern)%2 == 1 {
		pattern = append(pattern, pattern...)
	}
	return pattern, offset
}
