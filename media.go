package motion

// textContent resolves the keyframed document of a text layer.
type textContent struct {
	doc *AnimatableProperty[TextDocument]
}

func newTextContent(g *KeyframeGroup[TextDocument]) *textContent {
	return &textContent{doc: newProperty(PropText, g, TextDocument{Size: 14, Fill: ColorBlack})}
}

func (c *textContent) properties() []Property { return []Property{c.doc} }

func (c *textContent) rebuild(g *Graph, n *node, frame float64, local bool) {
	layer := &g.nodes[n.parent].out
	n.out.Transform = layer.Transform
	n.out.Alpha = layer.Alpha
	n.out.Visible = true
	if local || n.out.Text == nil {
		doc := c.doc.Value(frame)
		n.out.Text = &doc
	}
}

// imageContent places an image asset at the layer origin.
type imageContent struct {
	asset ImageAsset
}

func (*imageContent) properties() []Property { return nil }

func (c *imageContent) rebuild(g *Graph, n *node, _ float64, _ bool) {
	layer := &g.nodes[n.parent].out
	n.out.Transform = layer.Transform
	n.out.Alpha = layer.Alpha
	n.out.Visible = true
	n.out.Image = &c.asset
}

// maskContent resolves one layer mask. Its path is in layer coordinates.
type maskContent struct {
	mask    *Mask
	path    *AnimatableProperty[BezierPath]
	opacity *AnimatableProperty[Scalar]
}

func newMaskContent(m *Mask) *maskContent {
	return &maskContent{
		mask:    m,
		path:    newProperty(PropMaskPath, m.Path, BezierPath{}),
		opacity: newProperty(PropMaskOpacity, m.Opacity, 100),
	}
}

func (c *maskContent) properties() []Property { return []Property{c.path, c.opacity} }

func (c *maskContent) rebuild(g *Graph, n *node, frame float64, local bool) {
	layer := &g.nodes[n.parent].out
	n.out.Transform = layer.Transform
	n.out.Alpha = layer.Alpha
	n.out.Visible = true
	var path *BezierPath
	if len(n.out.Paths) == 1 && !local {
		path = n.out.Paths[0].Path
	} else {
		p := c.path.Value(frame)
		path = &p
	}
	n.out.Paths = []PathRef{{Path: path, Transform: layer.Transform, Source: n.id}}
	n.out.Mask = &MaskState{
		Mode:     c.mask.Mode,
		Inverted: c.mask.Inverted,
		Opacity:  clamp01(float64(c.opacity.Value(frame)) / 100),
	}
}
