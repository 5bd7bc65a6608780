package motion

// transformContent resolves a layer or group transform into a local matrix
// and opacity. Its output Transform is local; containers compose it.
type transformContent struct {
	anchor    *AnimatableProperty[Vec2]
	position  *AnimatableProperty[Vec2]
	positionX *AnimatableProperty[Scalar]
	positionY *AnimatableProperty[Scalar]
	scale     *AnimatableProperty[Vec2]
	rotation  *AnimatableProperty[Scalar]
	rotationX *AnimatableProperty[Scalar]
	rotationY *AnimatableProperty[Scalar]
	opacity   *AnimatableProperty[Scalar]
	skew      *AnimatableProperty[Scalar]
	skewAxis  *AnimatableProperty[Scalar]
	props     []Property
}

func newTransformContent(t *Transform) *transformContent {
	if t == nil {
		t = &Transform{}
	}
	c := &transformContent{
		anchor:    newProperty(PropAnchor, t.Anchor, Vec2{}),
		scale:     newProperty(PropScale, t.Scale, Vec2{100, 100}),
		rotation:  newProperty(PropRotation, t.Rotation, 0),
		rotationX: newProperty(PropRotationX, t.RotationX, 0),
		rotationY: newProperty(PropRotationY, t.RotationY, 0),
		opacity:   newProperty(PropOpacity, t.Opacity, 100),
		skew:      newProperty(PropSkew, t.Skew, 0),
		skewAxis:  newProperty(PropSkewAxis, t.SkewAxis, 0),
	}
	c.props = []Property{c.anchor}
	if t.PositionX != nil || t.PositionY != nil {
		c.positionX = newProperty(PropPositionX, t.PositionX, 0)
		c.positionY = newProperty(PropPositionY, t.PositionY, 0)
		c.props = append(c.props, c.positionX, c.positionY)
	} else {
		c.position = newProperty(PropPosition, t.Position, Vec2{})
		c.props = append(c.props, c.position)
	}
	c.props = append(c.props, c.scale, c.rotation, c.rotationX, c.rotationY, c.opacity, c.skew, c.skewAxis)
	return c
}

func (c *transformContent) properties() []Property { return c.props }

func (c *transformContent) values(frame float64) transformValues {
	v := transformValues{
		Anchor:    c.anchor.Value(frame),
		Scale:     c.scale.Value(frame),
		RotationX: float64(c.rotationX.Value(frame)),
		RotationY: float64(c.rotationY.Value(frame)),
		RotationZ: float64(c.rotation.Value(frame)),
		Skew:      float64(c.skew.Value(frame)),
		SkewAxis:  float64(c.skewAxis.Value(frame)),
	}
	if c.position != nil {
		v.Position = c.position.Value(frame)
	} else {
		v.Position = Vec2{float64(c.positionX.Value(frame)), float64(c.positionY.Value(frame))}
	}
	return v
}

func (c *transformContent) rebuild(_ *Graph, n *node, frame float64, _ bool) {
	n.out.Transform = c.values(frame).localMatrix()
	n.out.Alpha = clamp01(float64(c.opacity.Value(frame)) / 100)
	n.out.Visible = true
}

// layerContent composes a layer's transform with its transform parent.
// Opacity is not inherited through layer parenting.
type layerContent struct {
	layer  *Layer
	parent NodeID
}

func (*layerContent) properties() []Property { return nil }

func (c *layerContent) rebuild(g *Graph, n *node, _ float64, _ bool) {
	tr := &g.nodes[n.transform].out
	world := tr.Transform
	if c.parent != NoNode {
		world = g.nodes[c.parent].out.Transform.Mul(world)
	}
	n.out.Transform = world
	n.out.Alpha = tr.Alpha
	n.out.Visible = c.layer.VisibleAt(g.frame)
}

// groupContent composes a shape group's transform with its container.
// Opacity multiplies down the group tree.
type groupContent struct{}

func (groupContent) properties() []Property { return nil }

func (groupContent) rebuild(g *Graph, n *node, _ float64, _ bool) {
	parent := &g.nodes[n.parent].out
	tr := &g.nodes[n.transform].out
	n.out.Transform = parent.Transform.Mul(tr.Transform)
	n.out.Alpha = parent.Alpha * tr.Alpha
	n.out.Visible = true
}
