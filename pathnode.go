package motion

// pathContent generates the geometry of one path item. Its output holds a
// single PathRef placed by the enclosing container's world transform. The
// path pointer only changes when the item's own properties change.
type pathContent struct {
	build func(frame float64, cached bool) BezierPath
	props []Property
	// shape is set for free-form paths, which compile from their keyframes.
	shape   *AnimatableProperty[BezierPath]
	reverse bool
}

func newPathContent(item ShapeItem) *pathContent {
	switch it := item.(type) {
	case *Ellipse:
		size := newProperty(PropSize, it.Size, Vec2{})
		pos := newProperty(PropPosition, it.Position, Vec2{})
		return &pathContent{
			props: []Property{size, pos},
			build: func(f float64, cached bool) BezierPath {
				return EllipsePath(size.sample(f, cached), pos.sample(f, cached), it.Direction)
			},
		}
	case *Rectangle:
		size := newProperty(PropSize, it.Size, Vec2{})
		pos := newProperty(PropPosition, it.Position, Vec2{})
		round := newProperty(PropRoundness, it.Roundness, 0)
		return &pathContent{
			props: []Property{size, pos, round},
			build: func(f float64, cached bool) BezierPath {
				return RectanglePath(size.sample(f, cached), pos.sample(f, cached), float64(round.sample(f, cached)), it.Direction)
			},
		}
	case *Star:
		return newStarContent(it)
	case *Shape:
		path := newProperty(PropPath, it.Path, BezierPath{})
		return &pathContent{
			props:   []Property{path},
			shape:   path,
			reverse: it.Direction == CounterClockwise,
			build: func(f float64, cached bool) BezierPath {
				p := path.sample(f, cached)
				if it.Direction == CounterClockwise {
					return p.Reversed()
				}
				return p
			},
		}
	}
	return &pathContent{build: func(float64, bool) BezierPath { return BezierPath{} }}
}

func newStarContent(it *Star) *pathContent {
	pos := newProperty(PropPosition, it.Position, Vec2{})
	points := newProperty(PropPoints, it.Points, 5)
	rot := newProperty(PropRotation, it.Rotation, 0)
	outerR := newProperty(PropOuterRadius, it.OuterRadius, 0)
	outerRound := newProperty(PropOuterRoundness, it.OuterRoundness, 0)
	if it.Kind == KindPolygon {
		return &pathContent{
			props: []Property{pos, points, rot, outerR, outerRound},
			build: func(f float64, cached bool) BezierPath {
				return PolygonPath(PolygonParams{
					Position:       pos.sample(f, cached),
					Points:         float64(points.sample(f, cached)),
					Rotation:       float64(rot.sample(f, cached)),
					OuterRadius:    float64(outerR.sample(f, cached)),
					OuterRoundness: float64(outerRound.sample(f, cached)),
					Direction:      it.Direction,
				})
			},
		}
	}
	innerR := newProperty(PropInnerRadius, it.InnerRadius, 0)
	innerRound := newProperty(PropInnerRoundness, it.InnerRoundness, 0)
	return &pathContent{
		props: []Property{pos, points, rot, innerR, outerR, innerRound, outerRound},
		build: func(f float64, cached bool) BezierPath {
			return StarPath(StarParams{
				Position:       pos.sample(f, cached),
				Points:         float64(points.sample(f, cached)),
				Rotation:       float64(rot.sample(f, cached)),
				InnerRadius:    float64(innerR.sample(f, cached)),
				OuterRadius:    float64(outerR.sample(f, cached)),
				InnerRoundness: float64(innerRound.sample(f, cached)),
				OuterRoundness: float64(outerRound.sample(f, cached)),
				Direction:      it.Direction,
			})
		},
	}
}

func (c *pathContent) properties() []Property { return c.props }

func (c *pathContent) rebuild(g *Graph, n *node, frame float64, local bool) {
	parent := &g.nodes[n.parent].out
	var path *BezierPath
	if len(n.out.Paths) == 1 && !local {
		path = n.out.Paths[0].Path
	} else {
		p := c.build(frame, true)
		path = &p
	}
	n.out.Transform = parent.Transform
	n.out.Alpha = parent.Alpha
	n.out.Visible = true
	n.out.Paths = []PathRef{{Path: path, Transform: parent.Transform, Source: n.id}}
}

