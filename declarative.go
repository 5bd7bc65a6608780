package motion

import "fmt"

// compiledScene is the compositor's copy of an animation: curves and static
// paint state, detached from the graph. Playing it never touches the graph.
type compiledScene struct {
	bounds Rect
	layers []*compiledLayer // paint order, bottom first
	curves []*Curve
}

type compiledLayer struct {
	node      NodeID
	name      string
	blend     BlendMode
	in, out   float64
	parent    *compiledLayer
	transform *compiledTransform
	items     []*compiledItem // paint order
}

type compiledTransform struct {
	anchor, position, positionX, positionY, scale *Curve
	rotation, rotationX, rotationY                *Curve
	opacity, skew, skewAxis                       *Curve
}

type compiledItem struct {
	typ    CommandType
	node   NodeID
	groups []*compiledTransform // outermost first
	paint  *compiledPaint
	paths  []*compiledPath
	image  *ImageAsset
}

type compiledPath struct {
	node     NodeID
	curve    *Curve
	template BezierPath
	reverse  bool
	groups   []*compiledTransform
}

type compiledPaint struct {
	base                  Paint
	color, opacity, width *Curve
	start, end            *Curve
	hlLength, hlAngle     *Curve
}

// sceneCompiler carries per-compile state: curves are shared per property.
type sceneCompiler struct {
	g        *Graph
	bakeStep float64
	scene    *compiledScene
	byProp   map[Property]*Curve
	byPath   map[NodeID]*compiledPath
	cc       *curveCompiler
}

// compileScene compiles every property of g into curves. Any failure makes
// the whole animation ineligible for the declarative backend.
func compileScene(g *Graph, bakeStep float64) (*compiledScene, error) {
	sc := &sceneCompiler{
		g:        g,
		bakeStep: bakeStep,
		scene:    &compiledScene{bounds: g.anim.Bounds()},
		byProp:   make(map[Property]*Curve),
		byPath:   make(map[NodeID]*compiledPath),
	}
	byNode := make(map[NodeID]*compiledLayer)
	for _, id := range g.layers {
		cl, err := sc.layer(id)
		if err != nil {
			return nil, err
		}
		if p := g.nodes[id].content.(*layerContent).parent; p != NoNode {
			cl.parent = byNode[p]
		}
		byNode[id] = cl
	}
	layers := g.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		sc.scene.layers = append(sc.scene.layers, byNode[layers[i]])
	}
	return sc.scene, nil
}

func (sc *sceneCompiler) curve(p Property) (*Curve, error) {
	if c, ok := sc.byProp[p]; ok {
		return c, nil
	}
	c, err := p.compile(sc.cc)
	if err != nil {
		return nil, err
	}
	sc.byProp[p] = c
	sc.scene.curves = append(sc.scene.curves, c)
	return c, nil
}

// optionalCurve compiles p when it is present.
func optionalCurve[T Value[T]](sc *sceneCompiler, p *AnimatableProperty[T]) (*Curve, error) {
	if p == nil {
		return nil, nil
	}
	return sc.curve(p)
}

func (sc *sceneCompiler) layer(id NodeID) (*compiledLayer, error) {
	n := &sc.g.nodes[id]
	l := n.content.(*layerContent).layer
	sc.cc = newCurveCompiler(l, sc.bakeStep)
	cl := &compiledLayer{node: id, name: n.name, blend: l.Blend, in: l.InFrame, out: l.OutFrame}
	if l.Hidden {
		cl.out = cl.in
	}
	var err error
	if cl.transform, err = sc.transform(n.transform); err != nil {
		return nil, err
	}
	if err := sc.items(id, nil, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (sc *sceneCompiler) transform(id NodeID) (*compiledTransform, error) {
	tc := sc.g.nodes[id].content.(*transformContent)
	ct := &compiledTransform{}
	type field struct {
		dst  **Curve
		prop Property
	}
	fields := []field{
		{&ct.anchor, tc.anchor},
		{&ct.scale, tc.scale},
		{&ct.rotation, tc.rotation},
		{&ct.rotationX, tc.rotationX},
		{&ct.rotationY, tc.rotationY},
		{&ct.opacity, tc.opacity},
		{&ct.skew, tc.skew},
		{&ct.skewAxis, tc.skewAxis},
	}
	if tc.position != nil {
		fields = append(fields, field{&ct.position, tc.position})
	} else {
		fields = append(fields, field{&ct.positionX, tc.positionX}, field{&ct.positionY, tc.positionY})
	}
	for _, f := range fields {
		c, err := sc.curve(f.prop)
		if err != nil {
			return nil, err
		}
		*f.dst = c
	}
	return ct, nil
}

// items compiles the drawable children of a container in paint order.
func (sc *sceneCompiler) items(container NodeID, groups []*compiledTransform, cl *compiledLayer) error {
	children := sc.g.nodes[container].children
	for i := len(children) - 1; i >= 0; i-- {
		n := &sc.g.nodes[children[i]]
		switch n.kind {
		case KindGroup:
			gt, err := sc.transform(n.transform)
			if err != nil {
				return err
			}
			inner := append(append([]*compiledTransform(nil), groups...), gt)
			if err := sc.items(n.id, inner, cl); err != nil {
				return err
			}
		case KindRender:
			item, err := sc.render(n, groups)
			if err != nil {
				return err
			}
			cl.items = append(cl.items, item)
		case KindImage:
			asset := n.content.(*imageContent).asset
			cl.items = append(cl.items, &compiledItem{typ: CommandImage, node: n.id, groups: groups, image: &asset})
		}
	}
	return nil
}

func (sc *sceneCompiler) render(n *node, groups []*compiledTransform) (*compiledItem, error) {
	rc := n.content.(*renderContent)
	item := &compiledItem{typ: CommandShape, node: n.id, groups: groups}
	base := rc.paint(sc.cc.localFrame(0), false)
	p := &compiledPaint{base: *base}
	var err error
	if p.opacity, err = sc.curve(rc.opacity); err != nil {
		return nil, err
	}
	if p.color, err = optionalCurve(sc, rc.color); err != nil {
		return nil, err
	}
	if rc.stroke != nil {
		if p.width, err = sc.curve(rc.stroke.width); err != nil {
			return nil, err
		}
	}
	if gp := rc.gradient; gp != nil {
		if p.start, err = sc.curve(gp.start); err != nil {
			return nil, err
		}
		if p.end, err = sc.curve(gp.end); err != nil {
			return nil, err
		}
		if p.hlLength, err = optionalCurve(sc, gp.highlightLength); err != nil {
			return nil, err
		}
		if p.hlAngle, err = optionalCurve(sc, gp.highlightAngle); err != nil {
			return nil, err
		}
	}
	item.paint = p
	for _, in := range n.inputs {
		cp, err := sc.path(in)
		if err != nil {
			return nil, err
		}
		item.paths = append(item.paths, cp)
	}
	return item, nil
}

// path compiles a path node. Free-form paths keep their keyframe timing;
// generated shapes are baked.
func (sc *sceneCompiler) path(id NodeID) (*compiledPath, error) {
	if cp, ok := sc.byPath[id]; ok {
		return cp, nil
	}
	cp, err := sc.compilePath(id)
	if err == nil {
		sc.byPath[id] = cp
	}
	return cp, err
}

func (sc *sceneCompiler) compilePath(id NodeID) (*compiledPath, error) {
	n := &sc.g.nodes[id]
	pc, ok := n.content.(*pathContent)
	if !ok {
		return nil, fmt.Errorf("%w: %s feeds a paint", errNotCompilable, sc.g.describe(id))
	}
	cp := &compiledPath{node: id, groups: sc.groupChain(id)}
	if pc.shape != nil {
		c, err := sc.curve(pc.shape)
		if err != nil {
			return nil, err
		}
		cp.curve, cp.reverse = c, pc.reverse
		cp.template = pc.shape.ValueAt(sc.cc.localFrame(0))
		return cp, nil
	}
	animated := false
	for _, p := range pc.props {
		animated = animated || p.IsAnimated()
	}
	cp.template = pc.build(sc.cc.localFrame(0), false)
	c, err := bakeCurve(sc.cc, PropPath, animated, func(f float64) []float64 {
		return pc.build(f, false).Components(nil)
	})
	if err != nil {
		return nil, err
	}
	sc.scene.curves = append(sc.scene.curves, c)
	cp.curve = c
	return cp, nil
}

// groupChain collects the group transforms between a node and its layer,
// outermost first.
func (sc *sceneCompiler) groupChain(id NodeID) []*compiledTransform {
	var chain []*compiledTransform
	for p := sc.g.nodes[id].parent; p != NoNode && sc.g.nodes[p].kind == KindGroup; p = sc.g.nodes[p].parent {
		gt, err := sc.transform(sc.g.nodes[p].transform)
		if err != nil {
			continue
		}
		chain = append([]*compiledTransform{gt}, chain...)
	}
	return chain
}

// sampler returns the current components of a curve.
type sampler func(c *Curve) []float64

func (s sampler) scalar(c *Curve, def float64) float64 {
	if c == nil {
		return def
	}
	return s(c)[0]
}

func (s sampler) vec(c *Curve, def Vec2) Vec2 {
	if c == nil {
		return def
	}
	v := s(c)
	return Vec2{v[0], v[1]}
}

func (ct *compiledTransform) local(s sampler) (Matrix, float64) {
	v := transformValues{
		Anchor:    s.vec(ct.anchor, Vec2{}),
		Scale:     s.vec(ct.scale, Vec2{100, 100}),
		RotationX: s.scalar(ct.rotationX, 0),
		RotationY: s.scalar(ct.rotationY, 0),
		RotationZ: s.scalar(ct.rotation, 0),
		Skew:      s.scalar(ct.skew, 0),
		SkewAxis:  s.scalar(ct.skewAxis, 0),
	}
	if ct.position != nil {
		v.Position = s.vec(ct.position, Vec2{})
	} else {
		v.Position = Vec2{s.scalar(ct.positionX, 0), s.scalar(ct.positionY, 0)}
	}
	return v.localMatrix(), clamp01(s.scalar(ct.opacity, 100) / 100)
}

// chain composes a list of group transforms onto world.
func chain(world Matrix, alpha float64, groups []*compiledTransform, s sampler) (Matrix, float64) {
	for _, gt := range groups {
		m, a := gt.local(s)
		world, alpha = world.Mul(m), alpha*a
	}
	return world, alpha
}

func (p *compiledPaint) resolve(s sampler) *Paint {
	out := p.base
	out.Opacity = clamp01(s.scalar(p.opacity, 100) / 100)
	if p.color != nil {
		v := s(p.color)
		out.Color = Color{v[0], v[1], v[2], v[3]}.clamped()
	}
	if p.width != nil {
		out.Width = max(s.scalar(p.width, 0), 0)
	}
	if p.base.Gradient != nil {
		gp := *p.base.Gradient
		gp.Start = s.vec(p.start, gp.Start)
		gp.End = s.vec(p.end, gp.End)
		gp.HighlightLength = s.scalar(p.hlLength, gp.HighlightLength)
		gp.HighlightAngle = s.scalar(p.hlAngle, gp.HighlightAngle)
		out.Gradient = &gp
	}
	return &out
}

// emit writes the display list of the scene at composition frame using the
// sampled curve values. version tags every command.
func (cs *compiledScene) emit(frame float64, s sampler, version uint64, dst *DisplayList) {
	dst.Frame = frame
	dst.Bounds = cs.bounds
	dst.Layers = dst.Layers[:0]
	worlds := make(map[*compiledLayer]struct {
		m Matrix
		a float64
	}, len(cs.layers))
	var world func(cl *compiledLayer) (Matrix, float64)
	world = func(cl *compiledLayer) (Matrix, float64) {
		if w, ok := worlds[cl]; ok {
			return w.m, w.a
		}
		m, a := cl.transform.local(s)
		if cl.parent != nil {
			pm, _ := world(cl.parent)
			m = pm.Mul(m)
		}
		worlds[cl] = struct {
			m Matrix
			a float64
		}{m, a}
		return m, a
	}
	for _, cl := range cs.layers {
		if frame < cl.in || frame >= cl.out {
			continue
		}
		lw, la := world(cl)
		dl := DisplayLayer{Node: cl.node, Name: cl.name, Blend: cl.blend}
		for _, it := range cl.items {
			gw, ga := chain(lw, la, it.groups, s)
			if ga <= 0 {
				continue
			}
			cmd := DrawCommand{Type: it.typ, Node: it.node, Version: version, Alpha: ga, Transform: gw.Affine()}
			switch it.typ {
			case CommandImage:
				cmd.Image = it.image
			case CommandShape:
				cmd.Paint = it.paint.resolve(s)
				if cmd.Paint.Opacity <= 0 || (cmd.Paint.Kind.isStroke() && cmd.Paint.Width <= 0) {
					continue
				}
				for _, cp := range it.paths {
					path := pathFromComponents(&cp.template, s(cp.curve))
					if cp.reverse {
						path = path.Reversed()
					}
					pw, _ := chain(lw, la, cp.groups, s)
					cmd.Paths = append(cmd.Paths, PathRef{Path: &path, Transform: pw, Source: cp.node})
				}
				if len(cmd.Paths) == 0 {
					continue
				}
			}
			dl.Commands = append(dl.Commands, cmd)
		}
		if len(dl.Commands) > 0 {
			dst.Layers = append(dst.Layers, dl)
		}
	}
}
