package motion

// modifierContent rewrites the paths of its inputs: rounded corners or trim.
// Each output ref keeps the transform and source of the path it came from.
type modifierContent struct {
	props []Property
	apply func(frame float64, in []PathRef) []PathRef
}

func newModifierContent(item ShapeItem) *modifierContent {
	switch it := item.(type) {
	case *RoundedCorners:
		radius := newProperty(PropRadius, it.Radius, 0)
		return &modifierContent{
			props: []Property{radius},
			apply: func(f float64, in []PathRef) []PathRef {
				r := float64(radius.Value(f))
				out := make([]PathRef, len(in))
				for i, ref := range in {
					ref.Path = RoundCorners(ref.Path, r)
					out[i] = ref
				}
				return out
			},
		}
	case *Trim:
		start := newProperty(PropStart, it.Start, 0)
		end := newProperty(PropEnd, it.End, 100)
		offset := newProperty(PropOffset, it.Offset, 0)
		return &modifierContent{
			props: []Property{start, end, offset},
			apply: func(f float64, in []PathRef) []PathRef {
				return trimRefs(in, float64(start.Value(f)), float64(end.Value(f)), float64(offset.Value(f)), it.Mode)
			},
		}
	}
	return &modifierContent{apply: func(_ float64, in []PathRef) []PathRef { return in }}
}

// trimRefs trims the paths of refs, keeping each piece's transform and
// source.
func trimRefs(refs []PathRef, start, end, offset float64, mode TrimMode) []PathRef {
	paths := make([]*BezierPath, len(refs))
	for i, ref := range refs {
		paths[i] = ref.Path
	}
	var out []PathRef
	trimEach(paths, start, end, offset, mode, func(i int, p *BezierPath) {
		out = append(out, PathRef{Path: p, Transform: refs[i].Transform, Source: refs[i].Source})
	})
	return out
}

func (c *modifierContent) properties() []Property { return c.props }

func (c *modifierContent) rebuild(g *Graph, n *node, frame float64, _ bool) {
	parent := &g.nodes[n.parent].out
	n.out.Transform = parent.Transform
	n.out.Alpha = parent.Alpha
	n.out.Visible = true
	n.out.Paths = c.apply(frame, g.inputPaths(n))
}

// inputPaths concatenates the path outputs of n's inputs in order.
func (g *Graph) inputPaths(n *node) []PathRef {
	var refs []PathRef
	for _, in := range n.inputs {
		refs = append(refs, g.nodes[in].out.Paths...)
	}
	return refs
}
