package motion

// CommandType identifies the kind of draw command.
type CommandType uint8

const (
	CommandShape CommandType = iota // fill or stroke of paths
	CommandText                     // text document at Transform
	CommandImage                    // image asset at Transform
)

// DrawCommand is a single draw instruction emitted from evaluated state.
// Paths and Paint are shared with the graph cache and must not be modified.
type DrawCommand struct {
	Type CommandType
	// Node is the emitting node; Version is its output version, which
	// canvases use to reuse retained geometry.
	Node    NodeID
	Version uint64
	// Alpha is the accumulated container opacity. Paint opacity is separate.
	Alpha     float64
	Transform [6]float64
	Paths     []PathRef
	Paint     *Paint
	Text      *TextDocument
	Image     *ImageAsset
}

// MaskCommand is one layer mask in composition coordinates.
type MaskCommand struct {
	Path  PathRef
	State MaskState
}

// DisplayLayer holds the commands of one layer in paint order.
type DisplayLayer struct {
	Node     NodeID
	Name     string
	Blend    BlendMode
	Masks    []MaskCommand
	Commands []DrawCommand
}

// DisplayList is the complete paint state of one frame. Layers are in paint
// order: bottom first.
type DisplayList struct {
	Frame  float64
	Bounds Rect
	Layers []DisplayLayer
}

// commandCount returns the number of draw commands over all layers.
func (d *DisplayList) commandCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for i := range d.Layers {
		n += len(d.Layers[i].Commands)
	}
	return n
}

// emitDisplayList converts the graph's cached outputs into a display list.
// Items listed first paint last, for layers and for shape items alike.
func emitDisplayList(g *Graph, dst *DisplayList) {
	dst.Frame = g.frame
	dst.Bounds = g.anim.Bounds()
	dst.Layers = dst.Layers[:0]
	layers := g.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		id := layers[i]
		n := &g.nodes[id]
		if !n.out.Visible || !n.evaluated {
			continue
		}
		lc := n.content.(*layerContent)
		dl := DisplayLayer{Node: id, Name: n.name, Blend: lc.layer.Blend}
		for _, c := range n.children {
			m := &g.nodes[c]
			if m.kind == KindMask && m.out.Mask != nil {
				dl.Masks = append(dl.Masks, MaskCommand{Path: m.out.Paths[0], State: *m.out.Mask})
			}
		}
		dl.Commands = g.emitContainer(id, dl.Commands)
		if len(dl.Commands) > 0 {
			dst.Layers = append(dst.Layers, dl)
		}
	}
}

func (g *Graph) emitContainer(id NodeID, cmds []DrawCommand) []DrawCommand {
	children := g.nodes[id].children
	for i := len(children) - 1; i >= 0; i-- {
		n := &g.nodes[children[i]]
		if !n.evaluated {
			continue
		}
		switch n.kind {
		case KindGroup:
			if n.out.Alpha > 0 {
				cmds = g.emitContainer(n.id, cmds)
			}
		case KindRender:
			if len(n.out.Paths) == 0 || n.out.Alpha <= 0 || n.out.Paint.Opacity <= 0 {
				continue
			}
			if n.out.Paint.Kind.isStroke() && n.out.Paint.Width <= 0 {
				continue
			}
			cmds = append(cmds, DrawCommand{
				Type:      CommandShape,
				Node:      n.id,
				Version:   n.out.Version,
				Alpha:     n.out.Alpha,
				Transform: n.out.Transform.Affine(),
				Paths:     n.out.Paths,
				Paint:     n.out.Paint,
			})
		case KindText:
			if n.out.Text == nil || n.out.Text.Text == "" {
				continue
			}
			cmds = append(cmds, DrawCommand{
				Type:      CommandText,
				Node:      n.id,
				Version:   n.out.Version,
				Alpha:     n.out.Alpha,
				Transform: n.out.Transform.Affine(),
				Text:      n.out.Text,
			})
		case KindImage:
			cmds = append(cmds, DrawCommand{
				Type:      CommandImage,
				Node:      n.id,
				Version:   n.out.Version,
				Alpha:     n.out.Alpha,
				Transform: n.out.Transform.Affine(),
				Image:     n.out.Image,
			})
		}
	}
	return cmds
}
