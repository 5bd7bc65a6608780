package motion

import (
	"fmt"
	"slices"
)

// NodeID indexes a node in its Graph.
type NodeID int32

// NoNode marks a missing node reference.
const NoNode NodeID = -1

// NodeKind is the closed set of node variants.
type NodeKind uint8

const (
	KindRoot NodeKind = iota
	KindLayer
	KindTransform
	KindGroup
	KindPath
	KindModifier
	KindRender
	KindText
	KindImage
	KindMask
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindLayer:
		return "layer"
	case KindTransform:
		return "transform"
	case KindGroup:
		return "group"
	case KindPath:
		return "path"
	case KindModifier:
		return "modifier"
	case KindRender:
		return "render"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindMask:
		return "mask"
	}
	return "unknown"
}

// content is the per-kind behaviour of a node.
type content interface {
	// properties lists the node's animatable properties in a fixed order.
	properties() []Property
	// rebuild recomputes n.out for frame. local is false when only
	// upstream outputs changed.
	rebuild(g *Graph, n *node, frame float64, local bool)
}

type node struct {
	id        NodeID
	kind      NodeKind
	name      string
	parent    NodeID
	children  []NodeID
	transform NodeID   // transform child of layers and groups
	inputs    []NodeID // upstream path sources of modifiers and render nodes
	layer     NodeID   // owning layer
	content   content
	out       Output

	localDirty    bool
	upstreamDirty bool
	evaluated     bool
	rebuiltPass   uint64
}

// Graph is the animator node tree of one animation, stored as a flat arena.
// Owning edges are child index lists; parent, layer and input references are
// plain indices. Nodes are never added or removed after Build.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	anim   *Animation
	nodes  []node
	layers []NodeID // topological order: parents before children
	pass   uint64
	forced bool
	frame  float64
	stats  graphStats
}

type graphStats struct {
	visited int
	rebuilt int
}

// BuildGraph creates the node graph for anim. Hidden items are skipped.
func BuildGraph(anim *Animation) *Graph {
	g := &Graph{anim: anim}
	root := g.add(node{kind: KindRoot, name: anim.Name, parent: NoNode, layer: NoNode})
	byIndex := make(map[int]NodeID, len(anim.Layers))
	for _, l := range anim.Layers {
		id := g.buildLayer(root, l)
		byIndex[l.Index] = id
	}
	for _, id := range g.nodes[root].children {
		lc := g.nodes[id].content.(*layerContent)
		if lc.layer.HasParent {
			if p, ok := byIndex[lc.layer.Parent]; ok {
				lc.parent = p
			}
		}
	}
	g.layers = g.layerOrder()
	return g
}

func (g *Graph) add(n node) NodeID {
	id := NodeID(len(g.nodes))
	n.id = id
	if n.transform == 0 {
		n.transform = NoNode
	}
	g.nodes = append(g.nodes, n)
	if n.parent != NoNode {
		g.nodes[n.parent].children = append(g.nodes[n.parent].children, id)
	}
	return id
}

// layerOrder sorts layers so every transform parent precedes its children,
// keeping model order otherwise.
func (g *Graph) layerOrder() []NodeID {
	all := g.nodes[0].children
	order := make([]NodeID, 0, len(all))
	placed := make(map[NodeID]bool, len(all))
	var place func(id NodeID, depth int)
	place = func(id NodeID, depth int) {
		if placed[id] || depth > len(all) {
			return
		}
		if p := g.nodes[id].content.(*layerContent).parent; p != NoNode {
			place(p, depth+1)
		}
		placed[id] = true
		order = append(order, id)
	}
	for _, id := range all {
		place(id, 0)
	}
	return order
}

func (g *Graph) buildLayer(root NodeID, l *Layer) NodeID {
	lc := &layerContent{layer: l, parent: NoNode}
	id := g.add(node{kind: KindLayer, name: l.Name, parent: root, content: lc})
	g.nodes[id].layer = id
	g.nodes[id].transform = g.buildTransform(id, id, l.Transform)
	for _, m := range l.Masks {
		if m.Mode == MaskNone {
			continue
		}
		g.add(node{kind: KindMask, name: m.Name, parent: id, layer: id, content: newMaskContent(m)})
	}
	switch l.Type {
	case LayerShape:
		g.buildItems(id, id, l.Shapes)
	case LayerSolid:
		size := l.SolidSize
		g.buildItems(id, id, []ShapeItem{
			&Rectangle{ItemInfo: ItemInfo{Name: "Solid"}, Size: Static(size), Position: Static(size.Scale(0.5))},
			&Fill{ItemInfo: ItemInfo{Name: "Fill"}, Color: Static(l.SolidColor)},
		})
	case LayerImage:
		asset, _ := g.anim.Asset(l.ImageRef)
		g.add(node{kind: KindImage, name: "Image", parent: id, layer: id, content: &imageContent{asset: asset}})
	case LayerText:
		g.add(node{kind: KindText, name: "Text", parent: id, layer: id, content: newTextContent(l.Text)})
	}
	return id
}

func (g *Graph) buildTransform(parent, layer NodeID, t *Transform) NodeID {
	return g.add(node{kind: KindTransform, name: "Transform", parent: parent, layer: layer, content: newTransformContent(t)})
}

// buildItems adds items under container and wires sources: each path or
// nested group feeds the modifiers and render nodes after it, and a modifier
// replaces the sources it consumed. It returns the sources left at the end.
func (g *Graph) buildItems(container, layer NodeID, items []ShapeItem) []NodeID {
	var sources []NodeID
	for _, item := range items {
		if item.IsHidden() {
			continue
		}
		name := item.ItemName()
		switch it := item.(type) {
		case *ShapeGroup:
			id := g.add(node{kind: KindGroup, name: name, parent: container, layer: layer, content: &groupContent{}})
			g.nodes[id].transform = g.buildTransform(id, layer, it.Transform)
			sources = append(sources, g.buildItems(id, layer, it.Items)...)
		case *Ellipse, *Rectangle, *Star, *Shape:
			id := g.add(node{kind: KindPath, name: name, parent: container, layer: layer, content: newPathContent(item)})
			sources = append(sources, id)
		case *RoundedCorners, *Trim:
			id := g.add(node{kind: KindModifier, name: name, parent: container, layer: layer, content: newModifierContent(item)})
			g.nodes[id].inputs = slices.Clone(sources)
			sources = []NodeID{id}
		case *Fill, *Stroke, *GradientFill, *GradientStroke:
			id := g.add(node{kind: KindRender, name: name, parent: container, layer: layer, content: newRenderContent(item)})
			g.nodes[id].inputs = slices.Clone(sources)
		default:
			Logger().Warn("unsupported shape item", "type", fmt.Sprintf("%T", item), "name", name)
		}
	}
	return sources
}

// Update evaluates every layer at composition frame, clamped to the layer's
// window. Clean nodes keep their cached output. With force set every node
// rebuilds.
func (g *Graph) Update(frame float64, force bool) {
	g.pass++
	g.frame = frame
	g.forced = force
	g.stats = graphStats{}
	for _, id := range g.layers {
		n := &g.nodes[id]
		lc := n.content.(*layerContent)
		upstream := lc.parent != NoNode && g.nodes[lc.parent].rebuiltPass == g.pass
		if visible := lc.layer.VisibleAt(frame); visible != n.out.Visible {
			upstream = true
		}
		g.updateForFrame(id, lc.layer.LocalFrame(lc.layer.WindowFrame(frame)), upstream)
	}
	g.forced = false
}

// updateForFrame applies the dirty rule to one node and recurses into its
// children. It reports whether the node rebuilt.
func (g *Graph) updateForFrame(id NodeID, frame float64, upstream bool) bool {
	n := &g.nodes[id]
	g.stats.visited++
	if n.transform != NoNode && g.updateForFrame(n.transform, frame, false) {
		upstream = true
	}
	for _, in := range n.inputs {
		if g.nodes[in].rebuiltPass == g.pass {
			upstream = true
		}
	}
	local := g.forced || !n.evaluated || hasLocalUpdates(n.content.properties(), frame)
	n.localDirty, n.upstreamDirty = local, upstream
	rebuilt := local || upstream
	if rebuilt {
		n.content.rebuild(g, n, frame, local || g.forced)
		n.evaluated = true
		n.out.Version++
		n.rebuiltPass = g.pass
		g.stats.rebuilt++
	}
	if n.kind == KindLayer && !n.out.Visible {
		return rebuilt
	}
	for _, c := range n.children {
		if c == n.transform {
			continue
		}
		g.updateForFrame(c, frame, rebuilt)
	}
	return rebuilt
}

func hasLocalUpdates(props []Property, frame float64) bool {
	for _, p := range props {
		if p.HasUpdate(frame) {
			return true
		}
	}
	return false
}

// ForceUpdate drops every cache and re-evaluates the current frame.
func (g *Graph) ForceUpdate() {
	for i := range g.nodes {
		for _, p := range g.nodes[i].content.properties() {
			p.reset()
		}
		g.nodes[i].evaluated = false
	}
	g.Update(g.frame, true)
}

// Frame returns the composition frame of the last Update.
func (g *Graph) Frame() float64 { return g.frame }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Root returns the root node.
func (g *Graph) Root() NodeID { return 0 }

// Kind returns the variant of a node.
func (g *Graph) Kind(id NodeID) NodeKind { return g.nodes[id].kind }

// Name returns the keypath segment of a node.
func (g *Graph) Name(id NodeID) string { return g.nodes[id].name }

// Parent returns the parent of a node, NoNode for the root.
func (g *Graph) Parent(id NodeID) NodeID { return g.nodes[id].parent }

// Children returns the owned children of a node.
func (g *Graph) Children(id NodeID) []NodeID { return g.nodes[id].children }

// Inputs returns the upstream sources of a modifier or render node.
func (g *Graph) Inputs(id NodeID) []NodeID { return g.nodes[id].inputs }

// Output returns the cached output of a node.
func (g *Graph) Output(id NodeID) *Output { return &g.nodes[id].out }

// Dirty returns the local and upstream flags of the last evaluation.
func (g *Graph) Dirty(id NodeID) (local, upstream bool) {
	n := &g.nodes[id]
	return n.localDirty, n.upstreamDirty
}

// Layers returns the layer nodes in model order.
func (g *Graph) Layers() []NodeID { return g.nodes[0].children }

// Properties returns the properties of a node.
func (g *Graph) Properties(id NodeID) []Property { return g.nodes[id].content.properties() }

// Find returns the node addressed by the dot-free names from the layer down,
// or NoNode.
func (g *Graph) Find(names ...string) NodeID {
	id := g.Root()
	for _, name := range names {
		next := NoNode
		for _, c := range g.nodes[id].children {
			if g.nodes[c].name == name {
				next = c
				break
			}
		}
		if next == NoNode {
			return NoNode
		}
		id = next
	}
	return id
}

// namePath returns the keypath names of a node, excluding the root.
func (g *Graph) namePath(id NodeID) []string {
	var names []string
	for ; id > 0; id = g.nodes[id].parent {
		names = append(names, g.nodes[id].name)
	}
	slices.Reverse(names)
	return names
}

// propertyRef is a property with its node and full keypath names.
type propertyRef struct {
	node  NodeID
	names []string
	prop  Property
}

// eachProperty calls fn for every property in node order.
func (g *Graph) eachProperty(fn func(ref propertyRef)) {
	for id := range g.nodes {
		props := g.nodes[id].content.properties()
		if len(props) == 0 {
			continue
		}
		base := g.namePath(NodeID(id))
		for _, p := range props {
			names := append(slices.Clip(base), p.Name().String())
			fn(propertyRef{node: NodeID(id), names: names, prop: p})
		}
	}
}

// Resolve returns every property addressed by k.
func (g *Graph) Resolve(k KeyPath) []Property {
	var out []Property
	g.eachProperty(func(ref propertyRef) {
		if k.Matches(ref.names) {
			out = append(out, ref.prop)
		}
	})
	return out
}

// layerFrame converts a composition frame to the local frame of the layer
// owning id.
func (g *Graph) layerFrame(id NodeID, frame float64) float64 {
	l := g.nodes[id].layer
	if l == NoNode {
		return frame
	}
	return g.nodes[l].content.(*layerContent).layer.LocalFrame(frame)
}

// repairedProperties lists properties whose keyframes were repaired on load.
func (g *Graph) repairedProperties() []string {
	var out []string
	g.eachProperty(func(ref propertyRef) {
		if r := ref.prop.repairReason(); r != "" {
			out = append(out, fmt.Sprintf("%s: %s", joinNames(ref.names), r))
		}
	})
	return out
}
