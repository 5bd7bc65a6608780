package motion

import (
	"math"
	"testing"
)

func TestBuildGraphKinds(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	layer := mustFind(t, g, "Layer")
	if g.Kind(layer) != KindLayer {
		t.Errorf("Kind(Layer) = %v, want %v", g.Kind(layer), KindLayer)
	}
	if k := g.Kind(mustFind(t, g, "Layer", "Transform")); k != KindTransform {
		t.Errorf("Kind(Transform) = %v, want %v", k, KindTransform)
	}
	box := mustFind(t, g, "Layer", "Box")
	if g.Kind(box) != KindPath {
		t.Errorf("Kind(Box) = %v, want %v", g.Kind(box), KindPath)
	}
	fill := mustFind(t, g, "Layer", "Fill 1")
	if g.Kind(fill) != KindRender {
		t.Errorf("Kind(Fill 1) = %v, want %v", g.Kind(fill), KindRender)
	}
	if in := g.Inputs(fill); len(in) != 1 || in[0] != box {
		t.Errorf("Inputs(Fill 1) = %v, want [%d]", in, box)
	}
	if g.Parent(box) != layer {
		t.Errorf("Parent(Box) = %d, want %d", g.Parent(box), layer)
	}
}

func TestBuildGraphSkipsHiddenItems(t *testing.T) {
	a := fadeAnimation()
	a.Layers[0].Shapes[0].(*Rectangle).Hidden = true
	g := BuildGraph(a)
	if id := g.Find("Layer", "Box"); id != NoNode {
		t.Errorf("hidden item built as node %d", id)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	g.Update(15, false)
	fill := mustFind(t, g, "Layer", "Fill 1")
	out := *g.Output(fill)

	g.Update(15, false)
	again := g.Output(fill)
	if again.Version != out.Version {
		t.Errorf("Version = %d after repeated update, want %d", again.Version, out.Version)
	}
	if again.Paths[0].Path != out.Paths[0].Path {
		t.Error("repeated update replaced the path pointer")
	}
	if again.Alpha != out.Alpha {
		t.Errorf("Alpha = %v, want %v", again.Alpha, out.Alpha)
	}
}

func TestUpstreamRebuildKeepsPath(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	g.Update(0, false)
	box := mustFind(t, g, "Layer", "Box")
	path := g.Output(box).Paths[0].Path
	version := g.Output(box).Version

	g.Update(10, false)
	local, upstream := g.Dirty(box)
	if local || !upstream {
		t.Errorf("Dirty(Box) = (%v, %v), want (false, true)", local, upstream)
	}
	if g.Output(box).Paths[0].Path != path {
		t.Error("upstream-only rebuild replaced the path")
	}
	if g.Output(box).Version != version+1 {
		t.Errorf("Version = %d, want %d", g.Output(box).Version, version+1)
	}

	tr := mustFind(t, g, "Layer", "Transform")
	if local, _ := g.Dirty(tr); !local {
		t.Error("animated transform should be locally dirty")
	}
}

func TestStaticLayerStaysClean(t *testing.T) {
	a := fadeAnimation()
	a.Layers = []*Layer{staticLayer("Still", 1, red)}
	g := BuildGraph(a)
	g.Update(0, false)
	fill := mustFind(t, g, "Still", "Fill 1")
	version := g.Output(fill).Version

	g.Update(20, false)
	if v := g.Output(fill).Version; v != version {
		t.Errorf("Version = %d, want %d", v, version)
	}
	if local, upstream := g.Dirty(fill); local || upstream {
		t.Errorf("Dirty = (%v, %v), want clean", local, upstream)
	}
}

func TestForceUpdateRebuildsEverything(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	g.Update(15, false)
	fill := mustFind(t, g, "Layer", "Fill 1")
	version := g.Output(fill).Version

	g.ForceUpdate()
	if v := g.Output(fill).Version; v != version+1 {
		t.Errorf("Version = %d, want %d", v, version+1)
	}
	if g.Frame() != 15 {
		t.Errorf("Frame = %v, want 15", g.Frame())
	}
}

func TestLayerAlphaFollowsOpacity(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	fill := mustFind(t, g, "Layer", "Fill 1")
	for _, tc := range []struct{ frame, want float64 }{{0, 0}, {15, 0.5}, {30, 1}, {45, 1}} {
		g.Update(tc.frame, false)
		if got := g.Output(fill).Alpha; math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Alpha at %v = %v, want %v", tc.frame, got, tc.want)
		}
	}
}

func TestLayerParentComposesTransform(t *testing.T) {
	a := fadeAnimation()
	parent := &Layer{
		Name: "Null", Index: 2, Type: LayerNull, OutFrame: 60,
		Transform: &Transform{Position: Static(Vec2{10, 20})},
	}
	a.Layers[0].HasParent = true
	a.Layers[0].Parent = 2
	a.Layers = append(a.Layers, parent)

	g := BuildGraph(a)
	g.Update(30, false)
	m := g.Output(mustFind(t, g, "Layer")).Transform.Affine()
	assertNear(t, "tx", m[4], 10)
	assertNear(t, "ty", m[5], 20)
}

func TestParentHoldsPoseOutsideWindow(t *testing.T) {
	g := BuildGraph(parentedAnimation())
	for _, tc := range []struct{ frame, want float64 }{{5, 5}, {10, 10}, {20, 10}, {45, 10}} {
		g.Update(tc.frame, false)
		m := g.Output(mustFind(t, g, "Layer")).Transform.Affine()
		assertNear(t, "tx", m[4], tc.want)
	}
}

func TestResolveKeyPaths(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	if n := len(g.Resolve(MustKeyPath("Layer.Transform.Opacity"))); n != 1 {
		t.Errorf("Resolve(Opacity) = %d properties, want 1", n)
	}
	if n := len(g.Resolve(MustKeyPath("**.Color"))); n != 1 {
		t.Errorf("Resolve(**.Color) = %d properties, want 1", n)
	}
	if n := len(g.Resolve(MustKeyPath("Other.Transform.Opacity"))); n != 0 {
		t.Errorf("Resolve(Other) = %d properties, want 0", n)
	}
}

func TestLayerOutsideWindowIsHidden(t *testing.T) {
	a := fadeAnimation()
	a.Layers[0].InFrame = 10
	g := BuildGraph(a)
	g.Update(5, false)
	if g.Output(mustFind(t, g, "Layer")).Visible {
		t.Error("layer visible before its in frame")
	}
	g.Update(10, false)
	if !g.Output(mustFind(t, g, "Layer")).Visible {
		t.Error("layer hidden at its in frame")
	}
}
