package motion

import (
	"math"
	"testing"
)

func TestEmitDisplayList(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	g.Update(15, false)
	var list DisplayList
	emitDisplayList(g, &list)

	if list.Frame != 15 {
		t.Errorf("Frame = %v, want 15", list.Frame)
	}
	if list.Bounds != (Rect{Width: 100, Height: 100}) {
		t.Errorf("Bounds = %v, want 100x100", list.Bounds)
	}
	if len(list.Layers) != 1 {
		t.Fatalf("layers = %d, want 1", len(list.Layers))
	}
	dl := list.Layers[0]
	if dl.Name != "Layer" || len(dl.Commands) != 1 {
		t.Fatalf("layer %q with %d commands, want Layer with 1", dl.Name, len(dl.Commands))
	}
	cmd := dl.Commands[0]
	if cmd.Type != CommandShape {
		t.Errorf("Type = %v, want CommandShape", cmd.Type)
	}
	if math.Abs(cmd.Alpha-0.5) > 1e-9 {
		t.Errorf("Alpha = %v, want 0.5", cmd.Alpha)
	}
	if cmd.Paint.Kind != PaintFill || cmd.Paint.Color != red {
		t.Errorf("Paint = %+v, want red fill", cmd.Paint)
	}
	if len(cmd.Paths) != 1 {
		t.Fatalf("paths = %d, want 1", len(cmd.Paths))
	}
	b := cmd.Paths[0].Path.Bounds()
	if b.X != 25 || b.Y != 25 || b.Width != 50 || b.Height != 50 {
		t.Errorf("path bounds = %v, want {25 25 50 50}", b)
	}
}

func TestEmitDisplayListSkipsTransparentLayers(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	g.Update(0, false)
	var list DisplayList
	emitDisplayList(g, &list)
	if len(list.Layers) != 0 {
		t.Errorf("layers = %d at zero opacity, want 0", len(list.Layers))
	}
}

func TestEmitDisplayListPaintOrder(t *testing.T) {
	a := fadeAnimation()
	a.Layers = []*Layer{
		staticLayer("Top", 1, red),
		staticLayer("Bottom", 2, ColorBlack),
	}
	g := BuildGraph(a)
	g.Update(0, false)
	var list DisplayList
	emitDisplayList(g, &list)
	if len(list.Layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(list.Layers))
	}
	if list.Layers[0].Name != "Bottom" || list.Layers[1].Name != "Top" {
		t.Errorf("paint order = [%s %s], want [Bottom Top]", list.Layers[0].Name, list.Layers[1].Name)
	}
	if n := list.commandCount(); n != 2 {
		t.Errorf("commandCount = %d, want 2", n)
	}
}

func TestEmitDisplayListReusesCachedPaths(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	var list DisplayList
	g.Update(10, false)
	emitDisplayList(g, &list)
	first := list.Layers[0].Commands[0]

	g.Update(20, false)
	emitDisplayList(g, &list)
	second := list.Layers[0].Commands[0]
	if first.Paths[0].Path != second.Paths[0].Path {
		t.Error("static box path was rebuilt")
	}
	if second.Version == first.Version {
		t.Error("fill version did not change while its alpha did")
	}
}
