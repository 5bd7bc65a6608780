package motion

import "testing"

var red = Color{1, 0, 0, 1}

// fadeAnimation is a 100x100, 60 frame composition with one shape layer
// named "Layer": a 50x50 red box centred in the frame whose layer opacity
// ramps from 0 at frame 0 to 100 at frame 30.
func fadeAnimation() *Animation {
	return &Animation{
		Name:      "fade",
		Width:     100,
		Height:    100,
		EndFrame:  60,
		FrameRate: 30,
		Layers: []*Layer{{
			Name:     "Layer",
			Index:    1,
			OutFrame: 60,
			Transform: &Transform{
				Opacity: scalarKeys(0, 0, 30, 100),
			},
			Shapes: []ShapeItem{
				&Rectangle{
					ItemInfo: ItemInfo{Name: "Box"},
					Size:     Static(Vec2{50, 50}),
					Position: Static(Vec2{50, 50}),
				},
				&Fill{
					ItemInfo: ItemInfo{Name: "Fill 1"},
					Color:    Static(red),
				},
			},
		}},
	}
}

// staticLayer returns a shape layer holding a box of colour c that never
// changes.
func staticLayer(name string, index int, c Color) *Layer {
	return &Layer{
		Name:     name,
		Index:    index,
		OutFrame: 60,
		Shapes: []ShapeItem{
			&Rectangle{
				ItemInfo: ItemInfo{Name: "Box"},
				Size:     Static(Vec2{20, 20}),
				Position: Static(Vec2{10, 10}),
			},
			&Fill{ItemInfo: ItemInfo{Name: "Fill 1"}, Color: Static(c)},
		},
	}
}

// withRoundedCorners appends a rounded-corners modifier to the first layer.
func withRoundedCorners(a *Animation) *Animation {
	l := a.Layers[0]
	items := append([]ShapeItem{}, l.Shapes[:1]...)
	items = append(items, &RoundedCorners{ItemInfo: ItemInfo{Name: "Round 1"}, Radius: Static(Scalar(5))})
	l.Shapes = append(items, l.Shapes[1:]...)
	return a
}

func mustFind(t *testing.T, g *Graph, names ...string) NodeID {
	t.Helper()
	id := g.Find(names...)
	if id == NoNode {
		t.Fatalf("node %v not found", names)
	}
	return id
}

// holdAnimation is fadeAnimation with the opacity held at 30 until frame
// 20, where it jumps to 100.
func holdAnimation() *Animation {
	a := fadeAnimation()
	a.Name = "hold"
	a.Layers[0].Transform.Opacity = Keyframes(
		Keyframe[Scalar]{Time: 0, Value: 30, Hold: true},
		Keyframe[Scalar]{Time: 20, Value: 100},
	)
	return a
}

// easedAnimation is fadeAnimation with an ease-in-out opacity ramp.
func easedAnimation() *Animation {
	a := fadeAnimation()
	a.Name = "eased"
	a.Layers[0].Transform.Opacity = Keyframes(
		Keyframe[Scalar]{Time: 0, Value: 0, OutTangent: &Vec2{0.42, 0}},
		Keyframe[Scalar]{Time: 30, Value: 100, InTangent: &Vec2{0.58, 1}},
	)
	return a
}

// parentedAnimation parents "Layer" to a null whose window ends at frame 10
// while its position keeps moving until frame 30.
func parentedAnimation() *Animation {
	a := fadeAnimation()
	a.Name = "parented"
	a.Layers[0].HasParent = true
	a.Layers[0].Parent = 2
	a.Layers = append(a.Layers, &Layer{
		Name: "Null", Index: 2, Type: LayerNull, OutFrame: 10,
		Transform: &Transform{Position: Keyframes(
			Keyframe[Vec2]{Time: 0, Value: Vec2{0, 0}},
			Keyframe[Vec2]{Time: 30, Value: Vec2{30, 0}},
		)},
	})
	return a
}

// growingEllipseAnimation replaces the box with an ellipse whose size grows
// from 10 to 50 over the first 30 frames. Its path compiles to a baked curve.
func growingEllipseAnimation() *Animation {
	a := fadeAnimation()
	a.Name = "ellipse"
	a.Layers[0].Shapes[0] = &Ellipse{
		ItemInfo: ItemInfo{Name: "Ellipse"},
		Size: Keyframes(
			Keyframe[Vec2]{Time: 0, Value: Vec2{10, 10}},
			Keyframe[Vec2]{Time: 30, Value: Vec2{50, 50}},
		),
		Position: Static(Vec2{50, 50}),
	}
	return a
}
