package motion

import (
	"math"
	"testing"
)

func TestCombineMask(t *testing.T) {
	tests := []struct {
		name    string
		mode    MaskMode
		opacity float64
		acc     uint8
		cur     uint8
		want    uint8
	}{
		{"add keeps max", MaskAdd, 1, 100, 200, 200},
		{"add below acc", MaskAdd, 1, 200, 100, 200},
		{"add half opacity", MaskAdd, 0.5, 0, 200, 100},
		{"subtract full", MaskSubtract, 1, 255, 255, 0},
		{"subtract half", MaskSubtract, 1, 200, 128, 100},
		{"subtract nothing", MaskSubtract, 1, 200, 0, 200},
		{"intersect keeps min", MaskIntersect, 1, 255, 80, 80},
		{"intersect empty", MaskIntersect, 1, 0, 255, 0},
	}
	for _, tt := range tests {
		acc := []uint8{tt.acc}
		combineMask(acc, []uint8{tt.cur}, tt.mode, tt.opacity)
		if d := int(acc[0]) - int(tt.want); d < -1 || d > 1 {
			t.Errorf("%s: got %d, want %d", tt.name, acc[0], tt.want)
		}
	}
}

func TestAffineScale(t *testing.T) {
	assertNear(t, "identity", affineScale(identityTransform), 1)
	assertNear(t, "uniform", affineScale([6]float64{3, 0, 0, 3, 10, 10}), 3)
	assertNear(t, "rotated", affineScale([6]float64{0, 2, -2, 0, 0, 0}), 2)
	if got := affineScale([6]float64{4, 0, 0, 1, 0, 0}); math.Abs(got-2) > 1e-9 {
		t.Errorf("non-uniform = %v, want 2", got)
	}
}

func TestRasterFillsBox(t *testing.T) {
	g := BuildGraph(fadeAnimation())
	g.Update(30, false)
	var list DisplayList
	emitDisplayList(g, &list)

	r := newGGRaster(100, 100, identityTransform)
	r.drawShape(&list.Layers[0].Commands[0])
	img := r.dc.Image()
	if _, _, _, a := img.At(50, 50).RGBA(); a>>8 < 250 {
		t.Errorf("centre alpha = %d, want opaque", a>>8)
	}
	if _, _, _, a := img.At(10, 10).RGBA(); a != 0 {
		t.Errorf("outside alpha = %d, want 0", a)
	}
}

func TestLayerMaskModes(t *testing.T) {
	box := RectanglePath(Vec2{50, 50}, Vec2{50, 50}, 0, Clockwise)
	cmd := MaskCommand{Path: PathRef{Path: &box, Transform: IdentityMatrix}, State: MaskState{Mode: MaskAdd, Opacity: 1}}

	r := newGGRaster(100, 100, identityTransform)
	m := r.layerMask([]MaskCommand{cmd})
	if m == nil {
		t.Fatal("layerMask returned nil")
	}
	if v := m.At(50, 50); v < 250 {
		t.Errorf("inside coverage = %d, want 255", v)
	}
	if v := m.At(5, 5); v != 0 {
		t.Errorf("outside coverage = %d, want 0", v)
	}

	cmd.State.Inverted = true
	m = r.layerMask([]MaskCommand{cmd})
	if v := m.At(5, 5); v < 250 {
		t.Errorf("inverted outside coverage = %d, want 255", v)
	}
}
