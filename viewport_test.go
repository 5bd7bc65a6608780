package motion

import "testing"

func TestViewportContentModes(t *testing.T) {
	bounds := Rect{Width: 100, Height: 100}
	target := Rect{Width: 200, Height: 100}
	tests := []struct {
		mode ContentMode
		want [6]float64
	}{
		{ContentScaleToFill, [6]float64{2, 0, 0, 1, 0, 0}},
		{ContentAspectFit, [6]float64{1, 0, 0, 1, 50, 0}},
		{ContentAspectFill, [6]float64{2, 0, 0, 2, 0, -50}},
		{ContentCenter, [6]float64{1, 0, 0, 1, 50, 0}},
	}
	for _, tt := range tests {
		v := NewViewport(bounds, target, tt.mode)
		assertMatrix(t, string(tt.mode), v.Matrix(), tt.want)
	}
}

func TestViewportTargetOffset(t *testing.T) {
	v := NewViewport(Rect{Width: 100, Height: 50}, Rect{X: 10, Y: 20, Width: 100, Height: 100}, ContentAspectFit)
	assertMatrix(t, "offset", v.Matrix(), [6]float64{1, 0, 0, 1, 10, 45})
}

func TestViewportRoundTrip(t *testing.T) {
	v := NewViewport(Rect{Width: 100, Height: 100}, Rect{Width: 300, Height: 200}, ContentAspectFit)
	sx, sy := v.CompositionToScreen(25, 75)
	x, y := v.ScreenToComposition(sx, sy)
	assertNear(t, "x", x, 25)
	assertNear(t, "y", y, 75)
}

func TestViewportSetTargetRecomputes(t *testing.T) {
	v := NewViewport(Rect{Width: 100, Height: 100}, Rect{Width: 100, Height: 100}, ContentAspectFit)
	assertMatrix(t, "before", v.Matrix(), identityTransform)
	v.SetTarget(Rect{Width: 200, Height: 200})
	assertMatrix(t, "after", v.Matrix(), [6]float64{2, 0, 0, 2, 0, 0})
	v.SetMode(ContentCenter)
	assertMatrix(t, "center", v.Matrix(), [6]float64{1, 0, 0, 1, 50, 50})
}

func TestViewportVisibleBounds(t *testing.T) {
	v := NewViewport(Rect{Width: 100, Height: 100}, Rect{Width: 200, Height: 100}, ContentAspectFill)
	got := v.VisibleBounds()
	want := Rect{X: 0, Y: 25, Width: 100, Height: 50}
	if got != want {
		t.Errorf("VisibleBounds = %v, want %v", got, want)
	}
	v.SetMode(ContentAspectFit)
	if got := v.VisibleBounds(); got != (Rect{Width: 100, Height: 100}) {
		t.Errorf("fit VisibleBounds = %v, want whole composition", got)
	}
}
