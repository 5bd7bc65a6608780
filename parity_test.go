package motion

import (
	"math"
	"testing"
)

// The compositor samples through float32 tweens.
const parityEpsilon = 1e-3

func TestBackendsAgree(t *testing.T) {
	tests := []struct {
		name   string
		anim   func() *Animation
		frames []float64
	}{
		{"fade", fadeAnimation, []float64{5, 15, 29, 45}},
		{"hold", holdAnimation, []float64{5, 19, 20, 45}},
		{"eased", easedAnimation, []float64{3, 10, 15, 27, 45}},
		{"parented", parentedAnimation, []float64{5, 10, 20, 45}},
		{"baked ellipse", growingEllipseAnimation, []float64{4, 15, 30, 45}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imm, _ := newTestEngine(t, tt.anim(), Config{Backend: PreferImmediate})
			decl, _ := newTestEngine(t, tt.anim(), Config{})
			if decl.Backend() != BackendDeclarative {
				t.Fatalf("Backend = %v, want declarative (%v)", decl.Backend(), decl.CompatibilityReport())
			}
			for _, frame := range tt.frames {
				imm.SetFrame(frame)
				decl.SetFrame(frame)
				compareDisplayLists(t, frame, imm.DisplayList(), decl.DisplayList())
			}
		})
	}
}

func compareDisplayLists(t *testing.T, frame float64, want, got *DisplayList) {
	t.Helper()
	if len(got.Layers) != len(want.Layers) {
		t.Fatalf("frame %v: %d layers, want %d", frame, len(got.Layers), len(want.Layers))
	}
	for i := range want.Layers {
		wl, gl := &want.Layers[i], &got.Layers[i]
		if gl.Name != wl.Name {
			t.Errorf("frame %v: layer %d = %q, want %q", frame, i, gl.Name, wl.Name)
		}
		if len(gl.Commands) != len(wl.Commands) {
			t.Errorf("frame %v: layer %q has %d commands, want %d", frame, wl.Name, len(gl.Commands), len(wl.Commands))
			continue
		}
		for j := range wl.Commands {
			wc, gc := &wl.Commands[j], &gl.Commands[j]
			where := func(what string) string { return wl.Name + " " + what }
			if math.Abs(gc.Alpha-wc.Alpha) > parityEpsilon {
				t.Errorf("frame %v: %s = %v, want %v", frame, where("Alpha"), gc.Alpha, wc.Alpha)
			}
			for k := range wc.Transform {
				if math.Abs(gc.Transform[k]-wc.Transform[k]) > parityEpsilon {
					t.Errorf("frame %v: %s = %v, want %v", frame, where("Transform"), gc.Transform, wc.Transform)
					break
				}
			}
			if (gc.Paint == nil) != (wc.Paint == nil) {
				t.Errorf("frame %v: %s = %v, want %v", frame, where("Paint"), gc.Paint, wc.Paint)
				continue
			}
			if wc.Paint != nil {
				if !colorsNear(gc.Paint.Color, wc.Paint.Color) {
					t.Errorf("frame %v: %s = %v, want %v", frame, where("Color"), gc.Paint.Color, wc.Paint.Color)
				}
				if math.Abs(gc.Paint.Opacity-wc.Paint.Opacity) > parityEpsilon {
					t.Errorf("frame %v: %s = %v, want %v", frame, where("Opacity"), gc.Paint.Opacity, wc.Paint.Opacity)
				}
			}
			if len(gc.Paths) != len(wc.Paths) {
				t.Errorf("frame %v: %s has %d paths, want %d", frame, wl.Name, len(gc.Paths), len(wc.Paths))
				continue
			}
			for k := range wc.Paths {
				wb := wc.Paths[k].Path.Transformed(wc.Paths[k].Transform.Affine()).Bounds()
				gb := gc.Paths[k].Path.Transformed(gc.Paths[k].Transform.Affine()).Bounds()
				if !rectsNear(gb, wb) {
					t.Errorf("frame %v: %s path %d bounds = %v, want %v", frame, wl.Name, k, gb, wb)
				}
			}
		}
	}
}

func colorsNear(a, b Color) bool {
	return math.Abs(a.R-b.R) <= parityEpsilon && math.Abs(a.G-b.G) <= parityEpsilon &&
		math.Abs(a.B-b.B) <= parityEpsilon && math.Abs(a.A-b.A) <= parityEpsilon
}

func rectsNear(a, b Rect) bool {
	return math.Abs(a.X-b.X) <= parityEpsilon && math.Abs(a.Y-b.Y) <= parityEpsilon &&
		math.Abs(a.Width-b.Width) <= parityEpsilon && math.Abs(a.Height-b.Height) <= parityEpsilon
}
