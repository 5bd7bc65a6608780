package motion

import "math"

// Viewport maps the composition into a host rectangle according to a
// content mode.
type Viewport struct {
	// Target is the screen-space rectangle the animation renders into.
	Target Rect
	Mode   ContentMode

	bounds     Rect
	viewMatrix [6]float64
	invView    [6]float64
	dirty      bool
}

// NewViewport returns a viewport showing bounds inside target.
func NewViewport(bounds, target Rect, mode ContentMode) *Viewport {
	return &Viewport{Target: target, Mode: mode, bounds: bounds, dirty: true}
}

// SetTarget moves or resizes the host rectangle.
func (v *Viewport) SetTarget(target Rect) {
	if target != v.Target {
		v.Target = target
		v.dirty = true
	}
}

// SetMode changes the content mode.
func (v *Viewport) SetMode(mode ContentMode) {
	if mode != v.Mode {
		v.Mode = mode
		v.dirty = true
	}
}

// Matrix returns the composition-to-screen transform.
//
// viewMatrix = Translate(target origin + centering offset) * Scale(sx, sy) * Translate(-bounds origin)
func (v *Viewport) Matrix() [6]float64 {
	if !v.dirty {
		return v.viewMatrix
	}
	v.dirty = false

	bw, bh := v.bounds.Width, v.bounds.Height
	tw, th := v.Target.Width, v.Target.Height
	sx, sy := 1.0, 1.0
	if bw > 0 && bh > 0 {
		switch v.Mode {
		case ContentScaleToFill:
			sx, sy = tw/bw, th/bh
		case ContentAspectFit:
			s := math.Min(tw/bw, th/bh)
			sx, sy = s, s
		case ContentAspectFill:
			s := math.Max(tw/bw, th/bh)
			sx, sy = s, s
		}
	}
	tx := v.Target.X + (tw-bw*sx)/2 - v.bounds.X*sx
	ty := v.Target.Y + (th-bh*sy)/2 - v.bounds.Y*sy

	v.viewMatrix = [6]float64{sx, 0, 0, sy, tx, ty}
	v.invView = invertAffine(v.viewMatrix)
	return v.viewMatrix
}

// CompositionToScreen converts composition coordinates to screen coordinates.
func (v *Viewport) CompositionToScreen(x, y float64) (sx, sy float64) {
	return transformPoint(v.Matrix(), x, y)
}

// ScreenToComposition converts screen coordinates to composition coordinates.
func (v *Viewport) ScreenToComposition(sx, sy float64) (x, y float64) {
	v.Matrix()
	return transformPoint(v.invView, sx, sy)
}

// VisibleBounds returns the part of the composition inside the target, in
// composition coordinates.
func (v *Viewport) VisibleBounds() Rect {
	v.Matrix()
	inv := v.invView

	x0, y0 := transformPoint(inv, v.Target.X, v.Target.Y)
	x1, y1 := transformPoint(inv, v.Target.X+v.Target.Width, v.Target.Y+v.Target.Height)
	r := Rect{
		X:      math.Max(math.Min(x0, x1), v.bounds.X),
		Y:      math.Max(math.Min(y0, y1), v.bounds.Y),
		Width:  0,
		Height: 0,
	}
	right := math.Min(math.Max(x0, x1), v.bounds.X+v.bounds.Width)
	bottom := math.Min(math.Max(y0, y1), v.bounds.Y+v.bounds.Height)
	r.Width = math.Max(0, right-r.X)
	r.Height = math.Max(0, bottom-r.Y)
	return r
}
