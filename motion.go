package motion

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is the fallback paint color for fills and strokes without color data.
var ColorBlack = Color{0, 0, 0, 1}

// ColorWhite is the identity tint.
var ColorWhite = Color{1, 1, 1, 1}

// Interpolate blends c toward to. RGB channels go through go-colorful's
// component-wise blend, alpha is blended the same way. amount is not clamped.
func (c Color) Interpolate(to Color, amount float64) Color {
	rgb := colorful.Color{R: c.R, G: c.G, B: c.B}.BlendRgb(colorful.Color{R: to.R, G: to.G, B: to.B}, amount)
	return Color{R: rgb.R, G: rgb.G, B: rgb.B, A: c.A + (to.A-c.A)*amount}
}

// Components appends R, G, B, A to dst.
func (c Color) Components(dst []float64) []float64 {
	return append(dst, c.R, c.G, c.B, c.A)
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (Color, error) {
	if len(s) == 9 {
		rgb, err := colorful.Hex(s[:7])
		if err != nil {
			return Color{}, err
		}
		a, err := strconv.ParseUint(s[7:9], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("motion: invalid alpha in %q: %w", s, err)
		}
		return Color{R: rgb.R, G: rgb.G, B: rgb.B, A: float64(a) / 255}, nil
	}
	rgb, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return Color{R: rgb.R, G: rgb.G, B: rgb.B, A: 1}, nil
}

func (c Color) clamped() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

func (c Color) toRGBA() color.RGBA {
	c = c.clamped()
	return color.RGBA{
		R: uint8(c.R*c.A*255 + 0.5),
		G: uint8(c.G*c.A*255 + 0.5),
		B: uint8(c.B*c.A*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

// colorFromRGBA is the inverse of toRGBA: it divides out the alpha of a
// premultiplied 8-bit color.
func colorFromRGBA(p color.RGBA) Color {
	if p.A == 0 {
		return Color{}
	}
	a := float64(p.A)
	return Color{R: float64(p.R) / a, G: float64(p.G) / a, B: float64(p.B) / a, A: a / 255}.clamped()
}

func (c Color) toNRGBA() color.NRGBA {
	c = c.clamped()
	return color.NRGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// BlendMode selects how a layer composites onto what is below it. Modes
// without an ebiten equivalent render as BlendNormal.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over
	BlendMultiply                  // multiply (only darkens)
	BlendScreen                    // screen (only brightens)
	BlendAdd                       // additive / lighter
	BlendOverlay
	BlendDarken
	BlendLighten
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendDarken:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationMin,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendLighten:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationMax,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// LineCap is the shape of open stroke ends.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin is the shape of stroke corners.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// FillRule decides which regions of a self-intersecting path are inside.
type FillRule uint8

const (
	FillRuleNonZero FillRule = iota
	FillRuleEvenOdd
)

// PathDirection is the winding of procedurally generated shapes.
type PathDirection uint8

const (
	Clockwise PathDirection = iota
	CounterClockwise
)
