package motion

// Value is the constraint satisfied by every keyframeable value type.
// Interpolate blends toward another value, Components flattens the value to
// numbers for curve compilation and withComponents rebuilds a value of the
// same shape from such numbers.
type Value[T any] interface {
	Interpolate(to T, amount float64) T
	Components(dst []float64) []float64
	withComponents(c []float64) T
}

// spatialValue is implemented by position-like values whose interpolation
// path can be bent by spatial tangents.
type spatialValue[T any] interface {
	InterpolateSpatial(to T, outTangent, inTangent Vec2, amount float64) T
}

// Scalar is a single animatable number such as opacity, rotation or width.
type Scalar float64

// Interpolate returns s + (to - s) * amount.
func (s Scalar) Interpolate(to Scalar, amount float64) Scalar {
	return s + (to-s)*Scalar(amount)
}

// Components appends s to dst.
func (s Scalar) Components(dst []float64) []float64 { return append(dst, float64(s)) }

func (s Scalar) withComponents(c []float64) Scalar { return Scalar(c[0]) }

func (v Vec2) withComponents(c []float64) Vec2 { return Vec2{c[0], c[1]} }

func (c Color) withComponents(comps []float64) Color {
	return Color{comps[0], comps[1], comps[2], comps[3]}
}

func (p BezierPath) withComponents(c []float64) BezierPath { return pathFromComponents(&p, c) }

// GradientStop is one colour stop of a gradient. Offset is in [0, 1].
type GradientStop struct {
	Offset float64
	Color  Color
}

// GradientStops is the animatable stop list of a gradient.
type GradientStops []GradientStop

// Interpolate blends stop by stop. Lists of different length hold.
func (g GradientStops) Interpolate(to GradientStops, amount float64) GradientStops {
	if len(g) != len(to) {
		if amount < 1 {
			return g
		}
		return to
	}
	out := make(GradientStops, len(g))
	for i := range g {
		out[i] = GradientStop{
			Offset: g[i].Offset + (to[i].Offset-g[i].Offset)*amount,
			Color:  g[i].Color.Interpolate(to[i].Color, amount),
		}
	}
	return out
}

// Components appends offset and colour of every stop to dst.
func (g GradientStops) Components(dst []float64) []float64 {
	for _, s := range g {
		dst = append(dst, s.Offset)
		dst = s.Color.Components(dst)
	}
	return dst
}

func (g GradientStops) withComponents(c []float64) GradientStops {
	out := make(GradientStops, len(g))
	for i := range out {
		s := c[i*5 : i*5+5]
		out[i] = GradientStop{Offset: s[0], Color: Color{s[1], s[2], s[3], s[4]}}
	}
	return out
}

// Justify is the horizontal alignment of a text document.
type Justify uint8

const (
	JustifyLeft Justify = iota
	JustifyRight
	JustifyCenter
)

// TextDocument is the keyframed content of a text layer.
type TextDocument struct {
	Text       string
	Font       string
	Size       float64
	LineHeight float64
	Tracking   float64
	Justify    Justify
	Fill       Color
	Stroke     Color
	StrokeSize float64
}

// Interpolate holds: text cannot be blended, so d is returned until amount
// reaches 1.
func (d TextDocument) Interpolate(to TextDocument, amount float64) TextDocument {
	if amount < 1 {
		return d
	}
	return to
}

// Components returns dst unchanged. Text documents have no numeric form.
func (d TextDocument) Components(dst []float64) []float64 { return dst }

func (d TextDocument) withComponents([]float64) TextDocument { return d }
