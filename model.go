package motion

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAnimation is wrapped by every error returned from Animation.Validate.
var ErrInvalidAnimation = errors.New("motion: invalid animation")

// Animation is a decoded, immutable scene. The engine references it and
// never mutates it.
type Animation struct {
	Name       string
	Width      float64
	Height     float64
	StartFrame float64
	EndFrame   float64
	FrameRate  float64
	// Layers are listed top to bottom: the first layer draws last.
	Layers []*Layer
	Assets []ImageAsset
}

// Duration returns the playback length in seconds.
func (a *Animation) Duration() float64 {
	if a.FrameRate <= 0 {
		return 0
	}
	return (a.EndFrame - a.StartFrame) / a.FrameRate
}

// Bounds returns the composition rectangle.
func (a *Animation) Bounds() Rect {
	return Rect{Width: a.Width, Height: a.Height}
}

// Asset looks up an image asset by id.
func (a *Animation) Asset(id string) (ImageAsset, bool) {
	for _, as := range a.Assets {
		if as.ID == id {
			return as, true
		}
	}
	return ImageAsset{}, false
}

// Validate checks the structural invariants the engine relies on.
func (a *Animation) Validate() error {
	if a.FrameRate <= 0 {
		return fmt.Errorf("%w: frame rate %v", ErrInvalidAnimation, a.FrameRate)
	}
	if a.EndFrame <= a.StartFrame {
		return fmt.Errorf("%w: end frame %v not after start frame %v", ErrInvalidAnimation, a.EndFrame, a.StartFrame)
	}
	byIndex := make(map[int]*Layer, len(a.Layers))
	for _, l := range a.Layers {
		if _, dup := byIndex[l.Index]; dup {
			return fmt.Errorf("%w: duplicate layer index %d", ErrInvalidAnimation, l.Index)
		}
		byIndex[l.Index] = l
	}
	for _, l := range a.Layers {
		seen := map[int]bool{l.Index: true}
		for p := l; p.HasParent; {
			next, ok := byIndex[p.Parent]
			if !ok {
				return fmt.Errorf("%w: layer %q has unknown parent %d", ErrInvalidAnimation, l.Name, p.Parent)
			}
			if seen[next.Index] {
				return fmt.Errorf("%w: parent cycle through layer %q", ErrInvalidAnimation, l.Name)
			}
			seen[next.Index] = true
			p = next
		}
		if l.Type == LayerImage {
			if _, ok := a.Asset(l.ImageRef); !ok {
				return fmt.Errorf("%w: layer %q references unknown asset %q", ErrInvalidAnimation, l.Name, l.ImageRef)
			}
		}
	}
	return nil
}

// ImageAsset describes a bitmap referenced by image layers.
type ImageAsset struct {
	ID     string
	Width  float64
	Height float64
	Path   string
}

// LayerType selects what a layer draws.
type LayerType uint8

const (
	LayerShape LayerType = iota
	LayerSolid
	LayerImage
	LayerText
	LayerNull
)

func (t LayerType) String() string {
	switch t {
	case LayerShape:
		return "shape"
	case LayerSolid:
		return "solid"
	case LayerImage:
		return "image"
	case LayerText:
		return "text"
	case LayerNull:
		return "null"
	}
	return "unknown"
}

// Layer is one timeline layer.
type Layer struct {
	Name string
	// Index identifies the layer for transform parenting.
	Index     int
	Parent    int
	HasParent bool
	Type      LayerType
	// The layer is visible for composition frames in [InFrame, OutFrame).
	InFrame  float64
	OutFrame float64
	// StartTime offsets and TimeStretch scales the layer's own timeline.
	// A zero TimeStretch means 1.
	StartTime   float64
	TimeStretch float64
	Transform   *Transform
	Blend       BlendMode
	Hidden      bool
	Masks       []*Mask

	Shapes     []ShapeItem
	SolidColor Color
	SolidSize  Vec2
	ImageRef   string
	Text       *KeyframeGroup[TextDocument]
}

// stretch returns the effective time stretch.
func (l *Layer) stretch() float64 {
	if l.TimeStretch == 0 {
		return 1
	}
	return l.TimeStretch
}

// LocalFrame converts a composition frame to the layer's timeline.
func (l *Layer) LocalFrame(frame float64) float64 {
	return (frame - l.StartTime) / l.stretch()
}

// WindowFrame clamps a composition frame to the layer's in/out range. Both
// backends evaluate a layer at its window frame, so a parent keeps the pose
// of its nearest window edge while outside its range.
func (l *Layer) WindowFrame(frame float64) float64 {
	if l.OutFrame <= l.InFrame {
		return frame
	}
	return math.Max(l.InFrame, math.Min(frame, l.OutFrame))
}

// VisibleAt reports whether the layer is inside its in/out range at frame.
func (l *Layer) VisibleAt(frame float64) bool {
	return !l.Hidden && frame >= l.InFrame && frame < l.OutFrame
}

// Transform holds the animatable transform of a layer or shape group.
// Nil groups take their defaults: zero anchor and position, 100% scale,
// no rotation or skew and 100% opacity. PositionX and PositionY, when set,
// replace Position.
type Transform struct {
	Anchor    *KeyframeGroup[Vec2]
	Position  *KeyframeGroup[Vec2]
	PositionX *KeyframeGroup[Scalar]
	PositionY *KeyframeGroup[Scalar]
	Scale     *KeyframeGroup[Vec2]
	Rotation  *KeyframeGroup[Scalar]
	RotationX *KeyframeGroup[Scalar]
	RotationY *KeyframeGroup[Scalar]
	Skew      *KeyframeGroup[Scalar]
	SkewAxis  *KeyframeGroup[Scalar]
	Opacity   *KeyframeGroup[Scalar]
}

// MaskMode decides how a mask combines with the masks above it.
type MaskMode uint8

const (
	MaskAdd MaskMode = iota
	MaskSubtract
	MaskIntersect
	MaskNone
)

// Mask clips a layer to an animated path.
type Mask struct {
	Name     string
	Mode     MaskMode
	Inverted bool
	Path     *KeyframeGroup[BezierPath]
	Opacity  *KeyframeGroup[Scalar]
}

// ShapeItem is one entry of a shape layer or group. Items are listed top to
// bottom like layers.
type ShapeItem interface {
	ItemName() string
	IsHidden() bool
}

// ItemInfo is embedded by every shape item.
type ItemInfo struct {
	Name   string
	Hidden bool
}

// ItemName returns the keypath segment of the item.
func (i ItemInfo) ItemName() string { return i.Name }

// IsHidden reports whether the item is switched off.
func (i ItemInfo) IsHidden() bool { return i.Hidden }

// ShapeGroup nests items under their own transform.
type ShapeGroup struct {
	ItemInfo
	Items     []ShapeItem
	Transform *Transform
}

// Ellipse generates an ellipse path.
type Ellipse struct {
	ItemInfo
	Size      *KeyframeGroup[Vec2]
	Position  *KeyframeGroup[Vec2]
	Direction PathDirection
}

// Rectangle generates a rectangle path with optional rounded corners.
type Rectangle struct {
	ItemInfo
	Size      *KeyframeGroup[Vec2]
	Position  *KeyframeGroup[Vec2]
	Roundness *KeyframeGroup[Scalar]
	Direction PathDirection
}

// StarKind selects between a star and a regular polygon.
type StarKind uint8

const (
	KindStar StarKind = iota
	KindPolygon
)

// Star generates a star or polygon path.
type Star struct {
	ItemInfo
	Kind           StarKind
	Position       *KeyframeGroup[Vec2]
	Points         *KeyframeGroup[Scalar]
	Rotation       *KeyframeGroup[Scalar]
	InnerRadius    *KeyframeGroup[Scalar]
	OuterRadius    *KeyframeGroup[Scalar]
	InnerRoundness *KeyframeGroup[Scalar]
	OuterRoundness *KeyframeGroup[Scalar]
	Direction      PathDirection
}

// Shape is a free-form animated path.
type Shape struct {
	ItemInfo
	Path      *KeyframeGroup[BezierPath]
	Direction PathDirection
}

// Fill paints the paths above it in the same group.
type Fill struct {
	ItemInfo
	Color    *KeyframeGroup[Color]
	Opacity  *KeyframeGroup[Scalar]
	FillRule FillRule
}

// DashKind labels an entry of a stroke dash pattern.
type DashKind uint8

const (
	DashLength DashKind = iota
	DashGap
	DashOffset
)

// DashElement is one animated entry of a dash pattern.
type DashElement struct {
	Kind  DashKind
	Value *KeyframeGroup[Scalar]
}

// StrokeStyle holds the geometry settings shared by solid and gradient strokes.
type StrokeStyle struct {
	Width      *KeyframeGroup[Scalar]
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	Dashes     []DashElement
}

// Stroke outlines the paths above it in the same group.
type Stroke struct {
	ItemInfo
	StrokeStyle
	Color   *KeyframeGroup[Color]
	Opacity *KeyframeGroup[Scalar]
}

// GradientType selects the gradient geometry.
type GradientType uint8

const (
	GradientLinear GradientType = iota
	GradientRadial
)

// Gradient holds the animatable parameters of a gradient paint.
type Gradient struct {
	Type  GradientType
	Stops *KeyframeGroup[GradientStops]
	Start *KeyframeGroup[Vec2]
	End   *KeyframeGroup[Vec2]
	// HighlightLength is a percentage of the radius, radial only.
	HighlightLength *KeyframeGroup[Scalar]
	HighlightAngle  *KeyframeGroup[Scalar]
}

// GradientFill fills with a gradient.
type GradientFill struct {
	ItemInfo
	Gradient
	Opacity  *KeyframeGroup[Scalar]
	FillRule FillRule
}

// GradientStroke strokes with a gradient.
type GradientStroke struct {
	ItemInfo
	Gradient
	StrokeStyle
	Opacity *KeyframeGroup[Scalar]
}

// RoundedCorners rounds the sharp corners of the paths above it.
type RoundedCorners struct {
	ItemInfo
	Radius *KeyframeGroup[Scalar]
}

// Trim keeps part of the paths above it. Start and End are percentages,
// Offset is in degrees.
type Trim struct {
	ItemInfo
	Start  *KeyframeGroup[Scalar]
	End    *KeyframeGroup[Scalar]
	Offset *KeyframeGroup[Scalar]
	Mode   TrimMode
}
