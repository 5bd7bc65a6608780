package motion

import "fmt"

// PropertyName is the closed set of animatable properties. String returns
// the keypath segment addressing the property.
type PropertyName uint8

const (
	PropAnchor PropertyName = iota
	PropPosition
	PropPositionX
	PropPositionY
	PropScale
	PropRotation
	PropRotationX
	PropRotationY
	PropOpacity
	PropSkew
	PropSkewAxis
	PropSize
	PropRoundness
	PropPoints
	PropInnerRadius
	PropOuterRadius
	PropInnerRoundness
	PropOuterRoundness
	PropPath
	PropColor
	PropStrokeWidth
	PropDash
	PropGap
	PropDashOffset
	PropColors
	PropStartPoint
	PropEndPoint
	PropHighlightLength
	PropHighlightAngle
	PropStart
	PropEnd
	PropOffset
	PropRadius
	PropText
	PropMaskPath
	PropMaskOpacity
	propCount
)

var propertyNames = [propCount]string{
	PropAnchor:          "Anchor Point",
	PropPosition:        "Position",
	PropPositionX:       "X Position",
	PropPositionY:       "Y Position",
	PropScale:           "Scale",
	PropRotation:        "Rotation",
	PropRotationX:       "X Rotation",
	PropRotationY:       "Y Rotation",
	PropOpacity:         "Opacity",
	PropSkew:            "Skew",
	PropSkewAxis:        "Skew Axis",
	PropSize:            "Size",
	PropRoundness:       "Roundness",
	PropPoints:          "Points",
	PropInnerRadius:     "Inner Radius",
	PropOuterRadius:     "Outer Radius",
	PropInnerRoundness:  "Inner Roundness",
	PropOuterRoundness:  "Outer Roundness",
	PropPath:            "Path",
	PropColor:           "Color",
	PropStrokeWidth:     "Stroke Width",
	PropDash:            "Dash",
	PropGap:             "Gap",
	PropDashOffset:      "Dash Offset",
	PropColors:          "Colors",
	PropStartPoint:      "Start Point",
	PropEndPoint:        "End Point",
	PropHighlightLength: "Highlight Length",
	PropHighlightAngle:  "Highlight Angle",
	PropStart:           "Start",
	PropEnd:             "End",
	PropOffset:          "Offset",
	PropRadius:          "Radius",
	PropText:            "Text",
	PropMaskPath:        "Mask Path",
	PropMaskOpacity:     "Mask Opacity",
}

func (n PropertyName) String() string {
	if n < propCount {
		return propertyNames[n]
	}
	return fmt.Sprintf("PropertyName(%d)", uint8(n))
}

// Property is the type-erased handle the graph, keypath matcher and curve
// compiler use. Every implementation is an *AnimatableProperty[T].
type Property interface {
	Name() PropertyName
	// IsAnimated reports whether the effective source varies over time.
	IsAnimated() bool
	// HasUpdate reports whether the value at frame may differ from the
	// last evaluated one.
	HasUpdate(frame float64) bool
	// AnyValue evaluates the property at frame without touching its cache.
	AnyValue(frame float64) any
	// Override reports the kind of the installed override, if any.
	Override() (ProviderKind, bool)

	setOverride(ValueProvider) bool
	clearOverride()
	reset()
	repairReason() string
	compile(c *curveCompiler) (*Curve, error)
}

// AnimatableProperty resolves one animated value. It owns its keyframes and
// cache and is never shared between nodes.
type AnimatableProperty[T Value[T]] struct {
	name     PropertyName
	ip       *Interpolator[T]
	fallback T

	override   typedProvider[T]
	overrideIP *Interpolator[T]
	pending    bool

	evaluated bool
	lastFrame float64
	lastValue T
}

// newProperty wraps g. A nil group makes the property a constant fallback.
func newProperty[T Value[T]](name PropertyName, g *KeyframeGroup[T], fallback T) *AnimatableProperty[T] {
	p := &AnimatableProperty[T]{name: name, fallback: fallback}
	if g != nil && g.Len() > 0 {
		p.ip = NewInterpolator(g)
	}
	return p
}

// Name returns the property name.
func (p *AnimatableProperty[T]) Name() PropertyName { return p.name }

// Keyframes returns the authored keyframe group, or nil for a fallback.
func (p *AnimatableProperty[T]) Keyframes() *KeyframeGroup[T] {
	if p.ip == nil {
		return nil
	}
	return p.ip.group
}

// IsAnimated reports whether the effective source varies over time.
func (p *AnimatableProperty[T]) IsAnimated() bool {
	if p.override != nil {
		switch p.override.Kind() {
		case ProviderClosure:
			return true
		case ProviderKeyframes:
			return p.override.keyframes().IsAnimated()
		}
		return false
	}
	return p.ip != nil && p.ip.group.IsAnimated()
}

// HasUpdate reports whether Value(frame) may differ from the cached value.
func (p *AnimatableProperty[T]) HasUpdate(frame float64) bool {
	if p.pending || !p.evaluated {
		return true
	}
	if p.override != nil {
		switch p.override.Kind() {
		case ProviderClosure:
			return frame != p.lastFrame
		case ProviderKeyframes:
			return p.overrideIP.HasUpdate(frame)
		}
		return false
	}
	if p.ip == nil {
		return false
	}
	return p.ip.HasUpdate(frame)
}

// Value returns the value at frame and caches it.
func (p *AnimatableProperty[T]) Value(frame float64) T {
	if p.evaluated && !p.pending && frame == p.lastFrame {
		return p.lastValue
	}
	var v T
	switch {
	case p.override == nil && p.ip != nil:
		v = p.ip.Value(frame)
	case p.override == nil:
		v = p.fallback
	case p.override.Kind() == ProviderKeyframes:
		v = p.overrideIP.Value(frame)
	default:
		v = p.override.valueAt(frame)
	}
	p.lastValue, p.lastFrame = v, frame
	p.evaluated, p.pending = true, false
	return v
}

// ValueAt evaluates the property at frame without touching any cache.
func (p *AnimatableProperty[T]) ValueAt(frame float64) T {
	switch {
	case p.override != nil:
		return p.override.valueAt(frame)
	case p.ip != nil:
		return p.ip.group.ValueAt(frame)
	}
	return p.fallback
}

// sample is Value when cached is set and ValueAt otherwise.
func (p *AnimatableProperty[T]) sample(frame float64, cached bool) T {
	if cached {
		return p.Value(frame)
	}
	return p.ValueAt(frame)
}

// AnyValue is ValueAt boxed for type-erased callers.
func (p *AnimatableProperty[T]) AnyValue(frame float64) any { return p.ValueAt(frame) }

// Override reports the kind of the installed override.
func (p *AnimatableProperty[T]) Override() (ProviderKind, bool) {
	if p.override == nil {
		return 0, false
	}
	return p.override.Kind(), true
}

// effectiveKeyframes returns the keyframes the property currently plays,
// or nil when values are only known per frame.
func (p *AnimatableProperty[T]) effectiveKeyframes() *KeyframeGroup[T] {
	if p.override != nil {
		return p.override.keyframes()
	}
	if p.ip != nil {
		return p.ip.group
	}
	return Static(p.fallback)
}

// setOverride installs vp when its value type matches and it can produce
// values, and reports whether it did.
func (p *AnimatableProperty[T]) setOverride(vp ValueProvider) bool {
	tp, ok := vp.(typedProvider[T])
	if !ok {
		return false
	}
	if tp.Kind() == ProviderKeyframes && tp.keyframes() == nil {
		return false
	}
	if c, ok := tp.(*ClosureValue[T]); ok && (c == nil || c.Fn == nil) {
		return false
	}
	p.override = tp
	p.overrideIP = nil
	if g := tp.keyframes(); tp.Kind() == ProviderKeyframes {
		p.overrideIP = NewInterpolator(g)
	}
	p.pending = true
	return true
}

func (p *AnimatableProperty[T]) clearOverride() {
	if p.override == nil {
		return
	}
	p.override, p.overrideIP = nil, nil
	p.pending = true
}

func (p *AnimatableProperty[T]) reset() {
	p.evaluated = false
	if p.ip != nil {
		p.ip.Reset()
	}
	if p.overrideIP != nil {
		p.overrideIP.Reset()
	}
}

func (p *AnimatableProperty[T]) repairReason() string {
	if p.ip == nil {
		return ""
	}
	return p.ip.group.repaired
}

func (p *AnimatableProperty[T]) String() string {
	return fmt.Sprintf("%s=%v", p.name, p.lastValue)
}
