package motion

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyKeyframes is returned when a keyframe group has no keyframes.
	ErrEmptyKeyframes = errors.New("motion: keyframe group is empty")
	// ErrUnsortedKeyframes is returned when keyframe times do not strictly increase.
	ErrUnsortedKeyframes = errors.New("motion: keyframe times must strictly increase")
)

// Keyframe is one timed sample of an animated property.
//
// InTangent and OutTangent are the easing control points in the unit square
// for the segments arriving at and leaving this keyframe. Nil means linear.
// SpatialIn and SpatialOut bend the path between position values and are
// relative to the keyframe value.
type Keyframe[T Value[T]] struct {
	Value      T
	Time       float64
	Hold       bool
	InTangent  *Vec2
	OutTangent *Vec2
	SpatialIn  *Vec2
	SpatialOut *Vec2
}

// KeyframeGroup is an immutable, time-ordered, non-empty run of keyframes.
// A group with one keyframe is a static value.
type KeyframeGroup[T Value[T]] struct {
	keyframes []Keyframe[T]
	timings   []timingCurve // one per segment
	repaired  string
}

// NewKeyframeGroup validates and wraps keyframes. Times must strictly increase.
func NewKeyframeGroup[T Value[T]](keyframes ...Keyframe[T]) (*KeyframeGroup[T], error) {
	if len(keyframes) == 0 {
		return nil, ErrEmptyKeyframes
	}
	for i := 1; i < len(keyframes); i++ {
		if !(keyframes[i].Time > keyframes[i-1].Time) {
			return nil, fmt.Errorf("keyframe %d at %v after %v: %w",
				i, keyframes[i].Time, keyframes[i-1].Time, ErrUnsortedKeyframes)
		}
	}
	return newGroup(keyframes), nil
}

// Keyframes builds a group like NewKeyframeGroup but never fails: unsorted
// keyframes are sorted, duplicate times keep the last sample and an empty list
// becomes a static zero value. Repairs are logged as warnings and reported as
// assertion failures by engines running with Config.Debug.
func Keyframes[T Value[T]](keyframes ...Keyframe[T]) *KeyframeGroup[T] {
	g, err := NewKeyframeGroup(keyframes...)
	if err == nil {
		return g
	}
	if errors.Is(err, ErrEmptyKeyframes) {
		var zero T
		g = Static(zero)
	} else {
		kfs := make([]Keyframe[T], len(keyframes))
		copy(kfs, keyframes)
		sort.SliceStable(kfs, func(i, j int) bool { return kfs[i].Time < kfs[j].Time })
		dedup := kfs[:0]
		for _, kf := range kfs {
			if n := len(dedup); n > 0 && dedup[n-1].Time == kf.Time {
				dedup[n-1] = kf
				continue
			}
			dedup = append(dedup, kf)
		}
		g = newGroup(dedup)
	}
	g.repaired = err.Error()
	Logger().Warn("repaired keyframe group", "err", err)
	return g
}

// Static returns a single-keyframe group holding v.
func Static[T Value[T]](v T) *KeyframeGroup[T] {
	return newGroup([]Keyframe[T]{{Value: v}})
}

func newGroup[T Value[T]](keyframes []Keyframe[T]) *KeyframeGroup[T] {
	g := &KeyframeGroup[T]{keyframes: keyframes}
	if len(keyframes) > 1 {
		g.timings = make([]timingCurve, len(keyframes)-1)
		for i := range g.timings {
			g.timings[i] = newTimingCurve(keyframes[i].OutTangent, keyframes[i+1].InTangent)
		}
	}
	return g
}

// Len returns the number of keyframes.
func (g *KeyframeGroup[T]) Len() int { return len(g.keyframes) }

// At returns the i-th keyframe.
func (g *KeyframeGroup[T]) At(i int) Keyframe[T] { return g.keyframes[i] }

// IsAnimated reports whether the group has more than one keyframe.
func (g *KeyframeGroup[T]) IsAnimated() bool { return len(g.keyframes) > 1 }

// StartTime returns the time of the first keyframe.
func (g *KeyframeGroup[T]) StartTime() float64 { return g.keyframes[0].Time }

// EndTime returns the time of the last keyframe.
func (g *KeyframeGroup[T]) EndTime() float64 { return g.keyframes[len(g.keyframes)-1].Time }

// hasSpatial reports whether segment i carries spatial tangents.
func (g *KeyframeGroup[T]) hasSpatial(i int) bool {
	return g.keyframes[i].SpatialOut != nil || g.keyframes[i+1].SpatialIn != nil
}

// segmentIndex returns i such that keyframes[i].Time <= frame < keyframes[i+1].Time,
// -1 before the first keyframe and len-1 at or after the last.
func (g *KeyframeGroup[T]) segmentIndex(frame float64, hint int) int {
	n := len(g.keyframes)
	if frame < g.keyframes[0].Time {
		return -1
	}
	if frame >= g.keyframes[n-1].Time {
		return n - 1
	}
	if hint >= 0 && hint < n-1 && g.keyframes[hint].Time <= frame && frame < g.keyframes[hint+1].Time {
		return hint
	}
	// First keyframe strictly after frame, minus one.
	return sort.Search(n, func(i int) bool { return g.keyframes[i].Time > frame }) - 1
}

// valueAt evaluates the group at frame. It has no side effects.
func (g *KeyframeGroup[T]) valueAt(frame float64, seg int) T {
	n := len(g.keyframes)
	if seg < 0 {
		return g.keyframes[0].Value
	}
	if seg >= n-1 {
		return g.keyframes[n-1].Value
	}
	a, b := g.keyframes[seg], g.keyframes[seg+1]
	if a.Hold {
		return a.Value
	}
	t := clamp01((frame - a.Time) / (b.Time - a.Time))
	eased := g.timings[seg].solve(t)
	if g.hasSpatial(seg) {
		if sv, ok := any(a.Value).(spatialValue[T]); ok {
			var out, in Vec2
			if a.SpatialOut != nil {
				out = *a.SpatialOut
			}
			if b.SpatialIn != nil {
				in = *b.SpatialIn
			}
			return sv.InterpolateSpatial(b.Value, out, in, eased)
		}
	}
	return a.Value.Interpolate(b.Value, eased)
}

// ValueAt evaluates the group at frame without any caching.
func (g *KeyframeGroup[T]) ValueAt(frame float64) T {
	return g.valueAt(frame, g.segmentIndex(frame, -1))
}

// Interpolator evaluates a keyframe group and remembers the last frame,
// segment and value. Re-evaluating the cached frame returns the identical value.
type Interpolator[T Value[T]] struct {
	group     *KeyframeGroup[T]
	evaluated bool
	lastFrame float64
	lastSeg   int
	lastValue T
}

// NewInterpolator returns an interpolator over g.
func NewInterpolator[T Value[T]](g *KeyframeGroup[T]) *Interpolator[T] {
	return &Interpolator[T]{group: g, lastSeg: -1}
}

// Group returns the underlying keyframe group.
func (ip *Interpolator[T]) Group() *KeyframeGroup[T] { return ip.group }

// Value returns the value at frame, using the cache when possible.
func (ip *Interpolator[T]) Value(frame float64) T {
	if ip.evaluated && frame == ip.lastFrame {
		return ip.lastValue
	}
	seg := ip.group.segmentIndex(frame, ip.lastSeg)
	ip.lastValue = ip.group.valueAt(frame, seg)
	ip.lastSeg = seg
	ip.lastFrame = frame
	ip.evaluated = true
	return ip.lastValue
}

// HasUpdate reports whether the value at frame may differ from the cached one.
func (ip *Interpolator[T]) HasUpdate(frame float64) bool {
	if !ip.evaluated {
		return true
	}
	if frame == ip.lastFrame || !ip.group.IsAnimated() {
		return false
	}
	prev := ip.group.segmentIndex(ip.lastFrame, ip.lastSeg)
	next := ip.group.segmentIndex(frame, prev)
	if prev != next {
		return true
	}
	if prev < 0 || prev >= ip.group.Len()-1 {
		return false
	}
	return !ip.group.keyframes[prev].Hold
}

// Reset drops the cache so the next HasUpdate reports true.
func (ip *Interpolator[T]) Reset() {
	ip.evaluated = false
	ip.lastSeg = -1
}
