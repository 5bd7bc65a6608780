package motion

// ProviderKind tells how an override produces its values.
type ProviderKind uint8

const (
	// ProviderFixed supplies one constant value.
	ProviderFixed ProviderKind = iota
	// ProviderKeyframes supplies a precomputed keyframe list.
	ProviderKeyframes
	// ProviderClosure computes the value per frame in host code.
	ProviderClosure
)

func (k ProviderKind) String() string {
	switch k {
	case ProviderFixed:
		return "fixed"
	case ProviderKeyframes:
		return "keyframes"
	case ProviderClosure:
		return "closure"
	}
	return "unknown"
}

// ValueProvider replaces the authored value of the properties matched by a
// keypath. A provider only affects properties of its own value type; others
// keep their authored values.
//
// Providers may be shared by many properties. Hosts that mutate a provider
// from another goroutine must synchronize it themselves.
type ValueProvider interface {
	Kind() ProviderKind
}

type typedProvider[T Value[T]] interface {
	ValueProvider
	valueAt(frame float64) T
	// keyframes returns the provider as a keyframe group, or nil when values
	// are only known per frame.
	keyframes() *KeyframeGroup[T]
}

// FixedValue overrides a property with a constant.
type FixedValue[T Value[T]] struct {
	Value T
}

// Fixed returns a provider that always yields v.
func Fixed[T Value[T]](v T) *FixedValue[T] { return &FixedValue[T]{Value: v} }

// Kind returns ProviderFixed.
func (*FixedValue[T]) Kind() ProviderKind { return ProviderFixed }

func (p *FixedValue[T]) valueAt(float64) T { return p.Value }

func (p *FixedValue[T]) keyframes() *KeyframeGroup[T] { return Static(p.Value) }

// KeyframeValue overrides a property with a new keyframe group.
type KeyframeValue[T Value[T]] struct {
	Group *KeyframeGroup[T]
}

// Keyframed returns a provider backed by g.
func Keyframed[T Value[T]](g *KeyframeGroup[T]) *KeyframeValue[T] { return &KeyframeValue[T]{Group: g} }

// Kind returns ProviderKeyframes.
func (*KeyframeValue[T]) Kind() ProviderKind { return ProviderKeyframes }

func (p *KeyframeValue[T]) valueAt(frame float64) T { return p.Group.ValueAt(frame) }

func (p *KeyframeValue[T]) keyframes() *KeyframeGroup[T] { return p.Group }

// ClosureValue overrides a property with a function of the layer frame.
// Closures force the immediate backend.
type ClosureValue[T Value[T]] struct {
	Fn func(frame float64) T
}

// Closure returns a provider that calls fn every frame. A nil fn is never
// installed.
func Closure[T Value[T]](fn func(frame float64) T) *ClosureValue[T] {
	return &ClosureValue[T]{Fn: fn}
}

// Kind returns ProviderClosure.
func (*ClosureValue[T]) Kind() ProviderKind { return ProviderClosure }

func (p *ClosureValue[T]) valueAt(frame float64) T { return p.Fn(frame) }

func (*ClosureValue[T]) keyframes() *KeyframeGroup[T] { return nil }
