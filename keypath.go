package motion

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKeyPath is returned for keypaths with empty segments.
var ErrInvalidKeyPath = errors.New("motion: invalid keypath")

// KeyPath addresses properties by the names from the layer down to the
// property, joined with dots, e.g. "Layer.Group 1.Fill 1.Color".
// A "*" segment matches exactly one name, "**" matches any number of names.
type KeyPath struct {
	segments []string
}

// ParseKeyPath splits s on dots.
func ParseKeyPath(s string) (KeyPath, error) {
	if s == "" {
		return KeyPath{}, fmt.Errorf("%w: empty", ErrInvalidKeyPath)
	}
	segs := strings.Split(s, ".")
	for i, seg := range segs {
		if seg == "" {
			return KeyPath{}, fmt.Errorf("%w: empty segment %d in %q", ErrInvalidKeyPath, i, s)
		}
	}
	return KeyPath{segments: segs}, nil
}

// MustKeyPath is ParseKeyPath that panics on error, for literals.
func MustKeyPath(s string) KeyPath {
	k, err := ParseKeyPath(s)
	if err != nil {
		panic(err)
	}
	return k
}

// String joins the segments with dots.
func (k KeyPath) String() string { return strings.Join(k.segments, ".") }

// HasWildcard reports whether any segment is "*" or "**".
func (k KeyPath) HasWildcard() bool {
	for _, s := range k.segments {
		if s == "*" || s == "**" {
			return true
		}
	}
	return false
}

// Matches reports whether the concrete name path is addressed by k.
func (k KeyPath) Matches(names []string) bool {
	return matchSegments(k.segments, names)
}

func matchSegments(pattern, names []string) bool {
	for len(pattern) > 0 {
		seg := pattern[0]
		if seg == "**" {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(names); i++ {
				if matchSegments(rest, names[i:]) {
					return true
				}
			}
			return false
		}
		if len(names) == 0 {
			return false
		}
		if seg != "*" && seg != names[0] {
			return false
		}
		pattern, names = pattern[1:], names[1:]
	}
	return len(names) == 0
}

func joinNames(names []string) string { return strings.Join(names, ".") }
