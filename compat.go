package motion

import (
	"fmt"
	"strings"
)

// CompatibilityReport is the outcome of checking an animation against the
// declarative backend.
type CompatibilityReport struct {
	Compatible bool
	// Reasons lists every rejected feature, in graph order.
	Reasons []string
}

func (r CompatibilityReport) String() string {
	if r.Compatible {
		return "compatible"
	}
	return "unsupported: " + strings.Join(r.Reasons, "; ")
}

type compatInput struct {
	g         *Graph
	overrides []valueOverride
}

// compatRule rejects one family of features. A rule returns one reason per
// offending node or override.
type compatRule struct {
	name  string
	check func(in *compatInput) []string
}

// declarativeKinds are the node kinds the compositor can play. Every other
// kind needs per-frame graph evaluation.
var declarativeKinds = map[NodeKind]bool{
	KindRoot:      true,
	KindLayer:     true,
	KindTransform: true,
	KindGroup:     true,
	KindPath:      true,
	KindRender:    true,
	KindImage:     true,
}

// compatRules is the allow-list. Rules are checked in order and all of them
// run so the report is complete. Append new rules as the compositor grows.
var compatRules = []compatRule{
	{"node kinds", checkNodeKinds},
	{"wildcard overrides", checkWildcardOverrides},
	{"closure providers", checkClosureProviders},
	{"path animation", checkPathAnimation},
	{"paint animation", checkPaintAnimation},
	{"layer timing", checkLayerTiming},
}

// CheckCompatibility runs every rule against g and the installed overrides.
func CheckCompatibility(g *Graph, overrides []valueOverride) CompatibilityReport {
	in := &compatInput{g: g, overrides: overrides}
	var reasons []string
	for _, r := range compatRules {
		for _, reason := range r.check(in) {
			reasons = append(reasons, r.name+": "+reason)
		}
	}
	return CompatibilityReport{Compatible: len(reasons) == 0, Reasons: reasons}
}

func (g *Graph) describe(id NodeID) string {
	return fmt.Sprintf("%s %q", g.nodes[id].kind, joinNames(g.namePath(id)))
}

func checkNodeKinds(in *compatInput) []string {
	var out []string
	for i := range in.g.nodes {
		n := &in.g.nodes[i]
		if !declarativeKinds[n.kind] {
			out = append(out, in.g.describe(n.id)+" needs per-frame evaluation")
		}
	}
	return out
}

func checkWildcardOverrides(in *compatInput) []string {
	var out []string
	for _, o := range in.overrides {
		if o.path.HasWildcard() {
			out = append(out, fmt.Sprintf("%q", o.path.String()))
		}
	}
	return out
}

func checkClosureProviders(in *compatInput) []string {
	var out []string
	for _, o := range in.overrides {
		if o.provider.Kind() == ProviderClosure {
			out = append(out, fmt.Sprintf("%q computes values per frame", o.path.String()))
		}
	}
	in.g.eachProperty(func(ref propertyRef) {
		if k, ok := ref.prop.Override(); ok && k == ProviderClosure {
			out = append(out, fmt.Sprintf("%q is driven by a closure", joinNames(ref.names)))
		}
	})
	return out
}

// checkPathAnimation allows at most one animated property per path node:
// the compositor has one path attribute per shape.
func checkPathAnimation(in *compatInput) []string {
	var out []string
	for i := range in.g.nodes {
		n := &in.g.nodes[i]
		if n.kind != KindPath {
			continue
		}
		animated := 0
		for _, p := range n.content.properties() {
			if p.IsAnimated() {
				animated++
			}
		}
		if animated > 1 {
			out = append(out, fmt.Sprintf("%s has %d animated path properties", in.g.describe(n.id), animated))
		}
	}
	return out
}

// checkPaintAnimation rejects animated gradient stops and dash patterns,
// which the compositor cannot interpolate.
func checkPaintAnimation(in *compatInput) []string {
	var out []string
	for i := range in.g.nodes {
		n := &in.g.nodes[i]
		if n.kind != KindRender {
			continue
		}
		rc := n.content.(*renderContent)
		if rc.gradient != nil && rc.gradient.stops.IsAnimated() {
			out = append(out, in.g.describe(n.id)+" animates gradient stops")
		}
		if rc.stroke != nil {
			for _, d := range rc.stroke.dashes {
				if d.IsAnimated() {
					out = append(out, in.g.describe(n.id)+" animates its dash pattern")
					break
				}
			}
		}
	}
	return out
}

func checkLayerTiming(in *compatInput) []string {
	var out []string
	for _, id := range in.g.Layers() {
		l := in.g.nodes[id].content.(*layerContent).layer
		if l.stretch() != 1 {
			out = append(out, fmt.Sprintf("%s stretches time by %v", in.g.describe(id), l.stretch()))
		}
		if l.OutFrame <= l.InFrame {
			out = append(out, in.g.describe(id)+" has an empty window")
		}
	}
	return out
}
