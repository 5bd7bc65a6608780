package motion

import (
	"fmt"
	"log/slog"
	"time"
)

// debugStats holds per-frame evaluation metrics. Only collected when the
// engine runs with Config.Debug.
type debugStats struct {
	evalTime     time.Duration
	visited      int
	rebuilt      int
	layerCount   int
	commandCount int
	customCount  int
}

func collectStats(g *Graph, list *DisplayList) debugStats {
	s := debugStats{visited: g.stats.visited, rebuilt: g.stats.rebuilt}
	if list == nil {
		return s
	}
	s.layerCount = len(list.Layers)
	s.commandCount = list.commandCount()
	for i := range list.Layers {
		for j := range list.Layers[i].Commands {
			if cmd := &list.Layers[i].Commands[j]; cmd.Paint != nil && cmd.Paint.needsCustomCompositing() {
				s.customCount++
			}
		}
	}
	return s
}

func (s debugStats) log(frame float64) {
	Logger().Debug("frame",
		slog.Float64("frame", frame),
		slog.Duration("eval", s.evalTime),
		slog.Int("visited", s.visited),
		slog.Int("rebuilt", s.rebuilt),
		slog.Int("layers", s.layerCount),
		slog.Int("commands", s.commandCount),
		slog.Int("custom", s.customCount),
	)
}

// logFrameStats logs the stats of the graph's last pass.
func logFrameStats(g *Graph, list *DisplayList) {
	collectStats(g, list).log(g.frame)
}

// assertf panics in debug mode and logs a warning otherwise. Callers repair
// the offending state after it returns.
func assertf(debug bool, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if debug {
		panic("motion debug: " + msg)
	}
	Logger().Warn(msg)
}

// debugMaxParentDepth is the layer parenting depth above which a warning
// is logged.
const debugMaxParentDepth = 32

func debugCheckParentDepth(g *Graph) {
	for _, id := range g.Layers() {
		depth := 0
		for p := id; p != NoNode; p = g.nodes[p].content.(*layerContent).parent {
			depth++
			if depth > len(g.Layers()) {
				break
			}
		}
		if depth > debugMaxParentDepth {
			Logger().Warn("deep layer parenting", "layer", g.nodes[id].name, "depth", depth, "threshold", debugMaxParentDepth)
		}
	}
}
