package motion

// Backend identifies the renderer an engine is currently using.
type Backend uint8

const (
	// BackendImmediate evaluates the node graph on the owning goroutine for
	// every frame that is set.
	BackendImmediate Backend = iota
	// BackendDeclarative hands compiled curves to the compositor goroutine.
	BackendDeclarative
)

func (b Backend) String() string {
	switch b {
	case BackendImmediate:
		return "immediate"
	case BackendDeclarative:
		return "declarative"
	}
	return "unknown"
}

// ImmediateRenderer evaluates the graph on demand and keeps the display list
// of the last frame. Each SetFrame is one atomic pass: the graph update and
// the list emission finish before it returns.
type ImmediateRenderer struct {
	g       *Graph
	list    DisplayList
	frame   float64
	hasList bool
	stopped bool
	debug   bool
}

// NewImmediateRenderer returns a renderer for g. No frame is evaluated yet.
func NewImmediateRenderer(g *Graph) *ImmediateRenderer {
	return &ImmediateRenderer{g: g}
}

// SetFrame evaluates the graph at frame and rebuilds the display list.
// After RemoveAll it only records the frame.
func (r *ImmediateRenderer) SetFrame(frame float64) {
	r.frame = frame
	if r.stopped {
		return
	}
	r.g.Update(frame, false)
	emitDisplayList(r.g, &r.list)
	r.hasList = true
	if r.debug {
		logFrameStats(r.g, &r.list)
	}
}

// Refresh drops every cache and re-evaluates the current frame.
func (r *ImmediateRenderer) Refresh() {
	if r.stopped {
		return
	}
	r.g.ForceUpdate()
	emitDisplayList(r.g, &r.list)
	r.hasList = true
}

// CurrentFrame returns the frame of the last SetFrame.
func (r *ImmediateRenderer) CurrentFrame() float64 { return r.frame }

// DisplayList returns the list of the last evaluated frame, or nil before
// the first one. The list is reused by the next SetFrame.
func (r *ImmediateRenderer) DisplayList() *DisplayList {
	if !r.hasList {
		return nil
	}
	return &r.list
}

// RemoveAll stops per-frame updates. The last list stays visible.
func (r *ImmediateRenderer) RemoveAll() { r.stopped = true }

// Graph returns the evaluated graph.
func (r *ImmediateRenderer) Graph() *Graph { return r.g }
